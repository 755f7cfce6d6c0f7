package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/wisync/internal/domain"
)

const (
	contentJSON      = "application/json"
	contentJSONPatch = "application/json-patch+json"
)

// Client talks to the Azure DevOps work item tracking REST API for one
// organization and project.
type Client struct {
	cfg     domain.Config
	baseURL string
	tokens  TokenSource
	opts    Options
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client. cfg must name an organization and project.
func New(cfg domain.Config, tokens TokenSource, opts Options) (*Client, error) {
	cfg = cfg.Normalized()
	if cfg.OrgURL == "" || cfg.Project == "" {
		return nil, domain.Errorf(domain.KindValidation, "connect tracker", "organization url and project are required")
	}
	if tokens == nil {
		return nil, domain.Errorf(domain.KindValidation, "connect tracker", "no credential source configured")
	}
	opts = opts.withDefaults()
	return &Client{
		cfg:     cfg,
		baseURL: cfg.OrgURL + "/" + url.PathEscape(cfg.Project) + "/_apis/wit",
		tokens:  tokens,
		opts:    opts,
		http:    opts.HTTPClient,
		logger:  opts.Logger,
	}, nil
}

// Config returns the normalized configuration the client was built with.
func (c *Client) Config() domain.Config { return c.cfg }

// request describes one REST call relative to the wit base URL.
type request struct {
	method      string
	path        string
	query       url.Values
	contentType string
	body        any
}

// response is a completed REST call. Transport failures never produce one.
type response struct {
	status int
	body   []byte
}

func (r *response) ok() bool { return r.status >= 200 && r.status < 300 }

func (r *response) decode(v any) error {
	if err := json.Unmarshal(r.body, v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// do sends req. The returned error is always a KindNetwork error: either
// the credential or the round trip failed, so no remote verdict exists.
func (c *Client) do(ctx context.Context, op string, req request) (*response, error) {
	start := time.Now()

	q := url.Values{}
	for k, v := range req.query {
		q[k] = v
	}
	q.Set("api-version", c.opts.APIVersion)
	target := c.baseURL + req.path + "?" + q.Encode()

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("%s: marshaling request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", op, err)
	}
	httpReq.Header.Set("Accept", contentJSON)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}

	cred, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", cred.header())

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.DebugContext(ctx, "tracker_request", "op", op, "method", req.method, "path", req.path, "error", err.Error())
		return nil, &domain.Error{Kind: domain.KindNetwork, Op: op, Message: "request failed: " + err.Error(), Err: err}
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindNetwork, Op: op, Message: "reading response: " + err.Error(), Err: err}
	}

	c.logger.DebugContext(ctx, "tracker_request",
		"op", op,
		"method", req.method,
		"path", req.path,
		"status", httpResp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &response{status: httpResp.StatusCode, body: data}, nil
}

func workItemPath(id int) string { return fmt.Sprintf("/workitems/%d", id) }

func createPath(t domain.WorkItemType) string {
	return "/workitems/" + url.PathEscape("$"+string(t))
}

// remoteMessage extracts the service's error message from a failure body.
func remoteMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// statusError classifies a non-2xx reply. 404 is always KindNotFound and
// 401/403 are KindValidation, since settings or credentials must change.
// Every other status is reported with the caller's kind.
func statusError(kind domain.Kind, op string, resp *response) error {
	msg := fmt.Sprintf("status %d", resp.status)
	switch resp.status {
	case http.StatusNotFound:
		kind = domain.KindNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = domain.KindValidation
		msg += " (not authorized; check the token or `wisync config show`)"
	}
	if m := remoteMessage(resp.body); m != "" {
		msg += ": " + m
	}
	return &domain.Error{Kind: kind, Op: op, Message: msg}
}
