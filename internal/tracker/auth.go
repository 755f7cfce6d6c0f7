package tracker

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/wisync/internal/domain"
)

// Credential is an Authorization header value.
type Credential struct {
	Scheme string // "Bearer" or "Basic"
	Value  string
}

func (c Credential) header() string { return c.Scheme + " " + c.Value }

// TokenSource supplies credentials for tracker requests.
type TokenSource interface {
	Token(ctx context.Context) (Credential, error)
}

// StaticPAT authenticates with a personal access token over Basic auth.
type StaticPAT string

func (p StaticPAT) Token(context.Context) (Credential, error) {
	if strings.TrimSpace(string(p)) == "" {
		return Credential{}, domain.Errorf(domain.KindValidation, "authenticate", "personal access token is empty")
	}
	return Credential{Scheme: "Basic", Value: base64.StdEncoding.EncodeToString([]byte(":" + string(p)))}, nil
}

// DefaultAuthHelper is looked up on PATH when no helper path is configured.
const DefaultAuthHelper = "azureauth"

const (
	authDomain  = "microsoft.com"
	authTimeout = 30 * time.Second
)

// authModes are tried in order; the first non-empty token wins.
var authModes = []string{"broker", "iwa"}

// newExecCommand creates an exec.Cmd for testability.
var newExecCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}

// AzureAuth obtains bearer tokens from the AzureAuth CLI and caches the
// first one it gets for the life of the process.
type AzureAuth struct {
	mu     sync.Mutex
	path   string
	cached string
}

// NewAzureAuth creates a helper-backed TokenSource. An empty path means
// DefaultAuthHelper on PATH.
func NewAzureAuth(path string) *AzureAuth {
	return &AzureAuth{path: strings.TrimSpace(path)}
}

// Configure points the source at a different helper binary. Changing the
// path drops the cached token.
func (a *AzureAuth) Configure(path string) {
	path = strings.TrimSpace(path)
	a.mu.Lock()
	defer a.mu.Unlock()
	if path != a.path {
		a.path = path
		a.cached = ""
	}
}

// Clear drops the cached token.
func (a *AzureAuth) Clear() {
	a.mu.Lock()
	a.cached = ""
	a.mu.Unlock()
}

func (a *AzureAuth) Token(ctx context.Context) (Credential, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cached != "" {
		return Credential{Scheme: "Bearer", Value: a.cached}, nil
	}

	path := a.path
	if path == "" {
		path = DefaultAuthHelper
	}

	var errs []error
	for _, mode := range authModes {
		token, err := a.run(ctx, path, mode)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s mode: %w", mode, err))
			continue
		}
		if token != "" {
			a.cached = token
			return Credential{Scheme: "Bearer", Value: token}, nil
		}
		errs = append(errs, fmt.Errorf("%s mode: empty token", mode))
	}

	return Credential{}, &domain.Error{
		Kind:    domain.KindValidation,
		Op:      "authenticate",
		Message: "no access token from " + path + " (set WISYNC_ADO_PAT or auth_helper_path)",
		Err:     errors.Join(errs...),
	}
}

func (a *AzureAuth) run(ctx context.Context, path, mode string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	cmd := newExecCommand(ctx, path, "ado", "token", "--mode", mode, "--domain", authDomain, "--output", "token")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
