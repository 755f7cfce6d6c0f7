package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/alexanderramin/wisync/internal/domain"
	"github.com/alexanderramin/wisync/internal/service"
	"github.com/alexanderramin/wisync/internal/tracker"
)

// authConfigurer is implemented by token sources whose behaviour depends on
// the persisted auth helper path.
type authConfigurer interface {
	Configure(path string)
}

// Remote implements Gateway over a plan parser, the Azure DevOps tracker
// and the local settings and history services. Config is re-read on every
// call and a fresh tracker client is built from it.
type Remote struct {
	parser   Parser
	settings service.SettingsService
	history  service.HistoryService
	tokens   tracker.TokenSource
	opts     tracker.Options
	logger   *slog.Logger
}

// Deps are the collaborators of a Remote. History is optional.
type Deps struct {
	Parser   Parser
	Settings service.SettingsService
	History  service.HistoryService
	Tokens   tracker.TokenSource
	Options  tracker.Options
	Logger   *slog.Logger
}

func NewRemote(d Deps) *Remote {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Remote{
		parser:   d.Parser,
		settings: d.Settings,
		history:  d.History,
		tokens:   d.Tokens,
		opts:     d.Options,
		logger:   logger,
	}
}

// WithParser returns a copy of r that parses with p.
func (r *Remote) WithParser(p Parser) *Remote {
	cp := *r
	cp.parser = p
	return &cp
}

var _ Gateway = (*Remote)(nil)

func (r *Remote) Parse(ctx context.Context, text string) (*domain.Hierarchy, error) {
	const op = "parse plan"
	if r.parser == nil {
		return nil, domain.Errorf(domain.KindParse, op, "no parser is configured")
	}
	h, err := r.parser.Parse(ctx, text)
	if err != nil {
		if domain.KindOf(err) != domain.KindParse {
			return nil, domain.NewError(domain.KindParse, op, err)
		}
		return nil, err
	}
	if h == nil {
		return nil, domain.Errorf(domain.KindParse, op, "parser returned no plan")
	}
	return h, nil
}

func (r *Remote) CreateHierarchy(ctx context.Context, h *domain.Hierarchy, ov domain.Overrides, epicID *int) (*domain.CreateResult, error) {
	c, err := r.client(ctx, "create hierarchy")
	if err != nil {
		return nil, err
	}

	tree, err := c.CreateHierarchy(ctx, h, ov, epicID)
	if tree != nil && (tree.Feature != nil || tree.FeatureErr != "") {
		title := ""
		if h != nil {
			title = h.Feature.Title
		}
		r.record(ctx, func(ctx context.Context) error {
			_, rerr := r.history.RecordHierarchy(ctx, title, epicID, tree, err)
			return rerr
		})
	}
	if err != nil {
		return nil, err
	}
	return &domain.CreateResult{
		FeatureID:  tree.Feature.ID,
		FeatureURL: tree.Feature.WebURL,
		PBICount:   tree.PBICount(),
		TaskCount:  tree.TaskCount(),
	}, nil
}

func (r *Remote) CreateSingle(ctx context.Context, req domain.SingleItemRequest) (*domain.CreatedItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	c, err := r.client(ctx, "create "+req.Type.Short())
	if err != nil {
		return nil, err
	}

	item, err := c.CreateSingle(ctx, req)
	r.record(ctx, func(ctx context.Context) error {
		_, rerr := r.history.RecordSingle(ctx, req, item, err)
		return rerr
	})
	return item, err
}

func (r *Remote) FetchWorkItem(ctx context.Context, id int) (*domain.WorkItem, error) {
	if id <= 0 {
		return nil, domain.Errorf(domain.KindValidation, "get work item", "work item id must be a positive integer, got %d", id)
	}
	c, err := r.client(ctx, "get work item")
	if err != nil {
		return nil, err
	}
	return c.GetWorkItem(ctx, id)
}

func (r *Remote) PatchWorkItem(ctx context.Context, id int, changes domain.FieldChanges) error {
	if len(changes) == 0 {
		return domain.Errorf(domain.KindValidation, "update work item", "no fields changed")
	}
	c, err := r.client(ctx, "update work item")
	if err != nil {
		return err
	}
	return c.PatchWorkItem(ctx, id, changes)
}

func (r *Remote) DeleteWorkItems(ctx context.Context, ids []int) domain.DeleteBatchResult {
	c, err := r.client(ctx, "delete work items")
	if err != nil {
		r.logger.WarnContext(ctx, "delete batch not dispatched", "ids", len(ids), "error", err.Error())
		return domain.NewDeleteBatchResult(ids)
	}

	result := c.DeleteWorkItems(ctx, ids)
	if deleted := result.Succeeded(); len(deleted) > 0 {
		r.record(ctx, func(ctx context.Context) error {
			_, ferr := r.history.Forget(ctx, deleted)
			return ferr
		})
	}
	return result
}

func (r *Remote) ListFeatures(ctx context.Context) ([]domain.Feature, error) {
	c, err := r.client(ctx, "list features")
	if err != nil {
		return nil, err
	}
	return c.ListFeatures(ctx)
}

func (r *Remote) GetConfig(ctx context.Context) (domain.Config, error) {
	return r.settings.Get(ctx)
}

func (r *Remote) SaveConfig(ctx context.Context, cfg domain.Config) error {
	_, err := r.settings.Save(ctx, cfg)
	return err
}

// client reads the current Config and builds a tracker client for one call.
func (r *Remote) client(ctx context.Context, op string) (*tracker.Client, error) {
	cfg, err := r.settings.Get(ctx)
	if err != nil {
		return nil, domain.NewError(domain.KindValidation, op, err)
	}
	if missing := cfg.MissingFields(); len(missing) > 0 {
		return nil, domain.Errorf(domain.KindValidation, op,
			"tracker not configured: missing %s (run `wisync config set`)", strings.Join(missing, ", "))
	}
	if ac, ok := r.tokens.(authConfigurer); ok {
		ac.Configure(cfg.AuthHelperPath)
	}
	return tracker.New(cfg, r.tokens, r.opts)
}

// record writes to the local journal. Journal failures never change the
// outcome of the remote call.
func (r *Remote) record(ctx context.Context, fn func(ctx context.Context) error) {
	if r.history == nil {
		return
	}
	// the remote call already happened; keep the journal write even if the
	// caller has gone away
	ctx = context.WithoutCancel(ctx)
	if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
		r.logger.WarnContext(ctx, "journal write failed", "error", err.Error())
	}
}
