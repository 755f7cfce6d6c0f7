package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/wisync/internal/domain"
)

// CreateHierarchy creates the Feature, then each PBI under it, then each
// PBI's Tasks. A Feature failure aborts with a create error and nothing
// remote. After the Feature exists, a failed PBI skips its Tasks and a
// failed Task is recorded; remaining siblings are still attempted. Any
// failure after that point returns a *domain.PartialCreateError whose
// tree is exactly what exists remotely.
//
// A non-nil epicID is fetched first and must be an Epic.
func (c *Client) CreateHierarchy(ctx context.Context, h *domain.Hierarchy, ov domain.Overrides, epicID *int) (*domain.CreateTree, error) {
	const op = "create hierarchy"

	tree := &domain.CreateTree{}
	if h == nil || h.IsEmpty() {
		return tree, domain.Errorf(domain.KindValidation, op, "hierarchy has no backlog items")
	}
	if err := h.Validate(); err != nil {
		return tree, err
	}
	ov = ov.WithDefaults(c.cfg)

	var epic *domain.CreatedItem
	if epicID != nil {
		parent, err := c.resolveParent(ctx, op, *epicID, domain.TypeFeature)
		if err != nil {
			return tree, err
		}
		epic = parent
	}

	feature, err := c.CreateWorkItem(ctx, NewItem{
		Type:        domain.TypeFeature,
		Title:       h.Feature.Title,
		Description: h.Feature.Description,
		Overrides:   ov,
		Parent:      epic,
	})
	if err != nil {
		tree.FeatureErr = reason(err)
		return tree, &domain.Error{Kind: domain.KindCreate, Op: op, Message: "feature was not created: " + tree.FeatureErr, Err: err}
	}
	tree.Feature = feature

	attempted := 1
	for _, p := range h.PBIs {
		if err := c.pause(ctx); err != nil {
			break
		}
		attempted++
		pbi, err := c.CreateWorkItem(ctx, NewItem{
			Type:        domain.TypePBI,
			Title:       p.Title,
			Description: p.Description,
			Overrides:   ov,
			Parent:      feature,
		})
		if err != nil {
			tree.FailedPBIs = append(tree.FailedPBIs, domain.FailedPBI{
				FailedItem:   domain.FailedItem{Title: p.Title, Reason: reason(err)},
				SkippedTasks: len(p.Tasks),
			})
			continue
		}

		created := domain.CreatedPBI{Item: *pbi, Tasks: []domain.CreatedItem{}}
		for _, t := range p.Tasks {
			attempted++
			task, err := c.CreateWorkItem(ctx, NewItem{
				Type:      domain.TypeTask,
				Title:     t.Title,
				Overrides: ov,
				Effort:    t.Effort,
				Parent:    pbi,
			})
			if err != nil {
				created.FailedTasks = append(created.FailedTasks, domain.FailedItem{Title: t.Title, Reason: reason(err)})
				continue
			}
			created.Tasks = append(created.Tasks, *task)
		}
		tree.PBIs = append(tree.PBIs, created)
	}

	if len(tree.PBIs)+len(tree.FailedPBIs) < len(h.PBIs) {
		// cancelled between PBIs; the rest were never attempted
		for _, p := range h.PBIs[len(tree.PBIs)+len(tree.FailedPBIs):] {
			tree.FailedPBIs = append(tree.FailedPBIs, domain.FailedPBI{
				FailedItem:   domain.FailedItem{Title: p.Title, Reason: "not attempted: " + ctx.Err().Error()},
				SkippedTasks: len(p.Tasks),
			})
		}
	}

	if tree.Complete() {
		return tree, nil
	}
	failures := tree.Failures()
	return tree, &domain.PartialCreateError{
		Tree: tree,
		Cause: domain.Errorf(domain.KindCreate, op, "%d of %d attempted items failed: %s",
			len(failures), attempted, failures[0]),
	}
}

// CreateSingle creates one item, optionally linked under a parent. The
// parent is fetched first and must be the item type's allowed parent.
// Blank values in req fall back to the configured defaults.
func (c *Client) CreateSingle(ctx context.Context, req domain.SingleItemRequest) (*domain.CreatedItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var parent *domain.CreatedItem
	if req.ParentID != nil {
		p, err := c.resolveParent(ctx, "create "+req.Type.Short(), *req.ParentID, req.Type)
		if err != nil {
			return nil, err
		}
		parent = p
	}

	ov := domain.Overrides{
		AssignedTo:    req.AssignedTo,
		AreaPath:      req.AreaPath,
		IterationPath: req.IterationPath,
	}.WithDefaults(c.cfg)

	return c.CreateWorkItem(ctx, NewItem{
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Overrides:   ov,
		Effort:      req.Effort,
		Parent:      parent,
	})
}

// resolveParent fetches id and checks it can parent an item of childType.
// A missing parent or a wrong type is a link error.
func (c *Client) resolveParent(ctx context.Context, op string, id int, childType domain.WorkItemType) (*domain.CreatedItem, error) {
	want, ok := childType.ParentType()
	if !ok {
		return nil, domain.Errorf(domain.KindLink, op, "%s items cannot have a parent", childType)
	}

	wi, err := c.GetWorkItem(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.Error{Kind: domain.KindLink, Op: op, Message: fmt.Sprintf("parent %d not found", id), Err: err}
		}
		return nil, err
	}
	if wi.Type != want {
		return nil, domain.Errorf(domain.KindLink, op, "parent %d is a %s; a %s must be linked under a %s",
			id, wi.Type, childType, want)
	}
	return &domain.CreatedItem{ID: wi.ID, Type: wi.Type, Title: wi.Title, URL: wi.URL, WebURL: c.cfg.ItemURL(wi.ID)}, nil
}

func (c *Client) pause(ctx context.Context) error {
	if c.opts.Pace <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(c.opts.Pace)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// reason is the human-readable part of a classified error.
func reason(err error) string {
	var de *domain.Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return err.Error()
}
