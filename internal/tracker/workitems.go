package tracker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/alexanderramin/wisync/internal/domain"
)

// NewItem is everything needed to create one work item.
type NewItem struct {
	Type        domain.WorkItemType
	Title       string
	Description string
	Overrides   domain.Overrides
	Effort      *int
	Parent      *domain.CreatedItem
}

// CreateWorkItem creates a single item, tagging it with the ownership tag
// and linking it under Parent when set.
func (c *Client) CreateWorkItem(ctx context.Context, item NewItem) (*domain.CreatedItem, error) {
	op := "create " + item.Type.Short()

	fields := []fieldValue{
		{refTitle, item.Title},
		{refDescription, item.Description},
		{refAssignedTo, item.Overrides.AssignedTo},
		{refAreaPath, item.Overrides.AreaPath},
		{refIterationPath, item.Overrides.IterationPath},
		{refTags, c.opts.Tag},
	}
	if item.Effort != nil {
		fields = append(fields, fieldValue{refEffort, *item.Effort})
	}

	parentURL := ""
	if item.Parent != nil {
		parentURL = item.Parent.URL
	}

	resp, err := c.do(ctx, op, request{
		method:      http.MethodPost,
		path:        createPath(item.Type),
		contentType: contentJSONPatch,
		body:        createDocument(fields, parentURL),
	})
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, statusError(domain.KindCreate, op, resp)
	}

	var created workItemResponse
	if err := resp.decode(&created); err != nil {
		return nil, domain.NewError(domain.KindCreate, op, err)
	}

	out := &domain.CreatedItem{
		ID:     created.ID,
		Type:   item.Type,
		Title:  item.Title,
		URL:    created.URL,
		WebURL: c.cfg.ItemURL(created.ID),
	}
	if item.Parent != nil {
		out.ParentID = item.Parent.ID
	}
	return out, nil
}

// GetWorkItem fetches one item with its relations.
func (c *Client) GetWorkItem(ctx context.Context, id int) (*domain.WorkItem, error) {
	op := fmt.Sprintf("get work item %d", id)
	if id <= 0 {
		return nil, domain.Errorf(domain.KindValidation, op, "id must be a positive integer")
	}

	resp, err := c.do(ctx, op, request{
		method: http.MethodGet,
		path:   workItemPath(id),
		query:  url.Values{"$expand": {"relations"}},
	})
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, statusError(domain.KindNetwork, op, resp)
	}

	var wi workItemResponse
	if err := resp.decode(&wi); err != nil {
		return nil, domain.NewError(domain.KindNetwork, op, err)
	}
	return wi.toWorkItem(), nil
}

// PatchWorkItem sends only the given field changes.
func (c *Client) PatchWorkItem(ctx context.Context, id int, changes domain.FieldChanges) error {
	op := fmt.Sprintf("update work item %d", id)
	if id <= 0 {
		return domain.Errorf(domain.KindValidation, op, "id must be a positive integer")
	}
	if len(changes) == 0 {
		return domain.Errorf(domain.KindValidation, op, "no fields to update")
	}
	for f := range changes {
		if _, ok := fieldRefs[f]; !ok {
			return domain.Errorf(domain.KindValidation, op, "field %q is not editable", f)
		}
	}

	resp, err := c.do(ctx, op, request{
		method:      http.MethodPatch,
		path:        workItemPath(id),
		contentType: contentJSONPatch,
		body:        patchDocument(changes),
	})
	if err != nil {
		return err
	}
	if !resp.ok() {
		return statusError(domain.KindUpdate, op, resp)
	}
	return nil
}

// deleteWorkItem moves one item to the recycle bin.
func (c *Client) deleteWorkItem(ctx context.Context, id int) error {
	op := fmt.Sprintf("delete work item %d", id)
	resp, err := c.do(ctx, op, request{method: http.MethodDelete, path: workItemPath(id)})
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK && resp.status != http.StatusNoContent {
		return statusError(domain.KindUpdate, op, resp)
	}
	return nil
}
