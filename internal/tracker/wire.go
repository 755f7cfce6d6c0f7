package tracker

import (
	"encoding/json"
	"time"

	"github.com/alexanderramin/wisync/internal/domain"
)

// Work item field reference names.
const (
	refID            = "System.Id"
	refType          = "System.WorkItemType"
	refTitle         = "System.Title"
	refDescription   = "System.Description"
	refAssignedTo    = "System.AssignedTo"
	refAreaPath      = "System.AreaPath"
	refIterationPath = "System.IterationPath"
	refState         = "System.State"
	refTags          = "System.Tags"
	refCreatedDate   = "System.CreatedDate"
	refEffort        = "Microsoft.VSTS.Scheduling.Effort"

	relParent = "System.LinkTypes.Hierarchy-Reverse"
)

var fieldRefs = map[domain.Field]string{
	domain.FieldTitle:         refTitle,
	domain.FieldState:         refState,
	domain.FieldAssignedTo:    refAssignedTo,
	domain.FieldAreaPath:      refAreaPath,
	domain.FieldIterationPath: refIterationPath,
}

// patchOp is one JSON Patch operation.
type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

type relation struct {
	Rel        string            `json:"rel"`
	URL        string            `json:"url"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// fieldValue is one field of a create document in write order.
type fieldValue struct {
	ref   string
	value any
}

// createDocument builds the JSON Patch body for a new item. Empty string
// values are omitted; a non-empty parentURL adds the hierarchy link.
func createDocument(fields []fieldValue, parentURL string) []patchOp {
	ops := make([]patchOp, 0, len(fields)+1)
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if s, ok := f.value.(string); ok && s == "" {
			continue
		}
		ops = append(ops, patchOp{Op: "add", Path: "/fields/" + f.ref, Value: f.value})
	}
	if parentURL != "" {
		ops = append(ops, patchOp{
			Op:    "add",
			Path:  "/relations/-",
			Value: relation{Rel: relParent, URL: parentURL, Attributes: map[string]string{"comment": ""}},
		})
	}
	return ops
}

// patchDocument builds the JSON Patch body for an update in field order.
func patchDocument(changes domain.FieldChanges) []patchOp {
	ops := make([]patchOp, 0, len(changes))
	for _, f := range changes.Fields() {
		ops = append(ops, patchOp{Op: "add", Path: "/fields/" + fieldRefs[f], Value: changes[f]})
	}
	return ops
}

// workItemResponse is a work item as returned by the REST API.
type workItemResponse struct {
	ID        int                        `json:"id"`
	URL       string                     `json:"url"`
	Fields    map[string]json.RawMessage `json:"fields"`
	Relations []relation                 `json:"relations,omitempty"`
}

type workItemList struct {
	Count int                `json:"count"`
	Value []workItemResponse `json:"value"`
}

type wiqlRequest struct {
	Query string `json:"query"`
}

type wiqlResponse struct {
	WorkItems []struct {
		ID  int    `json:"id"`
		URL string `json:"url"`
	} `json:"workItems"`
}

// identity is the object form of an identity field.
type identity struct {
	DisplayName string `json:"displayName"`
	UniqueName  string `json:"uniqueName"`
}

func (w *workItemResponse) str(ref string) string {
	raw, ok := w.Fields[ref]
	if !ok {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return ""
}

// identityName reads an identity field that may be a plain string or an
// identity object; the object's uniqueName is used.
func (w *workItemResponse) identityName(ref string) string {
	raw, ok := w.Fields[ref]
	if !ok {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var id identity
	if json.Unmarshal(raw, &id) == nil {
		if id.UniqueName != "" {
			return id.UniqueName
		}
		return id.DisplayName
	}
	return ""
}

func (w *workItemResponse) date(ref string) time.Time {
	var t time.Time
	if raw, ok := w.Fields[ref]; ok {
		_ = json.Unmarshal(raw, &t)
	}
	return t
}

func (w *workItemResponse) toWorkItem() *domain.WorkItem {
	return &domain.WorkItem{
		ID:   w.ID,
		Type: domain.WorkItemType(w.str(refType)),
		URL:  w.URL,
		WorkItemFields: domain.WorkItemFields{
			Title:         w.str(refTitle),
			State:         w.str(refState),
			AssignedTo:    w.identityName(refAssignedTo),
			AreaPath:      w.str(refAreaPath),
			IterationPath: w.str(refIterationPath),
		},
	}
}

func (w *workItemResponse) toFeature(webURL string) domain.Feature {
	return domain.Feature{
		ID:            w.ID,
		Title:         w.str(refTitle),
		State:         w.str(refState),
		CreatedDate:   w.date(refCreatedDate),
		AssignedTo:    w.identityName(refAssignedTo),
		AreaPath:      w.str(refAreaPath),
		IterationPath: w.str(refIterationPath),
		Tags:          w.str(refTags),
		URL:           webURL,
	}
}
