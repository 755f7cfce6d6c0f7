package domain

import (
	"strings"
	"time"
)

// Field names an editable work item field.
type Field string

const (
	FieldTitle         Field = "title"
	FieldState         Field = "state"
	FieldAssignedTo    Field = "assigned_to"
	FieldAreaPath      Field = "area_path"
	FieldIterationPath Field = "iteration_path"
)

// EditableFields is the diffable field set, in payload order.
var EditableFields = []Field{FieldTitle, FieldState, FieldAssignedTo, FieldAreaPath, FieldIterationPath}

// WorkItemFields are the editable values of a work item.
type WorkItemFields struct {
	Title         string `json:"title"`
	State         string `json:"state"`
	AssignedTo    string `json:"assigned_to"`
	AreaPath      string `json:"area_path"`
	IterationPath string `json:"iteration_path"`
}

// Get returns the value of field f.
func (w WorkItemFields) Get(f Field) string {
	switch f {
	case FieldTitle:
		return w.Title
	case FieldState:
		return w.State
	case FieldAssignedTo:
		return w.AssignedTo
	case FieldAreaPath:
		return w.AreaPath
	case FieldIterationPath:
		return w.IterationPath
	}
	return ""
}

// Set assigns v to field f. State values must be in the state vocabulary
// and titles must not be blank.
func (w *WorkItemFields) Set(f Field, v string) error {
	switch f {
	case FieldTitle:
		if strings.TrimSpace(v) == "" {
			return Errorf(KindValidation, "edit work item", "title must not be empty")
		}
		w.Title = v
	case FieldState:
		st, err := ParseState(v)
		if err != nil {
			return err
		}
		w.State = string(st)
	case FieldAssignedTo:
		w.AssignedTo = v
	case FieldAreaPath:
		w.AreaPath = v
	case FieldIterationPath:
		w.IterationPath = v
	default:
		return Errorf(KindValidation, "edit work item", "unknown field %q", f)
	}
	return nil
}

// WorkItem is a single remote entity snapshot.
type WorkItem struct {
	ID   int          `json:"id"`
	Type WorkItemType `json:"type"`
	URL  string       `json:"url"`
	WorkItemFields
}

// FieldChanges maps each changed field to its new value.
type FieldChanges map[Field]string

// Fields returns the changed fields in EditableFields order.
func (c FieldChanges) Fields() []Field {
	out := make([]Field, 0, len(c))
	for _, f := range EditableFields {
		if _, ok := c[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Diff returns the fields whose edited value differs from base.
func Diff(base, edited WorkItemFields) FieldChanges {
	changes := FieldChanges{}
	for _, f := range EditableFields {
		if v := edited.Get(f); v != base.Get(f) {
			changes[f] = v
		}
	}
	return changes
}

// Apply returns a copy of w with changes merged over it. Fields absent
// from changes keep their current value.
func (w WorkItem) Apply(changes FieldChanges) WorkItem {
	for f, v := range changes {
		switch f {
		case FieldTitle:
			w.Title = v
		case FieldState:
			w.State = v
		case FieldAssignedTo:
			w.AssignedTo = v
		case FieldAreaPath:
			w.AreaPath = v
		case FieldIterationPath:
			w.IterationPath = v
		}
	}
	return w
}

// Feature is a read-only listing entry of a Feature owned by this tool.
type Feature struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	State         string    `json:"state"`
	CreatedDate   time.Time `json:"created_date"`
	AssignedTo    string    `json:"assigned_to"`
	AreaPath      string    `json:"area_path"`
	IterationPath string    `json:"iteration_path"`
	Tags          string    `json:"tags"`
	URL           string    `json:"url"`
}
