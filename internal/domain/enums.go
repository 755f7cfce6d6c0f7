package domain

import "strings"

// WorkItemType is the remote type tag of a work item.
type WorkItemType string

const (
	TypeEpic    WorkItemType = "Epic"
	TypeFeature WorkItemType = "Feature"
	TypePBI     WorkItemType = "Product Backlog Item"
	TypeTask    WorkItemType = "Task"
)

// CreatableTypes are the types this tool creates. Epics are only ever linked to.
var CreatableTypes = []WorkItemType{TypeFeature, TypePBI, TypeTask}

// ParseWorkItemType accepts the remote type name or a short alias
// ("feature", "pbi", "task"), case-insensitively.
func ParseWorkItemType(s string) (WorkItemType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "feature":
		return TypeFeature, nil
	case "pbi", "product backlog item", "backlog item":
		return TypePBI, nil
	case "task":
		return TypeTask, nil
	case "epic":
		return TypeEpic, nil
	}
	return "", Errorf(KindValidation, "parse work item type", "unknown work item type %q (want feature, pbi or task)", s)
}

// ParentType returns the type a parent of t must have. Epics have no parent.
func (t WorkItemType) ParentType() (WorkItemType, bool) {
	switch t {
	case TypeFeature:
		return TypeEpic, true
	case TypePBI:
		return TypeFeature, true
	case TypeTask:
		return TypePBI, true
	}
	return "", false
}

// Short returns the abbreviated label used in listings.
func (t WorkItemType) Short() string {
	if t == TypePBI {
		return "PBI"
	}
	return string(t)
}

// State is a work item state from the fixed vocabulary. Transition legality
// is decided by the remote service, not here.
type State string

const (
	StateNew      State = "New"
	StateActive   State = "Active"
	StateResolved State = "Resolved"
	StateClosed   State = "Closed"
	StateRemoved  State = "Removed"
)

// States is the fixed state vocabulary in display order.
var States = []State{StateNew, StateActive, StateResolved, StateClosed, StateRemoved}

// ParseState matches s against the state vocabulary, case-insensitively.
func ParseState(s string) (State, error) {
	for _, st := range States {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", Errorf(KindValidation, "parse state", "unknown state %q (want one of %s)", s, joinStates())
}

func joinStates() string {
	names := make([]string, len(States))
	for i, st := range States {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}
