package domain

import "time"

// RunKind identifies what a creation run attempted.
type RunKind string

const (
	RunHierarchy RunKind = "hierarchy"
	RunSingle    RunKind = "single"
)

// RunStatus summarizes how a creation run ended.
type RunStatus string

const (
	RunComplete RunStatus = "complete"
	RunPartial  RunStatus = "partial"
	RunFailed   RunStatus = "failed"
)

// CreateRun is one journaled creation attempt and the remote items it left
// behind. It is a local record only and never answers remote queries.
type CreateRun struct {
	ID        string
	Kind      RunKind
	Title     string
	Status    RunStatus
	Error     string
	EpicID    *int
	CreatedAt time.Time
	ItemCount int
	Items     []JournalItem
}

// JournalItem is one remote item a run created.
type JournalItem struct {
	Seq      int
	RemoteID int
	Type     WorkItemType
	Title    string
	ParentID int
	WebURL   string
}

// RemoteIDs returns the created ids, children before parents. The order is
// for display; deleting them does not depend on it.
func (r *CreateRun) RemoteIDs() []int {
	ids := make([]int, 0, len(r.Items))
	for i := len(r.Items) - 1; i >= 0; i-- {
		ids = append(ids, r.Items[i].RemoteID)
	}
	return ids
}

// JournalItemsFromTree flattens a creation tree in creation order.
func JournalItemsFromTree(t *CreateTree) []JournalItem {
	if t == nil || t.Feature == nil {
		return nil
	}
	var items []JournalItem
	add := func(c CreatedItem) {
		items = append(items, JournalItem{
			Seq:      len(items) + 1,
			RemoteID: c.ID,
			Type:     c.Type,
			Title:    c.Title,
			ParentID: c.ParentID,
			WebURL:   c.WebURL,
		})
	}
	add(*t.Feature)
	for _, p := range t.PBIs {
		add(p.Item)
		for _, task := range p.Tasks {
			add(task)
		}
	}
	return items
}
