package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_OnlyChangedFields(t *testing.T) {
	base := WorkItemFields{Title: "A", State: "New", AssignedTo: "a@x.io"}
	edited := base
	edited.State = "Active"

	assert.Equal(t, FieldChanges{FieldState: "Active"}, Diff(base, edited))
}

func TestDiff_NoChanges(t *testing.T) {
	base := WorkItemFields{Title: "A", State: "New"}
	assert.Empty(t, Diff(base, base))
}

func TestFieldChanges_FieldsInPayloadOrder(t *testing.T) {
	c := FieldChanges{FieldIterationPath: "S2", FieldTitle: "B", FieldState: "Active"}
	assert.Equal(t, []Field{FieldTitle, FieldState, FieldIterationPath}, c.Fields())
}

func TestWorkItem_Apply_PreservesUntouchedFields(t *testing.T) {
	w := WorkItem{ID: 500, Type: TypePBI, WorkItemFields: WorkItemFields{Title: "A", State: "New", AreaPath: "Shop"}}
	got := w.Apply(FieldChanges{FieldTitle: "B"})

	assert.Equal(t, 500, got.ID)
	assert.Equal(t, TypePBI, got.Type)
	assert.Equal(t, "B", got.Title)
	assert.Equal(t, "New", got.State)
	assert.Equal(t, "Shop", got.AreaPath)
	assert.Equal(t, "A", w.Title, "receiver must not be mutated")
}

func TestWorkItemFields_Set(t *testing.T) {
	var f WorkItemFields
	require.NoError(t, f.Set(FieldState, "resolved"))
	assert.Equal(t, "Resolved", f.State)

	err := f.Set(FieldState, "Done")
	assert.ErrorIs(t, err, ErrValidation)

	err = f.Set(FieldTitle, "   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseWorkItemType(t *testing.T) {
	for in, want := range map[string]WorkItemType{
		"feature": TypeFeature, "PBI": TypePBI, "Product Backlog Item": TypePBI, "task": TypeTask,
	} {
		got, err := ParseWorkItemType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseWorkItemType("bug")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestWorkItemType_ParentType(t *testing.T) {
	p, ok := TypeTask.ParentType()
	assert.True(t, ok)
	assert.Equal(t, TypePBI, p)

	_, ok = TypeEpic.ParentType()
	assert.False(t, ok)
}
