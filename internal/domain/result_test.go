package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeleteBatchResult_CountsDerivedFromOutcomes(t *testing.T) {
	r := NewDeleteBatchResult([]int{3, 1, 2})
	assert.Equal(t, 0, r.SucceededCount())
	assert.Equal(t, []int{1, 2, 3}, r.Failed())

	r.Outcomes[2] = true
	assert.Equal(t, []int{2}, r.Succeeded())
	assert.Equal(t, []int{1, 3}, r.Failed())
	assert.False(t, r.AllSucceeded())

	r.Outcomes[1], r.Outcomes[3] = true, true
	assert.True(t, r.AllSucceeded())
}

func TestCreateTree_CompleteAndCounts(t *testing.T) {
	tree := &CreateTree{
		Feature: &CreatedItem{ID: 1},
		PBIs: []CreatedPBI{
			{Item: CreatedItem{ID: 2}, Tasks: []CreatedItem{{ID: 3}, {ID: 4}}},
		},
	}
	assert.True(t, tree.Complete())
	assert.Equal(t, 1, tree.PBICount())
	assert.Equal(t, 2, tree.TaskCount())
	assert.Equal(t, []int{3, 4, 2, 1}, tree.CreatedIDs())

	tree.PBIs[0].FailedTasks = []FailedItem{{Title: "Deploy", Reason: "400"}}
	assert.False(t, tree.Complete())
	assert.Equal(t, []string{`task "Deploy": 400`}, tree.Failures())
}

func TestSingleItemRequest_Validate(t *testing.T) {
	effort := 2
	assert.NoError(t, SingleItemRequest{Type: TypeTask, Title: "t", Effort: &effort}.Validate())
	assert.ErrorIs(t, SingleItemRequest{Type: TypeTask}.Validate(), ErrValidation)
	assert.ErrorIs(t, SingleItemRequest{Type: TypePBI, Title: "p", Effort: &effort}.Validate(), ErrValidation)
	assert.ErrorIs(t, SingleItemRequest{Type: TypeEpic, Title: "e"}.Validate(), ErrValidation)
}

func TestError_IsMatchesKindSentinel(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Errorf(KindNotFound, "fetch work item", "work item %d not found", 7))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUpdate)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "wrapped: fetch work item: work item 7 not found", err.Error())
}

func TestKindOf_PartialCreate(t *testing.T) {
	err := &PartialCreateError{Tree: &CreateTree{Feature: &CreatedItem{ID: 9}}, Cause: errors.New("boom")}
	assert.ErrorIs(t, err, ErrCreate)
	assert.Equal(t, KindCreate, KindOf(err))
	assert.Contains(t, err.Error(), "1 items exist remotely")
}

func TestKindOf_Unclassified(t *testing.T) {
	assert.Equal(t, KindNetwork, KindOf(errors.New("dial tcp: refused")))
	assert.Equal(t, Kind(""), KindOf(nil))
}
