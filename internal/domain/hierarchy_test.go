package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func validHierarchy() *Hierarchy {
	return &Hierarchy{
		Feature: PlanFeature{Title: "Checkout revamp", Description: "Rebuild checkout"},
		PBIs: []PlanPBI{
			{Title: "Cart API", Tasks: []PlanTask{{Title: "Schema", Effort: intPtr(2)}, {Title: "Handlers"}}},
			{Title: "Payment form", Tasks: []PlanTask{{Title: "Layout", Effort: intPtr(1)}}},
		},
	}
}

func TestHierarchy_IsEmpty(t *testing.T) {
	var nilH *Hierarchy
	assert.True(t, nilH.IsEmpty())
	assert.True(t, (&Hierarchy{Feature: PlanFeature{Title: "x"}}).IsEmpty())
	assert.False(t, validHierarchy().IsEmpty())
}

func TestHierarchy_TaskCount(t *testing.T) {
	assert.Equal(t, 3, validHierarchy().TaskCount())
	assert.Equal(t, 0, (&Hierarchy{}).TaskCount())
}

func TestHierarchy_Validate_Valid(t *testing.T) {
	require.NoError(t, validHierarchy().Validate())
}

func TestHierarchy_Validate_EmptyPlanIsValid(t *testing.T) {
	h := &Hierarchy{Feature: PlanFeature{Title: "Only a feature"}}
	require.NoError(t, h.Validate())
}

func TestHierarchy_Validate_ReportsEveryProblem(t *testing.T) {
	h := validHierarchy()
	h.Feature.Title = " "
	h.PBIs[0].Tasks[0].Effort = intPtr(0)
	h.PBIs[1].Title = ""

	err := h.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "feature.title is required")
	assert.Contains(t, err.Error(), "pbis[0].tasks[0]: effort must be a positive")
	assert.Contains(t, err.Error(), "pbis[1].title is required")
}

func TestPlanTask_ValidateEffort(t *testing.T) {
	cases := []struct {
		effort *int
		ok     bool
	}{
		{nil, true},
		{intPtr(1), true},
		{intPtr(10), true},
		{intPtr(0), false},
		{intPtr(-3), false},
	}
	for _, tc := range cases {
		err := PlanTask{Title: "t", Effort: tc.effort}.ValidateEffort()
		if tc.ok {
			assert.NoError(t, err)
		} else {
			assert.Error(t, err)
		}
	}
}
