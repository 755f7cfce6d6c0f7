package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_IsComplete(t *testing.T) {
	c := Config{OrgURL: "https://dev.azure.com/acme", Project: "Shop", AssignedTo: "dev@acme.io"}
	assert.True(t, c.IsComplete())

	c.AssignedTo = "  "
	assert.False(t, c.IsComplete())
	assert.Equal(t, []string{"assigned_to"}, c.MissingFields())
}

func TestConfig_Validate_NamesMissingFields(t *testing.T) {
	err := Config{AreaPath: "Shop\\Web"}.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "org_url, project, assigned_to")
}

func TestConfig_ItemURL(t *testing.T) {
	c := Config{OrgURL: "https://dev.azure.com/acme/", Project: "Shop"}
	assert.Equal(t, "https://dev.azure.com/acme/Shop/_workitems/edit/42", c.ItemURL(42))
}

func TestOverrides_WithDefaults_BlankMeansUnset(t *testing.T) {
	cfg := Config{AssignedTo: "dev@acme.io", AreaPath: "Shop", IterationPath: "Shop\\S1"}
	o := Overrides{AreaPath: "Shop\\Web"}.WithDefaults(cfg)
	assert.Equal(t, Overrides{AssignedTo: "dev@acme.io", AreaPath: "Shop\\Web", IterationPath: "Shop\\S1"}, o)
}
