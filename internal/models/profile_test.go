package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSkills(t *testing.T) {
	assert.Equal(t, []string{"go", "rust"}, ParseSkills(" go ,rust"))
	assert.Equal(t, []string{"go"}, ParseSkills("go,,  ,"))
	assert.Empty(t, ParseSkills(""))
	assert.NotNil(t, ParseSkills(""))
}

func TestProfileFieldsUpdatesOnlySupplied(t *testing.T) {
	f := ProfileFields{
		Status:   " Developer ",
		Skills:   "go",
		Linkedin: "https://linkedin.com/in/alice",
		Bio:      "   ",
	}

	updates := f.Updates()
	assert.Equal(t, map[string]interface{}{
		"status":          "Developer",
		"skills":          []string{"go"},
		"social.linkedin": "https://linkedin.com/in/alice",
	}, updates)
}

func TestProfileFieldsMerge(t *testing.T) {
	p := &Profile{
		Status:  "Junior",
		Company: "Acme",
		Skills:  []string{"go", "rust"},
		Social:  &Social{Twitter: "https://twitter.com/alice"},
	}

	f := ProfileFields{Status: "Senior", Youtube: "https://youtube.com/alice"}
	f.Merge(p)

	assert.Equal(t, "Senior", p.Status)
	assert.Equal(t, "Acme", p.Company)
	assert.Equal(t, []string{"go", "rust"}, p.Skills)
	assert.Equal(t, "https://twitter.com/alice", p.Social.Twitter)
	assert.Equal(t, "https://youtube.com/alice", p.Social.Youtube)
}

func TestProfileFieldsValidate(t *testing.T) {
	assert.Empty(t, (&ProfileFields{Status: "Dev"}).Validate())
	assert.Equal(t, "Status is required", (&ProfileFields{Status: "  "}).Validate()["status"])

	errs := (&ProfileFields{Status: "Dev", Skills: " , "}).ValidateCreate()
	assert.Equal(t, "Skills are required", errs["skills"])
	assert.Empty(t, (&ProfileFields{Status: "Dev", Skills: "go"}).ValidateCreate())
}

func TestProfileFieldsMergeLeavesSocialUnsetWhenNoLinks(t *testing.T) {
	p := &Profile{}
	(&ProfileFields{Status: "Dev", Skills: "go"}).Merge(p)
	assert.Nil(t, p.Social)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"social"`)

	(&ProfileFields{Status: "Dev", Facebook: "fb"}).Merge(p)
	require.NotNil(t, p.Social)
	assert.Equal(t, "fb", p.Social.Facebook)
}

func TestProfileClone(t *testing.T) {
	p := &Profile{Skills: []string{"go"}, Social: &Social{Twitter: "t"}}
	c := p.Clone()
	c.Skills[0] = "rust"
	c.Social.Twitter = "changed"

	assert.Equal(t, []string{"go"}, p.Skills)
	assert.Equal(t, "t", p.Social.Twitter)
}
