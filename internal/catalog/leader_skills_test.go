package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evertale-team-optimiser/internal/models"
)

func TestMergeLeaderSkillsArrayShape(t *testing.T) {
	units := []models.UnitRecord{
		{ID: "rizette", Tags: []string{"heal"}},
		{ID: "zeke"},
	}
	raw := []byte(`[
		{"unit_id": "rizette", "description": "All allies gain regeneration.", "tags": ["Regen"]},
		{"unit_id": "unknown", "description": "Nobody owns this."}
	]`)

	merged := MergeLeaderSkills(units, raw)

	require.Len(t, merged, 2)
	assert.Equal(t, "All allies gain regeneration.", merged[0].LeaderSkill)
	assert.Equal(t, []string{"heal", "regen"}, merged[0].Tags)
	assert.Equal(t, "", merged[1].LeaderSkill)
}

func TestMergeLeaderSkillsObjectShape(t *testing.T) {
	units := []models.UnitRecord{{ID: "zeke"}}
	raw := []byte(`{"leader_skills": {"zeke": {"text": "Fire units gain ATK.", "tags": ["atk_buff"]}}}`)

	merged := MergeLeaderSkills(units, raw)

	require.Len(t, merged, 1)
	assert.Equal(t, "Fire units gain ATK.", merged[0].LeaderSkill)
	assert.Equal(t, []string{"atk_buff"}, merged[0].Tags)
}

func TestMergeLeaderSkillsDeduplicatesTags(t *testing.T) {
	units := []models.UnitRecord{{ID: "a", Tags: []string{"heal", "tempo"}}}
	raw := []byte(`[{"id": "a", "name": "Chrono Ward", "tags": ["Tempo", "barrier"]}]`)

	merged := MergeLeaderSkills(units, raw)

	require.Len(t, merged, 1)
	assert.Equal(t, []string{"heal", "tempo", "barrier"}, merged[0].Tags)
	assert.Equal(t, "Chrono Ward", merged[0].LeaderSkill)
}

func TestMergeLeaderSkillsEmptyDocument(t *testing.T) {
	units := []models.UnitRecord{{ID: "a", Tags: []string{"heal"}}}

	assert.Equal(t, units, MergeLeaderSkills(units, nil))
	assert.Equal(t, units, MergeLeaderSkills(units, []byte(`[]`)))
	assert.Equal(t, units, MergeLeaderSkills(units, []byte(`garbage`)))
}
