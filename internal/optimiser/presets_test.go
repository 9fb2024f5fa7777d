package optimiser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evertale-team-optimiser/internal/doctrine"
	"evertale-team-optimiser/internal/models"
	"evertale-team-optimiser/internal/tags"
)

func taggedTestUnit(id string, rawTags ...string) *TaggedUnit {
	set := tags.Expand(rawTags)
	return &TaggedUnit{
		Unit: models.UnitRecord{ID: id, Name: id},
		Tags: set,
	}
}

func TestPresetAffinity(t *testing.T) {
	preset := doctrine.Preset{
		Include: []string{"burn_apply", "burn_synergy"},
		Soft:    []string{"spread"},
		Exclude: []string{"burn_anti"},
	}

	tests := []struct {
		name     string
		unitTags []string
		expected float64
	}{
		{
			name:     "both includes",
			unitTags: []string{"burn_apply", "burn_synergy"},
			expected: 6,
		},
		{
			name:     "include plus soft",
			unitTags: []string{"burn_apply", "spread"},
			expected: 4,
		},
		{
			name:     "exclude only",
			unitTags: []string{"burn_anti"},
			expected: -4,
		},
		{
			name:     "mixed",
			unitTags: []string{"burn_apply", "burn_anti"},
			expected: -1,
		},
		{
			name:     "no overlap",
			unitTags: []string{"heal", "tempo"},
			expected: 0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			unit := taggedTestUnit("unit-1", test.unitTags...)
			assert.Equal(t, test.expected, PresetAffinity(unit.Tags, preset))
		})
	}
}

func TestResolvePresetExplicit(t *testing.T) {
	d := doctrine.Default()

	selection := ResolvePreset(nil, nil, d, "burn", "")

	require.True(t, selection.Active)
	assert.Equal(t, "burn", selection.Key)
	assert.Equal(t, d.Presets["burn"], selection.Preset)
}

func TestResolvePresetUnknownKeyDeactivates(t *testing.T) {
	d := doctrine.Default()

	selection := ResolvePreset(nil, nil, d, "does-not-exist", "auto")

	assert.False(t, selection.Active)
	assert.Equal(t, "", selection.Key)
}

func TestResolvePresetOffByDefault(t *testing.T) {
	d := doctrine.Default()
	pool := []*TaggedUnit{taggedTestUnit("unit-1", "burn_apply")}

	selection := ResolvePreset(pool, nil, d, "", "")

	assert.False(t, selection.Active)
}

func TestResolvePresetAutoPicksDominantMechanic(t *testing.T) {
	d := doctrine.Default()
	pool := []*TaggedUnit{
		taggedTestUnit("unit-1", "burn_apply"),
		taggedTestUnit("unit-2", "burn_apply"),
		taggedTestUnit("unit-3", "burn_synergy"),
		taggedTestUnit("unit-4", "poison_apply"),
		taggedTestUnit("unit-5", "heal"),
	}

	selection := ResolvePreset(pool, nil, d, "", "auto")

	require.True(t, selection.Active)
	assert.Equal(t, "burn", selection.Key)
}

func TestResolvePresetAutoNoStrongMatches(t *testing.T) {
	d := doctrine.Default()
	pool := []*TaggedUnit{
		taggedTestUnit("unit-1"),
		taggedTestUnit("unit-2"),
	}

	selection := ResolvePreset(pool, nil, d, "", "auto")

	assert.False(t, selection.Active)
	assert.Equal(t, "", selection.Key)
}

func TestResolvePresetAutoForcedUnitsBias(t *testing.T) {
	d := doctrine.Default()
	// two plans tie on the pool alone
	pool := []*TaggedUnit{
		taggedTestUnit("unit-1", "burn_apply"),
		taggedTestUnit("unit-2", "poison_apply"),
	}
	forced := []*TaggedUnit{taggedTestUnit("leader", "poison_synergy")}

	selection := ResolvePreset(pool, forced, d, "", "auto")

	require.True(t, selection.Active)
	assert.Equal(t, "poison", selection.Key)
}

func TestResolvePresetAutoTieBreaksOnKey(t *testing.T) {
	d := doctrine.Default()
	pool := []*TaggedUnit{
		taggedTestUnit("unit-1", "burn_apply"),
		taggedTestUnit("unit-2", "poison_apply"),
	}

	selection := ResolvePreset(pool, nil, d, "", "auto")

	require.True(t, selection.Active)
	assert.Equal(t, "burn", selection.Key)
}
