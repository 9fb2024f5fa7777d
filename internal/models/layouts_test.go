package models_test

import (
	"encoding/json"
	"evertale-team-optimiser/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlotLayoutShape(t *testing.T) {
	layout := models.NewSlotLayout()

	assert.Len(t, layout.StoryMain, models.StoryMainSize)
	assert.Len(t, layout.StoryBack, models.StoryBackSize)
	assert.Len(t, layout.Platoons, models.PlatoonCount)
	for _, platoon := range layout.Platoons {
		assert.Len(t, platoon, models.PlatoonSize)
	}
}

func TestSlotLayoutNormalisePadsPartialLayouts(t *testing.T) {
	partial := models.SlotLayout{
		StoryMain: []string{"unit-a", "unit-b"},
		Platoons:  [][]string{{"unit-c"}},
	}

	normalised := partial.Normalise()

	assert.Len(t, normalised.StoryMain, models.StoryMainSize)
	assert.Equal(t, "unit-a", normalised.StoryMain[0])
	assert.Equal(t, "unit-b", normalised.StoryMain[1])
	assert.Equal(t, "", normalised.StoryMain[2])
	assert.Len(t, normalised.StoryBack, models.StoryBackSize)
	assert.Len(t, normalised.Platoons, models.PlatoonCount)
	assert.Equal(t, "unit-c", normalised.Platoons[0][0])
	assert.Len(t, normalised.Platoons[19], models.PlatoonSize)
}

func TestSlotLayoutNormaliseTruncatesOversizedArrays(t *testing.T) {
	oversized := models.SlotLayout{
		StoryMain: []string{"a", "b", "c", "d", "e", "f", "g"},
	}

	normalised := oversized.Normalise()

	assert.Len(t, normalised.StoryMain, models.StoryMainSize)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, normalised.StoryMain)
}

func TestSlotLocksNormalise(t *testing.T) {
	partial := models.SlotLocks{
		StoryMain: []bool{true},
		Platoons:  [][]bool{{false, true}},
	}

	normalised := partial.Normalise()

	assert.Len(t, normalised.StoryMain, models.StoryMainSize)
	assert.True(t, normalised.StoryMain[0])
	assert.False(t, normalised.StoryMain[1])
	assert.Len(t, normalised.Platoons, models.PlatoonCount)
	assert.True(t, normalised.Platoons[0][1])
	assert.Len(t, normalised.Platoons[5], models.PlatoonSize)
}

func TestSlotLayoutJSONRoundTrip(t *testing.T) {
	layout := models.NewSlotLayout()
	layout.StoryMain[0] = "unit-a"
	layout.StoryBack[2] = "unit-b"
	layout.Platoons[7][4] = "unit-c"

	data, err := json.Marshal(layout)
	require.NoError(t, err)

	// Empty slots serialise as empty strings, never null.
	assert.NotContains(t, string(data), "null")

	decoded := models.SlotLayout{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, layout, decoded)
}

func TestSaveAndGetLayout(t *testing.T) {
	conn := connect(t)

	profile := "mock_layout_profile"
	layout := models.NewSlotLayout()
	layout.StoryMain[0] = "unit-a"
	layout.Platoons[3][1] = "unit-b"

	err := models.SaveLayout(conn, profile, layout, "burn")
	require.NoError(t, err)

	saved, err := models.GetLayoutByProfile(conn, profile)
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, profile, saved.Profile)
	assert.Equal(t, "burn", saved.PresetKey)
	assert.Equal(t, layout, saved.Layout)
	assert.False(t, saved.UpdatedAt.IsZero())

	// Saving again replaces the stored layout for the profile.
	layout.StoryMain[0] = "unit-z"
	err = models.SaveLayout(conn, profile, layout, "poison")
	require.NoError(t, err)

	saved, err = models.GetLayoutByProfile(conn, profile)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "poison", saved.PresetKey)
	assert.Equal(t, "unit-z", saved.Layout.StoryMain[0])
}

func TestGetLayoutByProfileReturnsNilWhenUnsaved(t *testing.T) {
	conn := connect(t)

	saved, err := models.GetLayoutByProfile(conn, "profile_that_never_saved")
	require.NoError(t, err)
	assert.Nil(t, saved)
}
