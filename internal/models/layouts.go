package models

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const (
	StoryMainSize = 5
	StoryBackSize = 3
	PlatoonCount  = 20
	PlatoonSize   = 5
)

// SlotLayout is the persisted slot assignment shape. Every array has a fixed
// length; empty slots hold an empty string, never null.
type SlotLayout struct {
	StoryMain []string   `json:"storyMain"`
	StoryBack []string   `json:"storyBack"`
	Platoons  [][]string `json:"platoons"`
}

// SlotLocks mirrors SlotLayout with a locked flag per slot position.
type SlotLocks struct {
	StoryMain []bool   `json:"storyMain"`
	StoryBack []bool   `json:"storyBack"`
	Platoons  [][]bool `json:"platoons"`
}

// NewSlotLayout returns an all-empty layout of the full fixed shape.
func NewSlotLayout() SlotLayout {
	layout := SlotLayout{
		StoryMain: make([]string, StoryMainSize),
		StoryBack: make([]string, StoryBackSize),
		Platoons:  make([][]string, PlatoonCount),
	}
	for i := range layout.Platoons {
		layout.Platoons[i] = make([]string, PlatoonSize)
	}
	return layout
}

// NewSlotLocks returns an all-unlocked lock set of the full fixed shape.
func NewSlotLocks() SlotLocks {
	locks := SlotLocks{
		StoryMain: make([]bool, StoryMainSize),
		StoryBack: make([]bool, StoryBackSize),
		Platoons:  make([][]bool, PlatoonCount),
	}
	for i := range locks.Platoons {
		locks.Platoons[i] = make([]bool, PlatoonSize)
	}
	return locks
}

// Normalise pads or truncates every slot array to the fixed shape, so callers
// can hand in partial layouts (e.g. from older saves or hand-edited JSON).
func (l SlotLayout) Normalise() SlotLayout {
	normalised := NewSlotLayout()
	copy(normalised.StoryMain, l.StoryMain)
	copy(normalised.StoryBack, l.StoryBack)
	for i := 0; i < PlatoonCount && i < len(l.Platoons); i++ {
		copy(normalised.Platoons[i], l.Platoons[i])
	}
	return normalised
}

// Normalise pads or truncates every lock array to the fixed shape.
func (l SlotLocks) Normalise() SlotLocks {
	normalised := NewSlotLocks()
	copy(normalised.StoryMain, l.StoryMain)
	copy(normalised.StoryBack, l.StoryBack)
	for i := 0; i < PlatoonCount && i < len(l.Platoons); i++ {
		copy(normalised.Platoons[i], l.Platoons[i])
	}
	return normalised
}

type SavedLayout struct {
	Profile   string     `json:"profile"`
	Layout    SlotLayout `json:"layout"`
	PresetKey string     `json:"preset_key"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func SaveLayout(db *sql.DB, profile string, layout SlotLayout, presetKey string) error {
	layoutJSON, err := json.Marshal(layout.Normalise())
	if err != nil {
		return fmt.Errorf("failed to marshal layout for profile %s: %w", profile, err)
	}

	query := `INSERT INTO saved_layouts (
			profile,
			layout,
			preset_key,
			updated_at
		)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (profile) DO UPDATE SET
			layout = $2,
			preset_key = $3,
			updated_at = $4;`
	_, err = db.Exec(query, profile, layoutJSON, presetKey, time.Now())
	if err != nil {
		return err
	}

	return nil
}

// GetLayoutByProfile returns the saved layout for the profile, or nil when
// nothing has been saved yet.
func GetLayoutByProfile(db *sql.DB, profile string) (*SavedLayout, error) {
	query := `
		select profile, layout, preset_key, updated_at
		from saved_layouts
		where profile = $1;`

	row := db.QueryRow(query, profile)

	saved := SavedLayout{}
	var layoutStr string
	err := row.Scan(&saved.Profile, &layoutStr, &saved.PresetKey, &saved.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(layoutStr), &saved.Layout); err != nil {
		return nil, err
	}
	saved.Layout = saved.Layout.Normalise()

	return &saved, nil
}

func PurgeLayouts(db *sql.DB) error {
	_, err := db.Exec(`DELETE FROM saved_layouts;`)
	if err != nil {
		return err
	}

	return nil
}
