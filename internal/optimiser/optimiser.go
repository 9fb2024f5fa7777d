// Package optimiser turns an owned-unit pool into a full slot layout: one
// story team of 8 and twenty platoons of 5, filled in that priority order
// from a single shared pool. The search is heuristic and deterministic; the
// same pool, locks and doctrine always produce the same layout.
package optimiser

import (
	"sort"

	"github.com/rs/zerolog/log"

	"evertale-team-optimiser/internal/doctrine"
	"evertale-team-optimiser/internal/models"
	"evertale-team-optimiser/internal/tags"
)

// TaggedUnit is a catalog unit enriched with its expanded tag set, resolved
// element and context-free base score. All allocation works on these.
type TaggedUnit struct {
	Unit      models.UnitRecord
	Tags      tags.Set
	Element   string
	BaseScore float64
}

// Options select the strategy for one optimisation run. The zero value runs
// stat-and-synergy scoring over an empty layout with nothing locked.
type Options struct {
	PresetTag         string                 `json:"preset_tag"`
	PresetMode        string                 `json:"preset_mode"`
	DoctrineOverrides map[string]interface{} `json:"doctrine_overrides"`
	CurrentLayout     models.SlotLayout      `json:"current_layout"`
	SlotLocks         models.SlotLocks       `json:"slot_locks"`
}

type StoryResult struct {
	Main []string `json:"main"`
	Back []string `json:"back"`
}

type PlatoonResult struct {
	Units []string `json:"units"`
}

type Result struct {
	Story     StoryResult     `json:"story"`
	Platoons  []PlatoonResult `json:"platoons"`
	PresetKey string          `json:"presetKey"`
}

// Layout flattens a result back into the persistence shape.
func (r Result) Layout() models.SlotLayout {
	layout := models.NewSlotLayout()
	copy(layout.StoryMain, r.Story.Main)
	copy(layout.StoryBack, r.Story.Back)
	for i := range layout.Platoons {
		if i < len(r.Platoons) {
			copy(layout.Platoons[i], r.Platoons[i].Units)
		}
	}
	return layout
}

// Optimise builds the best layout for the given pool. It never fails: bad
// overrides fall back to defaults, unknown presets deactivate, unknown
// locked ids become zero-stat placeholders, and a drained pool leaves slots
// empty.
func Optimise(units []models.UnitRecord, opts Options) Result {
	d := doctrine.Default().Merge(opts.DoctrineOverrides)
	layout := opts.CurrentLayout.Normalise()
	locks := opts.SlotLocks.Normalise()

	pool := tagUnits(units)

	storyForcedIDs := lockedIDs(layout.StoryMain, locks.StoryMain)
	storyForcedIDs = append(storyForcedIDs, lockedIDs(layout.StoryBack, locks.StoryBack)...)

	platoonForcedIDs := make([][]string, models.PlatoonCount)
	for i := range platoonForcedIDs {
		platoonForcedIDs[i] = lockedIDs(layout.Platoons[i], locks.Platoons[i])
	}

	byID := make(map[string]*TaggedUnit, len(pool))
	for _, unit := range pool {
		byID[unit.Unit.ID] = unit
	}

	allForced := resolveForced(byID, storyForcedIDs, platoonForcedIDs)
	preset := ResolvePreset(pool, allForced, d, opts.PresetTag, opts.PresetMode)

	for _, unit := range pool {
		unit.BaseScore = ScoreUnit(unit.Unit, unit.Tags, d, preset)
	}

	alloc := newAllocator(pool, d, preset)
	alloc.reserve(storyForcedIDs)
	for _, ids := range platoonForcedIDs {
		alloc.reserve(ids)
	}

	storySize := models.StoryMainSize + models.StoryBackSize
	storyTeam := alloc.fillTeam(forcedUnits(byID, storyForcedIDs), storySize)
	main, back := splitStoryRoles(storyTeam, layout, locks)

	platoons := make([]PlatoonResult, models.PlatoonCount)
	for i := 0; i < models.PlatoonCount; i++ {
		team := alloc.fillTeam(forcedUnits(byID, platoonForcedIDs[i]), models.PlatoonSize)
		platoons[i] = PlatoonResult{Units: fillPlatoonSlots(team, layout.Platoons[i], locks.Platoons[i])}
	}

	log.Debug().Msgf("Optimised layout for %d units (preset: %s)", len(pool), preset.Key)

	return Result{
		Story:     StoryResult{Main: main, Back: back},
		Platoons:  platoons,
		PresetKey: preset.Key,
	}
}

// tagUnits expands every unit's raw tags through the synonym table, resolves
// its element and drops duplicates and id-less records. The pool comes back
// in id order so no later step depends on how the caller ordered the slice.
func tagUnits(units []models.UnitRecord) []*TaggedUnit {
	pool := make([]*TaggedUnit, 0, len(units))
	seen := make(map[string]bool, len(units))
	for _, unit := range units {
		if unit.ID == "" || seen[unit.ID] {
			continue
		}
		seen[unit.ID] = true

		set := tags.Expand(unit.Tags)
		pool = append(pool, &TaggedUnit{
			Unit:    unit,
			Tags:    set,
			Element: resolveElement(unit, set),
		})
	}

	sort.Slice(pool, func(i, j int) bool {
		return pool[i].Unit.ID < pool[j].Unit.ID
	})
	return pool
}

func resolveElement(unit models.UnitRecord, set tags.Set) string {
	if unit.Element != "" {
		return tags.Canonicalize(unit.Element)
	}
	return tags.ElementOf(set)
}

func lockedIDs(slots []string, locks []bool) []string {
	ids := make([]string, 0, len(slots))
	for i := range slots {
		if locks[i] && slots[i] != "" {
			ids = append(ids, slots[i])
		}
	}
	return ids
}

// forcedUnits resolves locked ids against the pool. An id the pool does not
// know becomes a zero-stat placeholder so the lock is still honoured.
func forcedUnits(byID map[string]*TaggedUnit, ids []string) []*TaggedUnit {
	forced := make([]*TaggedUnit, 0, len(ids))
	for _, id := range ids {
		if unit, ok := byID[id]; ok {
			forced = append(forced, unit)
			continue
		}
		log.Debug().Msgf("Locked unit %s is not in the pool, keeping the slot with a placeholder", id)
		forced = append(forced, &TaggedUnit{
			Unit: models.UnitRecord{ID: id, Name: id},
			Tags: tags.Set{},
		})
	}
	return forced
}

func resolveForced(byID map[string]*TaggedUnit, storyIDs []string, platoonIDs [][]string) []*TaggedUnit {
	all := make([]string, 0, len(storyIDs))
	all = append(all, storyIDs...)
	for _, ids := range platoonIDs {
		all = append(all, ids...)
	}
	return forcedUnits(byID, all)
}
