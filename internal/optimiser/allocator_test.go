package optimiser

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evertale-team-optimiser/internal/doctrine"
	"evertale-team-optimiser/internal/models"
)

func scoredPool(d doctrine.Doctrine, preset PresetSelection, units ...*TaggedUnit) []*TaggedUnit {
	for _, unit := range units {
		unit.BaseScore = ScoreUnit(unit.Unit, unit.Tags, d, preset)
	}
	return units
}

func teamIDs(team []*TaggedUnit) []string {
	ids := make([]string, len(team))
	for i, member := range team {
		ids[i] = member.Unit.ID
	}
	return ids
}

func TestNewAllocatorOrdersPool(t *testing.T) {
	d := doctrine.Default()

	weak := taggedUnitWithStats("weak", "fire", 500)
	strong := taggedUnitWithStats("strong", "fire", 3000)
	middle := taggedUnitWithStats("middle", "fire", 1500)
	pool := scoredPool(d, PresetSelection{}, weak, strong, middle)

	alloc := newAllocator(pool, d, PresetSelection{})

	assert.Equal(t, []string{"strong", "middle", "weak"}, teamIDs(alloc.pool))
}

func TestNewAllocatorTieBreaksOnID(t *testing.T) {
	d := doctrine.Default()

	b := taggedUnitWithStats("unit-b", "fire", 1000)
	a := taggedUnitWithStats("unit-a", "fire", 1000)
	pool := scoredPool(d, PresetSelection{}, b, a)

	alloc := newAllocator(pool, d, PresetSelection{})

	assert.Equal(t, []string{"unit-a", "unit-b"}, teamIDs(alloc.pool))
}

func TestFillTeamStopsAtTargetSize(t *testing.T) {
	d := doctrine.Default()

	pool := make([]*TaggedUnit, 0, 10)
	for i := 0; i < 10; i++ {
		pool = append(pool, taggedUnitWithStats(fmt.Sprintf("unit-%02d", i), "fire", 1000+float64(i)))
	}
	scoredPool(d, PresetSelection{}, pool...)

	alloc := newAllocator(pool, d, PresetSelection{})
	team := alloc.fillTeam(nil, 5)

	assert.Len(t, team, 5)
}

func TestFillTeamDrainedPoolReturnsShortTeam(t *testing.T) {
	d := doctrine.Default()

	pool := scoredPool(d, PresetSelection{},
		taggedUnitWithStats("unit-a", "fire", 1000),
		taggedUnitWithStats("unit-b", "fire", 900),
	)

	alloc := newAllocator(pool, d, PresetSelection{})
	team := alloc.fillTeam(nil, 5)

	assert.Len(t, team, 2)
}

func TestFillTeamConsumesUnits(t *testing.T) {
	d := doctrine.Default()

	pool := make([]*TaggedUnit, 0, 8)
	for i := 0; i < 8; i++ {
		pool = append(pool, taggedUnitWithStats(fmt.Sprintf("unit-%02d", i), "fire", 1000+float64(i)))
	}
	scoredPool(d, PresetSelection{}, pool...)

	alloc := newAllocator(pool, d, PresetSelection{})
	first := alloc.fillTeam(nil, 5)
	second := alloc.fillTeam(nil, 5)

	assert.Len(t, first, 5)
	assert.Len(t, second, 3)
	for _, member := range second {
		assert.NotContains(t, teamIDs(first), member.Unit.ID)
	}
}

func TestFillTeamKeepsForcedMembersFirst(t *testing.T) {
	d := doctrine.Default()

	forced := taggedUnitWithStats("pinned", "fire", 100)
	pool := scoredPool(d, PresetSelection{},
		forced,
		taggedUnitWithStats("unit-a", "fire", 3000),
		taggedUnitWithStats("unit-b", "fire", 2000),
	)

	alloc := newAllocator(pool, d, PresetSelection{})
	alloc.reserve([]string{"pinned"})
	team := alloc.fillTeam([]*TaggedUnit{forced}, 3)

	require.Len(t, team, 3)
	assert.Equal(t, "pinned", team[0].Unit.ID)
}

func TestPresetLadder(t *testing.T) {
	burn := doctrine.Default().Presets["burn"]

	strict := taggedTestUnit("strict", "burn_apply")
	conflicted := taggedTestUnit("conflicted", "burn_apply", "burn_anti")
	offPlan := taggedTestUnit("off-plan", "heal")
	pool := []*TaggedUnit{strict, conflicted, offPlan}

	t.Run("strict matches suffice", func(t *testing.T) {
		filtered := presetLadder(pool, burn, 1)
		assert.Equal(t, []string{"strict"}, teamIDs(filtered))
	})

	t.Run("falls back to include matchers", func(t *testing.T) {
		filtered := presetLadder(pool, burn, 2)
		assert.Equal(t, []string{"strict", "conflicted"}, teamIDs(filtered))
	})

	t.Run("gives up when matchers cannot fill", func(t *testing.T) {
		filtered := presetLadder(pool, burn, 3)
		assert.Equal(t, []string{"strict", "conflicted", "off-plan"}, teamIDs(filtered))
	})
}

func TestDominantElement(t *testing.T) {
	tests := []struct {
		name     string
		units    []*TaggedUnit
		expected string
	}{
		{
			name: "plurality wins",
			units: []*TaggedUnit{
				taggedUnitWithStats("a", "fire", 1000),
				taggedUnitWithStats("b", "fire", 1000),
				taggedUnitWithStats("c", "water", 1000),
			},
			expected: "fire",
		},
		{
			name: "tie breaks lexicographically",
			units: []*TaggedUnit{
				taggedUnitWithStats("a", "water", 1000),
				taggedUnitWithStats("b", "fire", 1000),
			},
			expected: "fire",
		},
		{
			name: "elementless units ignored",
			units: []*TaggedUnit{
				taggedUnitWithStats("a", "", 1000),
				taggedUnitWithStats("b", "storm", 1000),
			},
			expected: "storm",
		},
		{
			name:     "no elements at all",
			units:    []*TaggedUnit{taggedUnitWithStats("a", "", 1000)},
			expected: "",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, dominantElement(test.units))
		})
	}
}

func TestMonoFilterAnchorsOnForcedMembers(t *testing.T) {
	d := doctrine.Default()
	d.Elements.Mode = doctrine.ModeForceMono

	forced := taggedUnitWithStats("leader", "fire", 1000)
	pool := scoredPool(d, PresetSelection{},
		taggedUnitWithStats("water-1", "water", 3000),
		taggedUnitWithStats("water-2", "water", 2900),
		taggedUnitWithStats("water-3", "water", 2800),
		taggedUnitWithStats("fire-1", "fire", 1000),
		taggedUnitWithStats("fire-2", "fire", 900),
	)

	alloc := newAllocator(pool, d, PresetSelection{})
	team := alloc.fillTeam([]*TaggedUnit{forced}, 3)

	require.Len(t, team, 3)
	for _, member := range team {
		assert.Equal(t, "fire", member.Element)
	}
}

func TestMonoFilterShortTeamOverMixed(t *testing.T) {
	d := doctrine.Default()
	d.Elements.Mode = doctrine.ModeForceMono

	pool := scoredPool(d, PresetSelection{},
		taggedUnitWithStats("fire-1", "fire", 3000),
		taggedUnitWithStats("fire-2", "fire", 2900),
		taggedUnitWithStats("water-1", "water", 2800),
	)

	alloc := newAllocator(pool, d, PresetSelection{})
	team := alloc.fillTeam(nil, 3)

	require.Len(t, team, 2)
	for _, member := range team {
		assert.Equal(t, "fire", member.Element)
	}
}

func TestGreedyFillPrefersEnginePartners(t *testing.T) {
	d := doctrine.Default()

	// equal stats, so the payoff unit only wins through team synergy
	applier := taggedUnitWithStats("applier", "fire", 2000, "burn_apply")
	payoff := taggedUnitWithStats("payoff", "fire", 2000, "burn_synergy")
	vanilla := taggedUnitWithStats("vanilla", "fire", 2000)
	pool := scoredPool(d, PresetSelection{}, applier, payoff, vanilla)

	alloc := newAllocator(pool, d, PresetSelection{})
	team := alloc.fillTeam([]*TaggedUnit{applier}, 2)

	require.Len(t, team, 2)
	assert.Equal(t, "payoff", team[1].Unit.ID)
}

func TestBeamFillMatchesTargetSize(t *testing.T) {
	d := doctrine.Default()
	d.Search.BeamWidth = 4

	pool := make([]*TaggedUnit, 0, 10)
	for i := 0; i < 10; i++ {
		pool = append(pool, taggedUnitWithStats(fmt.Sprintf("unit-%02d", i), "fire", 1000+float64(i*10)))
	}
	scoredPool(d, PresetSelection{}, pool...)

	alloc := newAllocator(pool, d, PresetSelection{})
	team := alloc.fillTeam(nil, 5)

	assert.Len(t, team, 5)
}

func TestBeamFillDeterministic(t *testing.T) {
	d := doctrine.Default()
	d.Search.BeamWidth = 3

	build := func() []string {
		pool := make([]*TaggedUnit, 0, 12)
		for i := 0; i < 12; i++ {
			rawTags := []string{}
			if i%3 == 0 {
				rawTags = append(rawTags, "burn_apply")
			}
			if i%4 == 0 {
				rawTags = append(rawTags, "burn_synergy")
			}
			pool = append(pool, taggedUnitWithStats(fmt.Sprintf("unit-%02d", i), "fire", 1000+float64(i*7), rawTags...))
		}
		scoredPool(d, PresetSelection{}, pool...)
		alloc := newAllocator(pool, d, PresetSelection{})
		return teamIDs(alloc.fillTeam(nil, 5))
	}

	assert.Equal(t, build(), build())
}

func TestSplitStoryRoles(t *testing.T) {
	layout := models.NewSlotLayout()
	locks := models.NewSlotLocks()

	controller := taggedUnitWithStats("controller", "fire", 500, "stun_apply")
	healer := taggedUnitWithStats("healer", "fire", 500, "heal")
	bruiser := taggedUnitWithStats("bruiser", "fire", 4000)
	team := []*TaggedUnit{bruiser, healer, controller}

	main, back := splitStoryRoles(team, layout, locks)

	require.Len(t, main, models.StoryMainSize)
	require.Len(t, back, models.StoryBackSize)
	// three units all fit in the main row; the control unit ranks first and
	// the stat tie behind it breaks on id
	assert.Equal(t, []string{"controller", "bruiser", "healer", "", ""}, main)
	assert.Equal(t, []string{"", "", ""}, back)
}

func TestSplitStoryRolesOverflowToBack(t *testing.T) {
	layout := models.NewSlotLayout()
	locks := models.NewSlotLocks()

	team := make([]*TaggedUnit, 0, 8)
	for i := 0; i < 6; i++ {
		team = append(team, taggedUnitWithStats(fmt.Sprintf("runner-%d", i), "fire", 1000, "tempo"))
	}
	sustain := taggedUnitWithStats("sustain", "fire", 3000, "heal")
	hitter := taggedUnitWithStats("hitter", "fire", 5000)
	team = append(team, sustain, hitter)

	main, back := splitStoryRoles(team, layout, locks)

	// six control units compete for five main slots; the sustain and damage
	// units land in the back row alongside the loser
	assert.NotContains(t, main, "sustain")
	assert.NotContains(t, main, "hitter")
	assert.Contains(t, back, "sustain")
	assert.Contains(t, back, "hitter")
}

func TestSplitStoryRolesKeepsLockedSlots(t *testing.T) {
	layout := models.NewSlotLayout()
	locks := models.NewSlotLocks()
	layout.StoryMain[2] = "pinned-main"
	locks.StoryMain[2] = true
	layout.StoryBack[0] = "pinned-back"
	locks.StoryBack[0] = true

	pinnedMain := taggedUnitWithStats("pinned-main", "fire", 100)
	pinnedBack := taggedUnitWithStats("pinned-back", "fire", 100)
	fast := taggedUnitWithStats("fast", "fire", 2000, "tempo")
	team := []*TaggedUnit{pinnedMain, pinnedBack, fast}

	main, back := splitStoryRoles(team, layout, locks)

	assert.Equal(t, "pinned-main", main[2])
	assert.Equal(t, "pinned-back", back[0])
	assert.Contains(t, main, "fast")
}

func TestFillPlatoonSlots(t *testing.T) {
	slots := make([]string, models.PlatoonSize)
	locks := make([]bool, models.PlatoonSize)
	slots[1] = "pinned"
	locks[1] = true

	pinned := taggedUnitWithStats("pinned", "fire", 100)
	first := taggedUnitWithStats("first", "fire", 3000)
	second := taggedUnitWithStats("second", "fire", 2000)
	team := []*TaggedUnit{pinned, first, second}

	out := fillPlatoonSlots(team, slots, locks)

	assert.Equal(t, []string{"first", "pinned", "second", "", ""}, out)
}
