package optimiser

import (
	"sort"
	"strings"

	"evertale-team-optimiser/internal/doctrine"
	"evertale-team-optimiser/internal/models"
	"evertale-team-optimiser/internal/tags"
)

// Story role split heuristics. The front row wants fast, durable units that
// can land control before the enemy acts; the back row wants raw damage and
// sustain that keeps the front row standing.
const (
	frontRowSpdWeight = 0.6
	frontRowHpWeight  = 0.1
	backRowAtkWeight  = 0.6
	roleTagBonus      = 2000.0
)

// allocator owns the shared candidate pool for one optimisation run. Teams
// are filled in priority order and every unit placed on a team is consumed,
// so later fills draw from what remains.
type allocator struct {
	doctrine doctrine.Doctrine
	preset   PresetSelection
	pool     []*TaggedUnit
	byID     map[string]*TaggedUnit
	consumed map[string]bool
}

func newAllocator(units []*TaggedUnit, d doctrine.Doctrine, preset PresetSelection) *allocator {
	pool := make([]*TaggedUnit, len(units))
	copy(pool, units)
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].BaseScore != pool[j].BaseScore {
			return pool[i].BaseScore > pool[j].BaseScore
		}
		magI := statMagnitude(pool[i].Unit)
		magJ := statMagnitude(pool[j].Unit)
		if magI != magJ {
			return magI > magJ
		}
		return pool[i].Unit.ID < pool[j].Unit.ID
	})

	byID := make(map[string]*TaggedUnit, len(pool))
	for _, unit := range pool {
		byID[unit.Unit.ID] = unit
	}

	return &allocator{
		doctrine: d,
		preset:   preset,
		pool:     pool,
		byID:     byID,
		consumed: map[string]bool{},
	}
}

func (a *allocator) unit(id string) *TaggedUnit {
	return a.byID[id]
}

// reserve marks ids as consumed before any team is filled. Locked units are
// reserved up front so no fill can hand a unit to a team that another slot
// has already pinned.
func (a *allocator) reserve(ids []string) {
	for _, id := range ids {
		if id != "" {
			a.consumed[id] = true
		}
	}
}

// fillTeam grows the forced members into a team of targetSize and consumes
// the result. A drained pool produces a smaller team rather than an error.
func (a *allocator) fillTeam(forced []*TaggedUnit, targetSize int) []*TaggedUnit {
	team := make([]*TaggedUnit, 0, targetSize)
	team = append(team, forced...)

	if len(team) < targetSize {
		candidates := a.buildPool(team, targetSize-len(team))
		team = a.fill(team, candidates, targetSize)
	}

	for _, member := range team {
		a.consumed[member.Unit.ID] = true
	}
	return team
}

// buildPool assembles the candidate pool for one team: unconsumed units in
// master order, truncated to candidatePoolSize, then narrowed by the preset
// ladder and the mono-element anchor.
func (a *allocator) buildPool(team []*TaggedUnit, remaining int) []*TaggedUnit {
	inTeam := make(map[string]bool, len(team))
	for _, member := range team {
		inTeam[member.Unit.ID] = true
	}

	limit := a.doctrine.Search.CandidatePoolSize
	pool := make([]*TaggedUnit, 0, len(a.pool))
	for _, unit := range a.pool {
		if a.consumed[unit.Unit.ID] || inTeam[unit.Unit.ID] {
			continue
		}
		pool = append(pool, unit)
		if limit > 0 && len(pool) == limit {
			break
		}
	}

	if a.preset.Active {
		pool = presetLadder(pool, a.preset.Preset, remaining)
	}
	if a.doctrine.Elements.Mode == doctrine.ModeForceMono {
		pool = a.monoFilter(pool, team)
	}

	return pool
}

// presetLadder prefers units that match the preset outright, falls back to
// include-matchers that also carry exclude tags, and finally gives up on
// filtering when even those cannot fill the team.
func presetLadder(pool []*TaggedUnit, preset doctrine.Preset, remaining int) []*TaggedUnit {
	strict := make([]*TaggedUnit, 0, len(pool))
	loose := make([]*TaggedUnit, 0, len(pool))
	for _, unit := range pool {
		if !unit.Tags.HasAny(preset.Include) {
			continue
		}
		loose = append(loose, unit)
		if !unit.Tags.HasAny(preset.Exclude) {
			strict = append(strict, unit)
		}
	}

	if len(strict) >= remaining {
		return strict
	}
	if len(loose) >= remaining {
		return loose
	}
	return pool
}

// monoFilter restricts the pool to the anchor element. Forced members pick
// the anchor when any of them carry an element; otherwise the pool's best
// represented element wins. A starved anchor yields a short mono team, never
// a silent fallback to mixed elements.
func (a *allocator) monoFilter(pool []*TaggedUnit, team []*TaggedUnit) []*TaggedUnit {
	anchor := anchorElement(team, pool)
	if anchor == "" {
		return pool
	}

	filtered := make([]*TaggedUnit, 0, len(pool))
	for _, unit := range pool {
		if unit.Element == anchor {
			filtered = append(filtered, unit)
		}
	}
	return filtered
}

func anchorElement(team []*TaggedUnit, pool []*TaggedUnit) string {
	anchor := dominantElement(team)
	if anchor != "" {
		return anchor
	}
	return dominantElement(pool)
}

func dominantElement(units []*TaggedUnit) string {
	counts := map[string]int{}
	for _, unit := range units {
		if unit.Element != "" {
			counts[unit.Element]++
		}
	}

	best := ""
	bestCount := 0
	for element, count := range counts {
		if count > bestCount || (count == bestCount && best != "" && element < best) {
			best = element
			bestCount = count
		}
	}
	return best
}

func (a *allocator) fill(team []*TaggedUnit, pool []*TaggedUnit, targetSize int) []*TaggedUnit {
	if a.doctrine.Search.BeamWidth > 1 {
		return a.beamFill(team, pool, targetSize, a.doctrine.Search.BeamWidth)
	}
	return a.greedyFill(team, pool, targetSize)
}

// greedyFill adds the unit whose addition yields the best whole-team score,
// one slot at a time. Ties go to the higher base score, then the smaller id,
// so equal inputs always produce equal teams.
func (a *allocator) greedyFill(team []*TaggedUnit, pool []*TaggedUnit, targetSize int) []*TaggedUnit {
	for len(team) < targetSize {
		window := a.window(pool, team)
		if len(window) == 0 {
			break
		}

		scratch := make([]*TaggedUnit, len(team)+1)
		copy(scratch, team)

		var best *TaggedUnit
		bestScore := 0.0
		for _, candidate := range window {
			scratch[len(team)] = candidate
			score := TeamScore(scratch, a.doctrine, a.preset)
			if best == nil || score > bestScore || (score == bestScore && betterCandidate(candidate, best)) {
				best = candidate
				bestScore = score
			}
		}

		team = append(team, best)
	}
	return team
}

func betterCandidate(candidate, incumbent *TaggedUnit) bool {
	if candidate.BaseScore != incumbent.BaseScore {
		return candidate.BaseScore > incumbent.BaseScore
	}
	return candidate.Unit.ID < incumbent.Unit.ID
}

type beamState struct {
	team  []*TaggedUnit
	score float64
	sig   string
}

// beamFill keeps the beamWidth best partial teams per round instead of a
// single greedy line. Rounds are bounded by targetSize since every viable
// state grows by exactly one member per round.
func (a *allocator) beamFill(team []*TaggedUnit, pool []*TaggedUnit, targetSize int, width int) []*TaggedUnit {
	states := []beamState{{
		team:  team,
		score: TeamScore(team, a.doctrine, a.preset),
		sig:   teamSignature(team),
	}}

	for round := len(team); round < targetSize; round++ {
		next := make([]beamState, 0, len(states)*4)
		expanded := false

		for _, state := range states {
			if len(state.team) >= targetSize {
				next = append(next, state)
				continue
			}
			window := a.window(pool, state.team)
			if len(window) == 0 {
				next = append(next, state)
				continue
			}

			for _, candidate := range window {
				grown := make([]*TaggedUnit, len(state.team)+1)
				copy(grown, state.team)
				grown[len(state.team)] = candidate
				next = append(next, beamState{
					team:  grown,
					score: TeamScore(grown, a.doctrine, a.preset),
					sig:   teamSignature(grown),
				})
				expanded = true
			}
		}

		if !expanded {
			break
		}
		states = pruneBeam(next, width)
	}

	sortBeam(states)
	return states[0].team
}

// window returns the slice of the pool the fill is allowed to inspect this
// round: unpicked units in master order, capped at greedyLookahead.
func (a *allocator) window(pool []*TaggedUnit, team []*TaggedUnit) []*TaggedUnit {
	inTeam := make(map[string]bool, len(team))
	for _, member := range team {
		inTeam[member.Unit.ID] = true
	}

	limit := a.doctrine.Search.GreedyLookahead
	if limit <= 0 {
		limit = len(pool)
	}

	window := make([]*TaggedUnit, 0, limit)
	for _, unit := range pool {
		if inTeam[unit.Unit.ID] {
			continue
		}
		window = append(window, unit)
		if len(window) == limit {
			break
		}
	}
	return window
}

func pruneBeam(states []beamState, width int) []beamState {
	sortBeam(states)

	pruned := make([]beamState, 0, width)
	seen := map[string]bool{}
	for _, state := range states {
		if seen[state.sig] {
			continue
		}
		seen[state.sig] = true
		pruned = append(pruned, state)
		if len(pruned) == width {
			break
		}
	}
	return pruned
}

func sortBeam(states []beamState) {
	sort.SliceStable(states, func(i, j int) bool {
		if states[i].score != states[j].score {
			return states[i].score > states[j].score
		}
		return states[i].sig < states[j].sig
	})
}

// teamSignature is an order-independent identity for a member set, used to
// collapse beam states that picked the same units along different paths.
func teamSignature(team []*TaggedUnit) string {
	ids := make([]string, len(team))
	for i, member := range team {
		ids[i] = member.Unit.ID
	}
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

func frontRowScore(unit *TaggedUnit) float64 {
	score := unit.Unit.Stats.Spd*frontRowSpdWeight + unit.Unit.Stats.Hp*frontRowHpWeight
	if unit.Tags.HasAny(tags.ControlTags) {
		score += roleTagBonus
	}
	return score
}

func backRowScore(unit *TaggedUnit) float64 {
	score := unit.Unit.Stats.Atk * backRowAtkWeight
	if unit.Tags.HasAny(tags.SustainTags) {
		score += roleTagBonus
	}
	return score
}

// splitStoryRoles distributes a filled story team across the 5 main and 3
// back slots. Locked slots keep their unit; everyone else is ranked for the
// front row first, with the leftovers ranked for the back row.
func splitStoryRoles(team []*TaggedUnit, layout models.SlotLayout, locks models.SlotLocks) ([]string, []string) {
	main := make([]string, models.StoryMainSize)
	back := make([]string, models.StoryBackSize)
	placed := map[string]bool{}

	for i := range main {
		if locks.StoryMain[i] && layout.StoryMain[i] != "" {
			main[i] = layout.StoryMain[i]
			placed[main[i]] = true
		}
	}
	for i := range back {
		if locks.StoryBack[i] && layout.StoryBack[i] != "" {
			back[i] = layout.StoryBack[i]
			placed[back[i]] = true
		}
	}

	free := make([]*TaggedUnit, 0, len(team))
	for _, member := range team {
		if !placed[member.Unit.ID] {
			free = append(free, member)
			placed[member.Unit.ID] = true
		}
	}

	sort.SliceStable(free, func(i, j int) bool {
		scoreI := frontRowScore(free[i])
		scoreJ := frontRowScore(free[j])
		if scoreI != scoreJ {
			return scoreI > scoreJ
		}
		return free[i].Unit.ID < free[j].Unit.ID
	})

	next := 0
	for i := range main {
		if main[i] == "" && next < len(free) {
			main[i] = free[next].Unit.ID
			next++
		}
	}

	rest := free[next:]
	sort.SliceStable(rest, func(i, j int) bool {
		scoreI := backRowScore(rest[i])
		scoreJ := backRowScore(rest[j])
		if scoreI != scoreJ {
			return scoreI > scoreJ
		}
		return rest[i].Unit.ID < rest[j].Unit.ID
	})

	next = 0
	for i := range back {
		if back[i] == "" && next < len(rest) {
			back[i] = rest[next].Unit.ID
			next++
		}
	}

	return main, back
}

// fillPlatoonSlots writes a platoon team into its 5 slots, keeping locked
// slots verbatim and laying the remaining members into the gaps in pick
// order.
func fillPlatoonSlots(team []*TaggedUnit, slots []string, locks []bool) []string {
	out := make([]string, models.PlatoonSize)
	placed := map[string]bool{}

	for i := range out {
		if locks[i] && slots[i] != "" {
			out[i] = slots[i]
			placed[out[i]] = true
		}
	}

	free := make([]*TaggedUnit, 0, len(team))
	for _, member := range team {
		if !placed[member.Unit.ID] {
			free = append(free, member)
			placed[member.Unit.ID] = true
		}
	}

	next := 0
	for i := range out {
		if out[i] == "" && next < len(free) {
			out[i] = free[next].Unit.ID
			next++
		}
	}
	return out
}
