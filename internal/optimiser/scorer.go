package optimiser

import (
	"evertale-team-optimiser/internal/doctrine"
	"evertale-team-optimiser/internal/models"
	"evertale-team-optimiser/internal/tags"
)

// ScoreUnit computes the context-free desirability of a single unit. The
// weighted stat line lands in the low thousands for endgame units; an active
// preset adds affinity scaled by PresetAffinityWeight, so a single include
// match outweighs any realistic stat difference and ordering within the
// preset cohort is still decided by stats.
func ScoreUnit(unit models.UnitRecord, set tags.Set, d doctrine.Doctrine, preset PresetSelection) float64 {
	cost := unit.Stats.Cost
	if cost < 1 {
		cost = 1
	}

	weights := d.Weights
	score := unit.Stats.Atk*weights.Atk +
		unit.Stats.Spd*weights.Spd +
		unit.Stats.Hp*weights.Hp +
		(unit.Stats.Atk/cost)*weights.Efficiency

	if preset.Active {
		score += PresetAffinity(set, preset.Preset) * d.PresetAffinityWeight
	}

	return score
}

// statMagnitude is the secondary sort key for pool ordering, so two units
// with equal scores rank by raw stat total before falling back to id.
func statMagnitude(unit models.UnitRecord) float64 {
	return unit.Stats.Atk + unit.Stats.Hp + unit.Stats.Spd
}
