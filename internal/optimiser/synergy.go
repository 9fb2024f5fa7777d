package optimiser

import (
	"sort"

	"evertale-team-optimiser/internal/doctrine"
	"evertale-team-optimiser/internal/helpers"
	"evertale-team-optimiser/internal/tags"
)

// TeamScore evaluates a partial or complete team as a whole: mean member
// quality plus mechanic engines, preset cohesion, capability coverage,
// redundancy and element policy.
func TeamScore(team []*TaggedUnit, d doctrine.Doctrine, preset PresetSelection) float64 {
	if len(team) == 0 {
		return 0
	}

	tw := d.Team

	applyCounts := map[string]int{}
	payoffCounts := map[string]int{}
	antiCounts := map[string]int{}
	coverageCounts := map[string]int{}
	elementCounts := map[string]int{}
	supportUnits := 0
	includeMembers := 0
	excludeMembers := 0
	baseSum := 0.0

	for _, member := range team {
		baseSum += member.BaseScore

		for _, mech := range tags.MechanicFamilies {
			if member.Tags.Has(tags.ApplyTag(mech)) {
				applyCounts[mech]++
			}
			if member.Tags.Has(tags.SynergyTag(mech)) {
				payoffCounts[mech]++
			}
			if member.Tags.Has(tags.AntiTag(mech)) {
				antiCounts[mech]++
			}
		}

		if member.Tags.HasAny(tags.SupportTags) {
			supportUnits++
		}

		for _, tag := range tags.CoverageTags {
			if member.Tags.Has(tag) {
				coverageCounts[tag]++
			}
		}

		if preset.Active {
			if member.Tags.HasAny(preset.Preset.Include) {
				includeMembers++
			}
			if member.Tags.HasAny(preset.Preset.Exclude) {
				excludeMembers++
			}
		}

		if member.Element != "" {
			elementCounts[member.Element]++
		}
	}

	score := baseSum / float64(len(team)) / tw.BaseDivisor
	score += engineScore(applyCounts, payoffCounts, antiCounts, supportUnits, tw)

	if preset.Active {
		score += float64(includeMembers) * tw.PresetMemberBonus
		score -= float64(excludeMembers) * tw.PresetMemberPenalty
	}

	score += coverageScore(coverageCounts, applyCounts, tw)
	score -= redundancyPenalty(coverageCounts, tw)
	score += elementScore(elementCounts, len(team), d.Elements)

	return score
}

// engineScore rates each mechanic family as an engine of paired appliers and
// payoffs. Spare halves are worth a fraction of a pair, anti-synergy members
// cost more than a pair is worth, and generic support units amplify an
// engine that actually runs.
func engineScore(applyCounts, payoffCounts, antiCounts map[string]int, supportUnits int, tw doctrine.TeamWeights) float64 {
	score := 0.0
	saturation := helpers.Clamp01(float64(supportUnits) / tw.SupportSaturation)

	for _, mech := range tags.MechanicFamilies {
		apply := applyCounts[mech]
		payoff := payoffCounts[mech]

		pairs := apply
		if payoff < pairs {
			pairs = payoff
		}
		spare := apply + payoff - 2*pairs

		supportBonus := saturation * tw.SupportIdleBonus
		if pairs > 0 {
			supportBonus = saturation * tw.SupportActiveBonus
		}

		score += tw.EnginePair*float64(pairs) +
			tw.EngineSpare*float64(spare) +
			supportBonus -
			tw.EngineAnti*float64(antiCounts[mech])

		// three appliers with no payoff (or the reverse) is a stalled engine,
		// not a budding one
		if (apply >= 3 && payoff == 0) || (payoff >= 3 && apply == 0) {
			score -= tw.EngineHalfBuilt
		}
	}

	return score
}

func coverageScore(coverageCounts, applyCounts map[string]int, tw doctrine.TeamWeights) float64 {
	score := 0.0
	for _, tag := range tags.CoverageTags {
		if coverageCounts[tag] > 0 {
			score += tw.CoverageBonus
		}
	}

	if coverageCounts["mitigation"] > 0 && coverageCounts["heal"] > 0 {
		score += tw.ComboBonus
	}
	if coverageCounts["guard"] > 0 && coverageCounts["barrier"] > 0 {
		score += tw.ComboBonus
	}
	if coverageCounts["tempo"] > 0 && (applyCounts["sleep"] > 0 || applyCounts["stun"] > 0) {
		score += tw.ComboBonus
	}

	return score
}

func redundancyPenalty(coverageCounts map[string]int, tw doctrine.TeamWeights) float64 {
	penalised := make([]string, 0, len(tw.RedundancyPenalties))
	for tag := range tw.RedundancyPenalties {
		penalised = append(penalised, tag)
	}
	sort.Strings(penalised)

	penalty := 0.0
	for _, tag := range penalised {
		extra := coverageCounts[tag] - tw.RedundancyThreshold
		if extra > 0 {
			penalty += tw.RedundancyPenalties[tag] * float64(extra)
		}
	}
	return penalty
}

func elementScore(elementCounts map[string]int, teamSize int, policy doctrine.ElementPolicy) float64 {
	distinct := len(elementCounts)
	dominant := 0
	for _, count := range elementCounts {
		if count > dominant {
			dominant = count
		}
	}

	switch policy.Mode {
	case doctrine.ModeForceMono:
		if distinct > 1 {
			return -policy.MonoViolationPenalty
		}
	case doctrine.ModeForceRainbow:
		if distinct < policy.RainbowMinElements {
			return -policy.RainbowShortfallPenalty * float64(policy.RainbowMinElements-distinct)
		}
	default:
		ratio := float64(dominant) / float64(teamSize)
		if ratio >= policy.AutoDominantRatio || distinct >= policy.AutoDistinctMin {
			return policy.AutoBonus
		}
	}

	return 0
}
