package optimiser

import (
	"sort"

	"evertale-team-optimiser/internal/doctrine"
	"evertale-team-optimiser/internal/tags"

	"github.com/rs/zerolog/log"
)

// Per-tag affinity contributions. The overall preset dominance is tuned via
// doctrine.PresetAffinityWeight; these three only shape the ratio between
// include, soft and exclude matches.
const (
	affinityIncludeWeight = 3.0
	affinitySoftWeight    = 1.0
	affinityExcludeWeight = 4.0
)

// PresetSelection is the resolved preset for one run. Key is empty and
// Active false when the run scores on stats and synergy alone.
type PresetSelection struct {
	Key    string
	Preset doctrine.Preset
	Active bool
}

// PresetAffinity sums +3 per matched include tag, +1 per matched soft tag
// and -4 per matched exclude tag.
func PresetAffinity(set tags.Set, preset doctrine.Preset) float64 {
	affinity := affinityIncludeWeight * float64(set.CountMatches(preset.Include))
	affinity += affinitySoftWeight * float64(set.CountMatches(preset.Soft))
	affinity -= affinityExcludeWeight * float64(set.CountMatches(preset.Exclude))
	return affinity
}

// ResolvePreset picks the strategic plan for a run. An explicit preset tag
// wins; an unrecognised one silently disables presets rather than failing
// the run. Auto mode scans the owned pool, with locked units nudging the
// comparison towards plans they fit and away from plans they fight.
func ResolvePreset(pool []*TaggedUnit, forced []*TaggedUnit, d doctrine.Doctrine, presetTag string, presetMode string) PresetSelection {
	if presetTag != "" {
		preset, ok := d.Presets[presetTag]
		if !ok {
			log.Debug().Msgf("Unknown preset %s, running without a preset", presetTag)
			return PresetSelection{}
		}
		return PresetSelection{Key: presetTag, Preset: preset, Active: true}
	}

	if presetMode != "auto" {
		return PresetSelection{}
	}

	return autoSelectPreset(pool, forced, d)
}

func autoSelectPreset(pool []*TaggedUnit, forced []*TaggedUnit, d doctrine.Doctrine) PresetSelection {
	keys := make([]string, 0, len(d.Presets))
	for key := range d.Presets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	bestKey := ""
	bestStrong := 0
	bestTotal := 0.0

	for _, key := range keys {
		preset := d.Presets[key]

		strong := 0
		total := 0.0
		for _, unit := range pool {
			total += PresetAffinity(unit.Tags, preset)
			if unit.Tags.HasAny(preset.Include) {
				strong++
			}
		}

		// a player-pinned leader nudges auto-selection toward a compatible
		// plan and away from plans it anti-matches
		for _, unit := range forced {
			if unit.Tags.HasAny(preset.Include) {
				strong += d.AutoSelect.ForcedStrongBias
			}
			if unit.Tags.HasAny(preset.Exclude) {
				total -= d.AutoSelect.ForcedExcludePenalty
			}
		}

		if bestKey == "" || strong > bestStrong || (strong == bestStrong && total > bestTotal) {
			bestKey = key
			bestStrong = strong
			bestTotal = total
		}
	}

	if bestStrong <= 0 {
		log.Debug().Msg("No preset has strong matches in the pool, running without a preset")
		return PresetSelection{}
	}

	log.Debug().Msgf("Auto-selected preset %s (%d strong matches)", bestKey, bestStrong)
	return PresetSelection{Key: bestKey, Preset: d.Presets[bestKey], Active: true}
}
