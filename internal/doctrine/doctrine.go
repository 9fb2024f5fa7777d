// Package doctrine holds every tunable weight, threshold and policy switch
// the optimiser reads. A Doctrine is assembled once per run by deep-merging
// caller overrides on top of the defaults and is never mutated afterwards.
package doctrine

import (
	"encoding/json"
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	ModeAuto         = "auto"
	ModeForceMono    = "force_mono"
	ModeForceRainbow = "force_rainbow"
)

type ScoreWeights struct {
	Atk        float64 `json:"atk"`
	Spd        float64 `json:"spd"`
	Hp         float64 `json:"hp"`
	Efficiency float64 `json:"efficiency"`
}

type TeamWeights struct {
	// BaseDivisor scales the mean member score down to synergy magnitude.
	BaseDivisor float64 `json:"base_divisor"`

	EnginePair      float64 `json:"engine_pair"`
	EngineSpare     float64 `json:"engine_spare"`
	EngineAnti      float64 `json:"engine_anti"`
	EngineHalfBuilt float64 `json:"engine_half_built"`

	SupportSaturation  float64 `json:"support_saturation"`
	SupportActiveBonus float64 `json:"support_active_bonus"`
	SupportIdleBonus   float64 `json:"support_idle_bonus"`

	PresetMemberBonus   float64 `json:"preset_member_bonus"`
	PresetMemberPenalty float64 `json:"preset_member_penalty"`

	CoverageBonus float64 `json:"coverage_bonus"`
	ComboBonus    float64 `json:"combo_bonus"`

	RedundancyThreshold int                `json:"redundancy_threshold"`
	RedundancyPenalties map[string]float64 `json:"redundancy_penalties"`
}

type ElementPolicy struct {
	// Mode is one of auto, force_mono or force_rainbow.
	Mode string `json:"mode"`

	MonoViolationPenalty    float64 `json:"mono_violation_penalty"`
	RainbowMinElements      int     `json:"rainbow_min_elements"`
	RainbowShortfallPenalty float64 `json:"rainbow_shortfall_penalty"`

	AutoDominantRatio float64 `json:"auto_dominant_ratio"`
	AutoDistinctMin   int     `json:"auto_distinct_min"`
	AutoBonus         float64 `json:"auto_bonus"`
}

type SearchTuning struct {
	CandidatePoolSize int `json:"candidate_pool_size"`
	GreedyLookahead   int `json:"greedy_lookahead"`
	BeamWidth         int `json:"beam_width"`
}

// Preset is a named strategic plan expressed as tag lists.
type Preset struct {
	Include []string `json:"include"`
	Soft    []string `json:"soft"`
	Exclude []string `json:"exclude"`
}

type AutoSelect struct {
	// ForcedStrongBias is added to a preset's strong-match count per locked
	// unit matching its include tags.
	ForcedStrongBias int `json:"forced_strong_bias"`
	// ForcedExcludePenalty is subtracted from a preset's total affinity per
	// locked unit matching its exclude tags.
	ForcedExcludePenalty float64 `json:"forced_exclude_penalty"`
}

type Doctrine struct {
	Weights              ScoreWeights      `json:"weights"`
	PresetAffinityWeight float64           `json:"preset_affinity_weight"`
	Team                 TeamWeights       `json:"team"`
	Elements             ElementPolicy     `json:"elements"`
	Search               SearchTuning      `json:"search"`
	Presets              map[string]Preset `json:"presets"`
	AutoSelect           AutoSelect        `json:"auto_select"`
}

// Default returns a fresh copy of the default doctrine. The numeric values
// are tuned heuristics, not derived truths; overrides are the supported way
// to retune them.
func Default() Doctrine {
	return Doctrine{
		Weights: ScoreWeights{
			Atk:        0.42,
			Spd:        0.28,
			Hp:         0.20,
			Efficiency: 0.10,
		},
		// Large enough that a single include-tag match outweighs any stat
		// spread in the catalog.
		PresetAffinityWeight: 100000,
		Team: TeamWeights{
			BaseDivisor:         1000,
			EnginePair:          3.0,
			EngineSpare:         0.75,
			EngineAnti:          3.5,
			EngineHalfBuilt:     2.0,
			SupportSaturation:   4,
			SupportActiveBonus:  2.0,
			SupportIdleBonus:    1.0,
			PresetMemberBonus:   1.6,
			PresetMemberPenalty: 2.8,
			CoverageBonus:       1.0,
			ComboBonus:          0.75,
			RedundancyThreshold: 2,
			RedundancyPenalties: map[string]float64{
				"heal":       0.8,
				"cleanse":    0.6,
				"mitigation": 0.7,
				"barrier":    0.5,
				"guard":      0.5,
			},
		},
		Elements: ElementPolicy{
			Mode:                    ModeAuto,
			MonoViolationPenalty:    10000,
			RainbowMinElements:      4,
			RainbowShortfallPenalty: 4.0,
			AutoDominantRatio:       0.75,
			AutoDistinctMin:         4,
			AutoBonus:               1.5,
		},
		Search: SearchTuning{
			CandidatePoolSize: 80,
			GreedyLookahead:   80,
			BeamWidth:         1,
		},
		Presets: map[string]Preset{
			"burn": {
				Include: []string{"burn_apply", "burn_synergy"},
				Soft:    []string{"spread", "tempo"},
				Exclude: []string{"burn_anti"},
			},
			"poison": {
				Include: []string{"poison_apply", "poison_synergy"},
				Soft:    []string{"spread", "tempo"},
				Exclude: []string{"poison_anti"},
			},
			"sleep": {
				Include: []string{"sleep_apply", "sleep_synergy"},
				Soft:    []string{"tempo"},
				Exclude: []string{"sleep_anti"},
			},
			"stun": {
				Include: []string{"stun_apply", "stun_synergy"},
				Soft:    []string{"tempo"},
				Exclude: []string{"stun_anti"},
			},
			"heal": {
				Include: []string{"heal", "revive"},
				Soft:    []string{"cleanse", "barrier"},
				Exclude: []string{},
			},
			"turn": {
				Include: []string{"tempo"},
				Soft:    []string{"sleep_apply", "stun_apply"},
				Exclude: []string{},
			},
			"cleanse": {
				Include: []string{"cleanse"},
				Soft:    []string{"heal", "barrier"},
				Exclude: []string{},
			},
			"hp-buff": {
				Include: []string{"hp_buff"},
				Soft:    []string{"heal", "guard"},
				Exclude: []string{},
			},
			"atk-buff": {
				Include: []string{"atk_buff"},
				Soft:    []string{"tempo", "spread"},
				Exclude: []string{},
			},
		},
		AutoSelect: AutoSelect{
			ForcedStrongBias:     2,
			ForcedExcludePenalty: 25,
		},
	}
}

// Merge deep-merges the override map onto the doctrine and returns the
// result as an independent value; the receiver is never modified. Unknown
// keys are ignored. A mistyped value loses only its own field, which keeps
// its default; an override map that cannot be serialised at all yields an
// untouched copy rather than an error - a bad tuning file should degrade
// to defaults, not block a run.
func (d Doctrine) Merge(overrides map[string]interface{}) Doctrine {
	base, err := toMap(d)
	if err != nil {
		return d
	}

	deepMerge(base, overrides)

	merged, err := fromMap(base, d)
	if err != nil {
		return d
	}

	return merged
}

func toMap(d Doctrine) (map[string]interface{}, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}

	m := make(map[string]interface{})
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}

	return m, nil
}

// fromMap decodes the merged map into a copy of fallback. A mistyped
// value loses only its own field: Unmarshal skips the offender and keeps
// decoding, so the fallback value shows through there.
func fromMap(m map[string]interface{}, fallback Doctrine) (Doctrine, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return fallback, err
	}

	d, err := isolatedCopy(fallback)
	if err != nil {
		return fallback, err
	}

	if err := json.Unmarshal(raw, &d); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return fallback, err
		}
	}

	return d, nil
}

// isolatedCopy round-trips d through JSON so the copy owns its map and
// slice storage; decoding into it cannot touch the original.
func isolatedCopy(d Doctrine) (Doctrine, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return d, err
	}

	var dup Doctrine
	if err := json.Unmarshal(raw, &dup); err != nil {
		return d, err
	}

	return dup, nil
}

func deepMerge(dst map[string]interface{}, src map[string]interface{}) {
	for key, value := range src {
		srcMap, srcIsMap := value.(map[string]interface{})
		dstMap, dstIsMap := dst[key].(map[string]interface{})
		if srcIsMap && dstIsMap {
			deepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = value
	}
}

// LoadOverridesFile reads a YAML override file into the map shape Merge
// expects. Used by the CLI binaries; API callers send overrides as JSON.
func LoadOverridesFile(path string) (map[string]interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]interface{})
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return nil, err
	}

	return overrides, nil
}
