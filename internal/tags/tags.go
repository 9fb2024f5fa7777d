// Package tags canonicalises the free-form capability tags carried by
// catalog units and expands them into the fixed mechanic vocabulary the
// optimiser scores against.
package tags

import (
	"sort"
	"strings"
)

// Mechanic families with an apply/payoff/anti tag triad.
var MechanicFamilies = []string{"burn", "poison", "sleep", "stun"}

// Generic enabling tags that support any status engine.
var SupportTags = []string{"tempo", "cleanse", "spread"}

// Capabilities rewarded once per team when present at all.
var CoverageTags = []string{"heal", "cleanse", "revive", "mitigation", "tempo", "barrier", "guard", "dispel", "stealth", "evasion"}

// Control tags push units to the story front line, sustain tags to the back.
var ControlTags = []string{"sleep_apply", "stun_apply", "tempo"}
var SustainTags = []string{"heal", "revive", "cleanse"}

const ElementTagPrefix = "element_"

func ApplyTag(mechanic string) string {
	return mechanic + "_apply"
}

func SynergyTag(mechanic string) string {
	return mechanic + "_synergy"
}

func AntiTag(mechanic string) string {
	return mechanic + "_anti"
}

// synonyms maps a canonical tag to the canonical mechanic tag it implies.
// Many-to-one and single hop only; a synonym target is never itself expanded.
var synonyms = map[string]string{
	"lifesteal":        "heal",
	"life_steal":       "heal",
	"regen":            "heal",
	"regeneration":     "heal",
	"drain":            "heal",
	"purify":           "cleanse",
	"detox":            "cleanse",
	"shield":           "barrier",
	"aegis":            "barrier",
	"taunt":            "guard",
	"provoke":          "guard",
	"cover":            "guard",
	"damage_reduction": "mitigation",
	"dmg_reduction":    "mitigation",
	"armor":            "mitigation",
	"tu_manipulation":  "tempo",
	"tu_reduction":     "tempo",
	"haste":            "tempo",
	"accelerate":       "tempo",
	"invisibility":     "stealth",
	"camouflage":       "stealth",
	"dodge":            "evasion",
	"blur":             "evasion",
	"purge":            "dispel",
	"ignite":           "burn_apply",
	"scorch":           "burn_apply",
	"pyre_dance":       "burn_synergy",
	"venom":            "poison_apply",
	"toxic":            "poison_apply",
	"lullaby":          "sleep_apply",
	"hypnosis":         "sleep_apply",
	"dream_eater":      "sleep_synergy",
	"shock":            "stun_apply",
	"paralyze":         "stun_apply",
	"resurrect":        "revive",
	"phoenix":          "revive",
}

// Set is a canonical tag set with membership queries.
type Set map[string]struct{}

func (s Set) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

func (s Set) HasAny(tags []string) bool {
	for _, tag := range tags {
		if s.Has(tag) {
			return true
		}
	}
	return false
}

// CountMatches returns how many of the given tags are present in the set.
func (s Set) CountMatches(tags []string) int {
	count := 0
	for _, tag := range tags {
		if s.Has(tag) {
			count++
		}
	}
	return count
}

// Sorted returns the members in lexicographic order.
func (s Set) Sorted() []string {
	members := make([]string, 0, len(s))
	for tag := range s {
		members = append(members, tag)
	}
	sort.Strings(members)
	return members
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// Canonicalize lower-cases the raw tag, collapses every run of
// non-alphanumeric characters into a single underscore and trims boundary
// underscores. "Burn-Apply " and "burn  apply" both become "burn_apply".
func Canonicalize(raw string) string {
	lowered := strings.ToLower(raw)

	var b strings.Builder
	b.Grow(len(lowered))
	pendingSep := false
	for _, r := range lowered {
		if isAlphanumeric(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	return b.String()
}

// Expand canonicalises every raw tag, keeps it, and adds the canonical
// synonym target when the table knows one. Empty tags are dropped; unknown
// tags pass through unchanged.
func Expand(raws []string) Set {
	expanded := make(Set, len(raws))
	for _, raw := range raws {
		canonical := Canonicalize(raw)
		if canonical == "" {
			continue
		}
		expanded[canonical] = struct{}{}
		if target, ok := synonyms[canonical]; ok {
			expanded[target] = struct{}{}
		}
	}
	return expanded
}

// ElementOf extracts the element from an "element_*" tag in the set. When a
// unit somehow carries several, the lexicographically smallest wins so the
// answer never depends on map iteration order.
func ElementOf(s Set) string {
	element := ""
	for tag := range s {
		if !strings.HasPrefix(tag, ElementTagPrefix) {
			continue
		}
		candidate := strings.TrimPrefix(tag, ElementTagPrefix)
		if candidate == "" {
			continue
		}
		if element == "" || candidate < element {
			element = candidate
		}
	}
	return element
}
