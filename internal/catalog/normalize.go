package catalog

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"evertale-team-optimiser/internal/models"
	"evertale-team-optimiser/internal/tags"
)

// NormalizeUnits parses a raw catalog payload into canonical unit records.
// The community catalog is duck-typed: the unit list may be a bare array or
// sit under a wrapper key, stats may be flat or nested, tags may live under
// derivedTags or tags, and the element may be a field or an element_* tag.
// Records without an id are dropped with a log line, never an error.
func NormalizeUnits(raw []byte) []models.UnitRecord {
	root := gjson.ParseBytes(raw)

	items := root
	if root.IsObject() {
		for _, key := range []string{"units", "monsters", "data"} {
			if candidate := root.Get(key); candidate.IsArray() {
				items = candidate
				break
			}
		}
	}

	units := make([]models.UnitRecord, 0)
	items.ForEach(func(_, item gjson.Result) bool {
		unit, ok := normalizeUnit(item)
		if !ok {
			log.Debug().Msgf("Skipping catalog record without an id: %s", item.Raw)
			return true
		}
		units = append(units, unit)
		return true
	})

	return units
}

func normalizeUnit(item gjson.Result) (models.UnitRecord, bool) {
	id := firstString(item, "id", "unit_id", "slug")
	if id == "" {
		return models.UnitRecord{}, false
	}

	name := firstString(item, "name", "title")
	if name == "" {
		name = id
	}

	unit := models.UnitRecord{
		ID:   id,
		Name: name,
		Stats: models.UnitStats{
			Atk:  firstFloat(item, "atk", "stats.atk", "attack", "stats.attack"),
			Hp:   firstFloat(item, "hp", "stats.hp"),
			Spd:  firstFloat(item, "spd", "stats.spd", "speed", "stats.speed"),
			Cost: firstFloat(item, "cost", "stats.cost"),
		},
		Tags: normalizeTags(item),
	}

	if unit.Stats.Cost <= 0 {
		unit.Stats.Cost = 1
	}

	unit.Element = firstString(item, "element")
	if unit.Element != "" {
		unit.Element = tags.Canonicalize(unit.Element)
	} else {
		unit.Element = elementFromTags(unit.Tags)
	}

	return unit, true
}

// normalizeTags prefers the curated derivedTags list and falls back to raw
// tags. Every tag is canonicalised here so the database only ever holds the
// canonical vocabulary.
func normalizeTags(item gjson.Result) []string {
	source := item.Get("derivedTags")
	if !source.IsArray() {
		source = item.Get("tags")
	}
	if !source.IsArray() {
		return nil
	}

	seen := map[string]bool{}
	normalized := make([]string, 0, len(source.Array()))
	for _, tag := range source.Array() {
		canonical := tags.Canonicalize(tag.String())
		if canonical == "" || seen[canonical] {
			continue
		}
		seen[canonical] = true
		normalized = append(normalized, canonical)
	}
	return normalized
}

func elementFromTags(unitTags []string) string {
	element := ""
	for _, tag := range unitTags {
		if !strings.HasPrefix(tag, tags.ElementTagPrefix) {
			continue
		}
		candidate := strings.TrimPrefix(tag, tags.ElementTagPrefix)
		if candidate == "" {
			continue
		}
		if element == "" || candidate < element {
			element = candidate
		}
	}
	return element
}

func firstString(item gjson.Result, paths ...string) string {
	for _, path := range paths {
		if value := item.Get(path); value.Exists() && value.String() != "" {
			return value.String()
		}
	}
	return ""
}

func firstFloat(item gjson.Result, paths ...string) float64 {
	for _, path := range paths {
		if value := item.Get(path); value.Exists() {
			return value.Float()
		}
	}
	return 0
}
