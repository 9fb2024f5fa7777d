package catalog

import (
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"evertale-team-optimiser/internal/models"
	"evertale-team-optimiser/internal/tags"
)

type leaderSkill struct {
	prose string
	tags  []string
}

// MergeLeaderSkills folds the scattered leader-skill document into the unit
// records by id. The prose lands on the record as-is; skill tags join the
// unit's tag list. Skills for unknown units are ignored.
func MergeLeaderSkills(units []models.UnitRecord, raw []byte) []models.UnitRecord {
	if len(raw) == 0 {
		return units
	}

	skills := parseLeaderSkills(raw)
	if len(skills) == 0 {
		return units
	}

	merged := 0
	for i := range units {
		skill, ok := skills[units[i].ID]
		if !ok {
			continue
		}

		units[i].LeaderSkill = skill.prose
		units[i].Tags = appendMissingTags(units[i].Tags, skill.tags)
		merged++
	}

	log.Info().Msgf("Merged leader skills into %d of %d units", merged, len(units))
	return units
}

// parseLeaderSkills accepts both document shapes in the wild: an array of
// skill records carrying a unit id, or an object keyed by unit id.
func parseLeaderSkills(raw []byte) map[string]leaderSkill {
	root := gjson.ParseBytes(raw)

	if root.IsObject() {
		if list := root.Get("leader_skills"); list.Exists() {
			root = list
		}
	}

	skills := map[string]leaderSkill{}
	if root.IsArray() {
		root.ForEach(func(_, item gjson.Result) bool {
			id := firstString(item, "unit_id", "id")
			if id == "" {
				return true
			}
			skills[id] = parseLeaderSkill(item)
			return true
		})
		return skills
	}

	if root.IsObject() {
		root.ForEach(func(key, item gjson.Result) bool {
			if key.String() == "" {
				return true
			}
			skills[key.String()] = parseLeaderSkill(item)
			return true
		})
	}

	return skills
}

func parseLeaderSkill(item gjson.Result) leaderSkill {
	prose := firstString(item, "description", "text", "name")

	var skillTags []string
	source := item.Get("derivedTags")
	if !source.IsArray() {
		source = item.Get("tags")
	}
	if source.IsArray() {
		for _, tag := range source.Array() {
			canonical := tags.Canonicalize(tag.String())
			if canonical != "" {
				skillTags = append(skillTags, canonical)
			}
		}
	}

	return leaderSkill{prose: prose, tags: skillTags}
}

func appendMissingTags(existing []string, extra []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, tag := range existing {
		seen[tag] = true
	}
	for _, tag := range extra {
		if !seen[tag] {
			existing = append(existing, tag)
			seen[tag] = true
		}
	}
	return existing
}
