package models

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// UnitStats are the battle stats used for scoring. Cost defaults to 1 when
// the catalog omits it so efficiency terms never divide by zero.
type UnitStats struct {
	Atk  float64 `json:"atk"`
	Hp   float64 `json:"hp"`
	Spd  float64 `json:"spd"`
	Cost float64 `json:"cost"`
}

// UnitRecord is the canonical unit shape every downstream component consumes.
// The catalog importer is the only place allowed to deal with the raw
// duck-typed payloads; past that boundary a unit always looks like this.
type UnitRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Element     string    `json:"element"`
	Stats       UnitStats `json:"stats"`
	Tags        []string  `json:"tags"`
	LeaderSkill string    `json:"leader_skill"`
}

func UpsertUnit(tx *sql.Tx, unit UnitRecord) error {
	tagsJSON, err := json.Marshal(unit.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags for unit %s: %w", unit.ID, err)
	}

	query := `INSERT INTO units (
			unit_id,
			name,
			element,
			atk,
			hp,
			spd,
			cost,
			tags,
			leader_skill
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (unit_id) DO UPDATE SET
			name = $2,
			element = $3,
			atk = $4,
			hp = $5,
			spd = $6,
			cost = $7,
			tags = $8,
			leader_skill = $9;`
	_, err = tx.Exec(query, unit.ID, unit.Name, unit.Element, unit.Stats.Atk, unit.Stats.Hp, unit.Stats.Spd, unit.Stats.Cost, tagsJSON, unit.LeaderSkill)
	if err != nil {
		return err
	}

	return nil
}

func UpsertManyUnit(tx *sql.Tx, units []UnitRecord) error {
	for i := 0; i < len(units); i++ {
		err := UpsertUnit(tx, units[i])
		if err != nil {
			return err
		}
		log.Debug().Msgf("Upserted unit: ID: %s, Name: %s", units[i].ID, units[i].Name)
	}

	return nil
}

func scanUnitRows(rows *sql.Rows) ([]UnitRecord, error) {
	units := make([]UnitRecord, 0)
	for rows.Next() {
		unit := UnitRecord{}
		var tagsStr string
		err := rows.Scan(&unit.ID, &unit.Name, &unit.Element, &unit.Stats.Atk, &unit.Stats.Hp, &unit.Stats.Spd, &unit.Stats.Cost, &tagsStr, &unit.LeaderSkill)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(tagsStr), &unit.Tags); err != nil {
			return nil, err
		}

		units = append(units, unit)
	}

	return units, rows.Err()
}

func GetUnits(db *sql.DB) ([]UnitRecord, error) {
	query := `
		select unit_id, name, element, atk, hp, spd, cost, tags, leader_skill
		from units
		order by unit_id;`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUnitRows(rows)
}

func GetUnitById(db *sql.DB, id string) (*UnitRecord, error) {
	query := `
		select unit_id, name, element, atk, hp, spd, cost, tags, leader_skill
		from units
		where unit_id = $1;`

	rows, err := db.Query(query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	units, err := scanUnitRows(rows)
	if err != nil {
		return nil, err
	}

	if len(units) == 0 {
		msg := fmt.Sprintf("No results for %s", id)
		return nil, errors.New(msg)
	}

	return &units[0], nil
}

func GetAllUnitIds(db *sql.DB) ([]string, error) {
	query := `select unit_id from units order by unit_id;`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		err := rows.Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func PurgeUnits(db *sql.DB) error {
	_, err := db.Exec(`DELETE FROM units;`)
	if err != nil {
		return err
	}

	return nil
}
