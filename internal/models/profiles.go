package models

import (
	"database/sql"
	"fmt"
)

// GetProfiles returns every profile that has at least one owned unit.
func GetProfiles(db *sql.DB) ([]string, error) {
	query := `select distinct profile from owned_units order by profile;`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []string
	for rows.Next() {
		var profile string
		if err := rows.Scan(&profile); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	return profiles, rows.Err()
}

func GetOwnedUnitIds(db *sql.DB, profile string) ([]string, error) {
	query := `select unit_id from owned_units where profile = $1 order by unit_id;`

	rows, err := db.Query(query, profile)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// GetOwnedUnits returns the canonical records for every unit the profile
// owns. Owned ids missing from the catalog are silently skipped.
func GetOwnedUnits(db *sql.DB, profile string) ([]UnitRecord, error) {
	query := `
		select u.unit_id, u.name, u.element, u.atk, u.hp, u.spd, u.cost, u.tags, u.leader_skill
		from owned_units o
			join units u on o.unit_id = u.unit_id
		where o.profile = $1
		order by u.unit_id;`

	rows, err := db.Query(query, profile)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUnitRows(rows)
}

// SetOwnedUnits replaces the profile's owned set with the given ids.
func SetOwnedUnits(db *sql.DB, profile string, ids []string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Exec(`delete from owned_units where profile = $1;`, profile)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		return err
	}

	for _, id := range ids {
		_, err = tx.Exec(`insert into owned_units (profile, unit_id) values ($1, $2) on conflict do nothing;`, profile, id)
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				return rollbackErr
			}
			return err
		}
	}

	return tx.Commit()
}
