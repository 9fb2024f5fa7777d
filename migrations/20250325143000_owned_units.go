package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

func init() {
	goose.AddMigrationContext(upOwnedUnits, downOwnedUnits)
}

func upOwnedUnits(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		create table owned_units
		(
			profile varchar not null,
			unit_id varchar not null,
			primary key (profile, unit_id)
		);`)
	if err != nil {
		_ = tx.Rollback()
		log.Fatal().Err(err).Msg("failed to create owned_units table")
		return err
	}

	_, err = tx.ExecContext(ctx, `
		create index idx_owned_units_profile on owned_units(profile);`)
	if err != nil {
		_ = tx.Rollback()
		log.Fatal().Err(err).Msg("failed to create index on owned_units table")
		return err
	}

	return nil
}

func downOwnedUnits(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `drop table if exists owned_units;`)
	if err != nil {
		_ = tx.Rollback()
		log.Fatal().Err(err).Msg("failed to drop owned_units table")
		return err
	}

	return nil
}
