package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

func init() {
	goose.AddMigrationContext(upUnits, downUnits)
}

func upUnits(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		create table units
		(
			unit_id varchar primary key,
			name varchar not null,
			element varchar not null default '',
			atk double precision not null default 0,
			hp double precision not null default 0,
			spd double precision not null default 0,
			cost double precision not null default 1,
			tags jsonb not null default '[]',
			leader_skill text not null default ''
		);`)
	if err != nil {
		_ = tx.Rollback()
		log.Fatal().Err(err).Msg("failed to create units table")
		return err
	}

	return nil
}

func downUnits(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `drop table if exists units;`)
	if err != nil {
		_ = tx.Rollback()
		log.Fatal().Err(err).Msg("failed to drop units table")
		return err
	}

	return nil
}
