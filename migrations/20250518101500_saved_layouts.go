package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

func init() {
	goose.AddMigrationContext(upSavedLayouts, downSavedLayouts)
}

func upSavedLayouts(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		create table saved_layouts
		(
			profile varchar primary key,
			layout jsonb not null,
			preset_key varchar not null default '',
			updated_at timestamp with time zone not null default now()
		);`)
	if err != nil {
		_ = tx.Rollback()
		log.Fatal().Err(err).Msg("failed to create saved_layouts table")
		return err
	}

	return nil
}

func downSavedLayouts(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `drop table if exists saved_layouts;`)
	if err != nil {
		_ = tx.Rollback()
		log.Fatal().Err(err).Msg("failed to drop saved_layouts table")
		return err
	}

	return nil
}
