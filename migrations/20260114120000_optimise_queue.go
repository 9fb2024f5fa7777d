package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

func init() {
	goose.AddMigrationContext(upOptimiseQueue, downOptimiseQueue)
}

func upOptimiseQueue(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		create table optimise_queue
		(
			queue_id serial primary key,
			profile varchar not null,
			preset_tag varchar not null default '',
			preset_mode varchar not null default '',
			priority int not null default 10,
			status varchar not null check (status in ('Queued', 'Processing', 'Completed', 'Failed')),
			created_at timestamp with time zone not null default now(),
			started_at timestamp with time zone,
			completed_at timestamp with time zone,
			error_message text
		);`)
	if err != nil {
		_ = tx.Rollback()
		log.Fatal().Err(err).Msg("failed to create optimise_queue table")
		return err
	}

	// Create index for efficient queue polling (highest priority first, oldest first)
	_, err = tx.ExecContext(ctx, `
		create index idx_optimise_queue_polling on optimise_queue(status, priority desc, created_at asc)
		where status in ('Queued', 'Processing');`)
	if err != nil {
		_ = tx.Rollback()
		log.Fatal().Err(err).Msg("failed to create index on optimise_queue table")
		return err
	}

	// Create index for checking if a profile is already queued
	_, err = tx.ExecContext(ctx, `
		create index idx_optimise_queue_lookup on optimise_queue(profile, preset_tag, preset_mode, status);`)
	if err != nil {
		_ = tx.Rollback()
		log.Fatal().Err(err).Msg("failed to create lookup index on optimise_queue table")
		return err
	}

	return nil
}

func downOptimiseQueue(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `drop table if exists optimise_queue;`)
	if err != nil {
		_ = tx.Rollback()
		log.Fatal().Err(err).Msg("failed to drop optimise_queue table")
		return err
	}

	return nil
}
