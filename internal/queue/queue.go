package queue

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Priority constants for queue entries
const (
	PriorityAPI   = 100 // User-requested via API
	PriorityBatch = 10  // Batch optimiser
)

// QueueStatus represents the status of a queue entry
type QueueStatus string

const (
	StatusQueued     QueueStatus = "Queued"
	StatusProcessing QueueStatus = "Processing"
	StatusCompleted  QueueStatus = "Completed"
	StatusFailed     QueueStatus = "Failed"
)

// QueueEntry represents one pending layout optimisation for a profile.
type QueueEntry struct {
	QueueID      int
	Profile      string
	PresetTag    string
	PresetMode   string
	Priority     int
	Status       QueueStatus
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
	ErrorMessage *string
}

// CreateQueueEntry adds a new optimisation job to the queue
func CreateQueueEntry(db *sql.DB, profile string, presetTag string, presetMode string, priority int) (int, error) {
	query := `INSERT INTO optimise_queue (
		profile,
		preset_tag,
		preset_mode,
		priority,
		status
	) VALUES ($1, $2, $3, $4, $5)
	RETURNING queue_id;`

	var queueID int
	err := db.QueryRow(
		query,
		profile,
		presetTag,
		presetMode,
		priority,
		StatusQueued,
	).Scan(&queueID)

	if err != nil {
		return -1, fmt.Errorf("failed to create queue entry: %w", err)
	}

	log.Info().Msgf("Created queue entry %d for profile %s with priority %d", queueID, profile, priority)
	return queueID, nil
}

// GetNextQueuedJob fetches the next pending job from the queue (highest priority first)
func GetNextQueuedJob(db *sql.DB) (*QueueEntry, error) {
	query := `
		SELECT
			queue_id,
			profile,
			preset_tag,
			preset_mode,
			priority,
			status,
			created_at,
			started_at,
			completed_at,
			error_message
		FROM optimise_queue
		WHERE status = $1
		ORDER BY priority DESC, created_at ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED;`

	row := db.QueryRow(query, StatusQueued)

	var entry QueueEntry
	err := row.Scan(
		&entry.QueueID,
		&entry.Profile,
		&entry.PresetTag,
		&entry.PresetMode,
		&entry.Priority,
		&entry.Status,
		&entry.CreatedAt,
		&entry.StartedAt,
		&entry.CompletedAt,
		&entry.ErrorMessage,
	)

	if err == sql.ErrNoRows {
		return nil, nil // No jobs available
	}

	if err != nil {
		return nil, fmt.Errorf("failed to fetch next queued job: %w", err)
	}

	return &entry, nil
}

// SetQueueProcessing marks a queue entry as being processed
func SetQueueProcessing(db *sql.DB, queueID int) error {
	query := `
		UPDATE optimise_queue
		SET status = $1, started_at = $2
		WHERE queue_id = $3;`

	_, err := db.Exec(query, StatusProcessing, time.Now(), queueID)
	if err != nil {
		return fmt.Errorf("failed to set queue entry %d as processing: %w", queueID, err)
	}

	log.Debug().Msgf("Queue entry %d marked as processing", queueID)
	return nil
}

// SetQueueCompleted marks a queue entry as completed
func SetQueueCompleted(db *sql.DB, queueID int) error {
	query := `
		UPDATE optimise_queue
		SET status = $1, completed_at = $2
		WHERE queue_id = $3;`

	_, err := db.Exec(query, StatusCompleted, time.Now(), queueID)
	if err != nil {
		return fmt.Errorf("failed to set queue entry %d as completed: %w", queueID, err)
	}

	log.Info().Msgf("Queue entry %d marked as completed", queueID)
	return nil
}

// SetQueueFailed marks a queue entry as failed with an error message
func SetQueueFailed(db *sql.DB, queueID int, errorMsg string) error {
	query := `
		UPDATE optimise_queue
		SET status = $1, completed_at = $2, error_message = $3
		WHERE queue_id = $4;`

	_, err := db.Exec(query, StatusFailed, time.Now(), errorMsg, queueID)
	if err != nil {
		return fmt.Errorf("failed to set queue entry %d as failed: %w", queueID, err)
	}

	log.Error().Msgf("Queue entry %d marked as failed: %s", queueID, errorMsg)
	return nil
}

// CheckQueueStatus checks if an optimisation for this profile is already
// queued or processing, so the API can avoid piling up duplicate jobs.
func CheckQueueStatus(db *sql.DB, profile string, presetTag string, presetMode string) (*QueueEntry, error) {
	query := `
		SELECT
			queue_id,
			profile,
			preset_tag,
			preset_mode,
			priority,
			status,
			created_at,
			started_at,
			completed_at,
			error_message
		FROM optimise_queue
		WHERE
			profile = $1
			AND preset_tag = $2
			AND preset_mode = $3
			AND status IN ($4, $5)
		ORDER BY created_at DESC
		LIMIT 1;`

	row := db.QueryRow(
		query,
		profile,
		presetTag,
		presetMode,
		StatusQueued,
		StatusProcessing,
	)

	var entry QueueEntry
	err := row.Scan(
		&entry.QueueID,
		&entry.Profile,
		&entry.PresetTag,
		&entry.PresetMode,
		&entry.Priority,
		&entry.Status,
		&entry.CreatedAt,
		&entry.StartedAt,
		&entry.CompletedAt,
		&entry.ErrorMessage,
	)

	if err == sql.ErrNoRows {
		return nil, nil // Not queued
	}

	if err != nil {
		return nil, fmt.Errorf("failed to check queue status: %w", err)
	}

	return &entry, nil
}
