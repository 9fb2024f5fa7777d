package main

import (
	"database/sql"
	"runtime"
	"sync"
	"time"

	"evertale-team-optimiser/internal/cli"
	"evertale-team-optimiser/internal/db"
	"evertale-team-optimiser/internal/env"
	"evertale-team-optimiser/internal/metrics"
	"evertale-team-optimiser/internal/models"
	"evertale-team-optimiser/internal/optimiser"
	"evertale-team-optimiser/internal/queue"

	"github.com/rs/zerolog/log"
)

func main() {
	flags := cli.GetFlags()
	cli.SetLogLevel(flags.LogLevel)

	environment, err := env.Get()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get environment variables")
	}

	dbClient, err := db.CreateTeamOptimiserDBClient(environment)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to db")
	}

	workerCount := runtime.NumCPU() * environment.OptimiserPoolSizeFactor
	log.Info().Msgf("Starting queue processor with %d workers", workerCount)

	processQueue(dbClient.Conn, workerCount)
}

// QueueJob represents a job to be processed
type QueueJob struct {
	Entry *queue.QueueEntry
}

// processQueue continuously polls for and processes queued optimise requests
func processQueue(db *sql.DB, workerCount int) {
	inputChan := make(chan QueueJob, workerCount*2)
	wg := sync.WaitGroup{}

	// Start worker pool
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go worker(db, inputChan, &wg)
	}

	// Polling loop
	log.Info().Msg("Queue processor started, polling for jobs...")
	pollInterval := 2 * time.Second

	for {
		entry, err := queue.GetNextQueuedJob(db)
		if err != nil {
			log.Error().Err(err).Msg("Failed to fetch next queued job")
			time.Sleep(pollInterval)
			continue
		}

		if entry == nil {
			// No jobs available, wait before polling again
			log.Debug().Msg("No jobs in queue, waiting...")
			time.Sleep(pollInterval)
			continue
		}

		log.Info().Msgf("Found queued job %d for profile %s", entry.QueueID, entry.Profile)

		inputChan <- QueueJob{Entry: entry}
	}
}

// worker processes queue jobs
func worker(db *sql.DB, inputChan chan QueueJob, wg *sync.WaitGroup) {
	defer wg.Done()

	for job := range inputChan {
		entry := job.Entry
		log.Info().Msgf("Processing queue entry %d for profile %s", entry.QueueID, entry.Profile)

		err := queue.SetQueueProcessing(db, entry.QueueID)
		if err != nil {
			log.Error().Err(err).Msgf("Failed to mark queue entry %d as processing", entry.QueueID)
			continue
		}

		units, err := models.GetOwnedUnits(db, entry.Profile)
		if err != nil {
			log.Error().Err(err).Msgf("Failed to get owned units for queue entry %d", entry.QueueID)
			failJob(db, entry.QueueID, err)
			continue
		}

		if len(units) == 0 {
			log.Info().Msgf("Profile %s owns no units, optimising over the full catalog", entry.Profile)
			units, err = models.GetUnits(db)
			if err != nil {
				log.Error().Err(err).Msgf("Failed to get units for queue entry %d", entry.QueueID)
				failJob(db, entry.QueueID, err)
				continue
			}
		}

		options := optimiser.Options{
			PresetTag:  entry.PresetTag,
			PresetMode: entry.PresetMode,
		}

		start := time.Now()
		result := optimiser.Optimise(units, options)
		metrics.ObserveRun("queue", "ok", time.Since(start).Seconds())

		log.Info().Msgf("Optimisation complete for queue entry %d (preset: %s)", entry.QueueID, result.PresetKey)

		err = models.SaveLayout(db, entry.Profile, result.Layout(), result.PresetKey)
		if err != nil {
			log.Error().Err(err).Msgf("Failed to save layout for queue entry %d", entry.QueueID)
			failJob(db, entry.QueueID, err)
			continue
		}

		err = queue.SetQueueCompleted(db, entry.QueueID)
		if err != nil {
			log.Error().Err(err).Msgf("Failed to mark queue entry %d as completed", entry.QueueID)
			continue
		}

		metrics.QueueJobs.WithLabelValues("completed").Inc()
		log.Info().Msgf("Queue entry %d completed successfully", entry.QueueID)
	}
}

func failJob(db *sql.DB, queueID int, jobErr error) {
	err := queue.SetQueueFailed(db, queueID, jobErr.Error())
	if err != nil {
		log.Error().Err(err).Msgf("Failed to mark queue entry %d as failed", queueID)
	}

	metrics.QueueJobs.WithLabelValues("failed").Inc()
}
