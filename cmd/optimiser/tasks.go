package main

import (
	"database/sql"
	"time"

	"evertale-team-optimiser/internal/metrics"
	"evertale-team-optimiser/internal/models"
	"evertale-team-optimiser/internal/optimiser"

	"github.com/rs/zerolog/log"
)

type Task struct {
	Profile string
	Options optimiser.Options
}

type OptimiseResult struct {
	Task  Task
	Ok    bool
	Error error
}

func createOptimiseTasks(profiles []string, options optimiser.Options) []Task {
	tasks := make([]Task, 0, len(profiles))
	for _, profile := range profiles {
		tasks = append(tasks, Task{Profile: profile, Options: options})
	}

	return tasks
}

func processOptimiseTasks(db *sql.DB, tasks []Task, workerCount int) []OptimiseResult {
	taskCount := len(tasks)

	taskChan := make(chan Task, taskCount)
	resultChan := make(chan OptimiseResult, taskCount)
	doneChan := make(chan struct{})

	for i := 0; i < workerCount; i++ {
		log.Debug().Msgf("Creating worker %d", i)
		go optimiseProfiles(db, taskChan, resultChan, doneChan, i)
	}

	log.Debug().Msg("Queuing tasks")
	for i := 0; i < len(tasks); i++ {
		taskChan <- tasks[i]
	}
	log.Debug().Msgf("Queued %d tasks", len(tasks))

	close(taskChan)

	go func() {
		for i := 0; i < workerCount; i++ {
			<-doneChan
		}
		close(resultChan)
		close(doneChan)
	}()

	log.Debug().Msg("Collecting results")
	results := make([]OptimiseResult, 0, taskCount)
	for result := range resultChan {
		results = append(results, result)
	}

	return results
}

func optimiseProfiles(db *sql.DB, tasks <-chan Task, resultChan chan<- OptimiseResult, doneChan chan<- struct{}, workerId int) {
	for task := range tasks {
		log.Debug().Msgf("[Worker %d] Optimising profile %s", workerId, task.Profile)

		start := time.Now()
		units, err := models.GetOwnedUnits(db, task.Profile)
		if err != nil {
			log.Error().Err(err).Msgf("[Worker %d] Failed to get owned units for profile %s", workerId, task.Profile)
			metrics.ObserveRun("batch", "error", time.Since(start).Seconds())
			resultChan <- OptimiseResult{Task: task, Ok: false, Error: err}
			continue
		}

		if len(units) == 0 {
			log.Info().Msgf("[Worker %d] Profile %s owns no units, optimising over the full catalog", workerId, task.Profile)
			units, err = models.GetUnits(db)
			if err != nil {
				log.Error().Err(err).Msgf("[Worker %d] Failed to get units for profile %s", workerId, task.Profile)
				metrics.ObserveRun("batch", "error", time.Since(start).Seconds())
				resultChan <- OptimiseResult{Task: task, Ok: false, Error: err}
				continue
			}
		}

		result := optimiser.Optimise(units, task.Options)

		err = models.SaveLayout(db, task.Profile, result.Layout(), result.PresetKey)
		if err != nil {
			log.Error().Err(err).Msgf("[Worker %d] Failed to save layout for profile %s", workerId, task.Profile)
			metrics.ObserveRun("batch", "error", time.Since(start).Seconds())
			resultChan <- OptimiseResult{Task: task, Ok: false, Error: err}
			continue
		}

		metrics.ObserveRun("batch", "ok", time.Since(start).Seconds())
		log.Debug().Msgf("[Worker %d] Saved layout for profile %s (preset: %s)", workerId, task.Profile, result.PresetKey)

		resultChan <- OptimiseResult{Task: task, Ok: true, Error: nil}
	}

	doneChan <- struct{}{}
}
