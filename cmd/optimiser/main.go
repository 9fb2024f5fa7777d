package main

import (
	"runtime"

	"evertale-team-optimiser/internal/cli"
	"evertale-team-optimiser/internal/db"
	"evertale-team-optimiser/internal/doctrine"
	"evertale-team-optimiser/internal/env"
	"evertale-team-optimiser/internal/models"
	"evertale-team-optimiser/internal/optimiser"

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

	if flags.PurgeLayouts {
		log.Info().Msg("Purging saved layouts.")
		err = models.PurgeLayouts(dbClient.Conn)
		if err != nil {
			log.Error().Err(err).Msg("Failed to purge saved layouts.")
		}
		log.Info().Msg("Layouts purged.")
	}

	var overrides map[string]interface{}
	if flags.DoctrineFile != "" {
		overrides, err = doctrine.LoadOverridesFile(flags.DoctrineFile)
		if err != nil {
			log.Warn().Err(err).Msgf("Failed to load doctrine file %s, running with defaults", flags.DoctrineFile)
			overrides = nil
		}
	}

	var profiles []string
	if flags.Profile != "" {
		profiles = []string{flags.Profile}
	} else if flags.TestRun {
		log.Info().Msg("Using test profile")
		profiles = []string{"default"}
	} else {
		log.Info().Msg("Fetching profiles")
		profiles, err = models.GetProfiles(dbClient.Conn)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get profiles")
		}
		if len(profiles) == 0 {
			log.Info().Msg("No profiles with owned units, optimising the default profile over the full catalog")
			profiles = []string{"default"}
		}
	}

	log.Info().Msgf("Optimising %d profiles", len(profiles))

	options := optimiser.Options{
		PresetTag:         flags.PresetTag,
		PresetMode:        flags.PresetMode,
		DoctrineOverrides: overrides,
	}

	tasks := createOptimiseTasks(profiles, options)

	maxWorkerCount := runtime.NumCPU() * environment.OptimiserPoolSizeFactor
	var workerCount int
	if len(tasks) > maxWorkerCount {
		workerCount = maxWorkerCount
	} else {
		workerCount = len(tasks)
	}

	log.Info().Msgf("Worker pool size: %d", workerCount)
	results := processOptimiseTasks(dbClient.Conn, tasks, workerCount)

	failed := 0
	for _, result := range results {
		if !result.Ok {
			failed++
		}
	}
	log.Info().Msgf("Optimiser done. %d profiles optimised, %d failed.", len(results)-failed, failed)
}
