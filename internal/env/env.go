package env

import (
	"os"
	"path/filepath"
	"strconv"

	"evertale-team-optimiser/internal/helpers"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Env struct {
	PgHost     string
	PgPort     string
	PgUser     string
	PgPassword string
	PgName     string
	// CatalogURL is the endpoint serving the community unit catalog as JSON.
	CatalogURL string
	// LeaderSkillsURL is the endpoint serving the scattered leader skill metadata.
	LeaderSkillsURL string
	// OptimiserPoolSizeFactor scales the worker pool relative to NumCPU.
	OptimiserPoolSizeFactor int
}

func Get() (Env, error) {
	projectRoot, err := helpers.GetProjectRoot()
	if err != nil {
		return Env{}, err
	}
	envFilePath := filepath.Join(projectRoot, ".env")

	err = godotenv.Load(envFilePath)
	if err != nil {
		return Env{}, err
	}

	env := Env{
		PgHost:                  os.Getenv("POSTGRES_HOST"),
		PgPort:                  os.Getenv("POSTGRES_PORT"),
		PgUser:                  os.Getenv("POSTGRES_USER"),
		PgPassword:              os.Getenv("POSTGRES_PASSWORD"),
		PgName:                  os.Getenv("POSTGRES_DB"),
		CatalogURL:              os.Getenv("CATALOG_URL"),
		LeaderSkillsURL:         os.Getenv("LEADER_SKILLS_URL"),
		OptimiserPoolSizeFactor: getIntEnv("OPTIMISER_POOL_SIZE_FACTOR", 2),
	}

	log.Info().Interface("env", env).Msg("Environment variables")

	return env, nil
}

func getIntEnv(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Msgf("Invalid value for %s: %s, using default %d", key, value, fallback)
		return fallback
	}

	return parsed
}
