package teams_router

import (
	"database/sql"
	"time"

	"evertale-team-optimiser/internal/metrics"
	"evertale-team-optimiser/internal/models"
	"evertale-team-optimiser/internal/optimiser"
	"evertale-team-optimiser/internal/queue"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type OptimiseRequest struct {
	optimiser.Options
	Profile string `json:"profile"`
	Save    bool   `json:"save"`
}

type QueueRequest struct {
	Profile    string `json:"profile"`
	PresetTag  string `json:"preset_tag"`
	PresetMode string `json:"preset_mode"`
}

type QueueResponse struct {
	QueueID int               `json:"queueId"`
	Status  queue.QueueStatus `json:"status"`
}

func Bind(e *echo.Group, db *sql.DB) *echo.Group {
	e.POST("/optimise", func(c echo.Context) error {
		request := OptimiseRequest{}
		if err := c.Bind(&request); err != nil {
			return c.String(400, err.Error())
		}

		units, err := poolForProfile(db, request.Profile)
		if err != nil {
			log.Error().Err(err).Msgf("Failed to get units for profile %s", request.Profile)
			return c.String(500, err.Error())
		}

		start := time.Now()
		result := optimiser.Optimise(units, request.Options)
		metrics.ObserveRun("api", "ok", time.Since(start).Seconds())

		if request.Save && request.Profile != "" {
			err = models.SaveLayout(db, request.Profile, result.Layout(), result.PresetKey)
			if err != nil {
				log.Error().Err(err).Msgf("Failed to save layout for profile %s", request.Profile)
				return c.String(500, err.Error())
			}
		}

		return c.JSON(200, result)
	})

	e.GET("/layout/:profile", func(c echo.Context) error {
		profile := c.Param("profile")

		layout, err := models.GetLayoutByProfile(db, profile)
		if err != nil {
			log.Error().Err(err).Msgf("Failed to get layout for profile %s", profile)
			return c.String(500, err.Error())
		}
		if layout == nil {
			return c.String(404, "No layout saved for profile")
		}

		return c.JSON(200, layout)
	})

	e.POST("/optimise/queue", func(c echo.Context) error {
		request := QueueRequest{}
		if err := c.Bind(&request); err != nil {
			return c.String(400, err.Error())
		}
		if request.Profile == "" {
			return c.String(400, "profile is required")
		}

		pending, err := queue.CheckQueueStatus(db, request.Profile, request.PresetTag, request.PresetMode)
		if err != nil {
			log.Error().Err(err).Msg("Failed to check queue status")
			return c.String(500, err.Error())
		}
		if pending != nil {
			return c.JSON(200, QueueResponse{QueueID: pending.QueueID, Status: pending.Status})
		}

		queueID, err := queue.CreateQueueEntry(db, request.Profile, request.PresetTag, request.PresetMode, queue.PriorityAPI)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create queue entry")
			return c.String(500, err.Error())
		}

		return c.JSON(202, QueueResponse{QueueID: queueID, Status: queue.StatusQueued})
	})

	return e
}

func poolForProfile(db *sql.DB, profile string) ([]models.UnitRecord, error) {
	if profile == "" {
		return models.GetUnits(db)
	}

	units, err := models.GetOwnedUnits(db, profile)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		log.Info().Msgf("Profile %s owns no units, optimising over the full catalog", profile)
		return models.GetUnits(db)
	}
	return units, nil
}
