package main

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"freewriter/internal/infrastructure/queue"
	"freewriter/pkg/container"
)

// asynqScheduler wraps queue.Scheduler with additional functionality
type asynqScheduler struct {
	*queue.Scheduler
}

// setupScheduler registers the nightly maintenance jobs and starts the scheduler
func setupScheduler(redisOpt asynq.RedisClientOpt, c *container.Container) *asynqScheduler {
	scheduler := queue.NewScheduler(redisOpt, c.Config.Worker)

	if err := scheduler.RegisterMaintenanceJobs(); err != nil {
		log.Fatal().Err(err).Msg("[Scheduler] Failed to register")
	}

	go func() {
		log.Info().Msg("[Scheduler] Starting...")
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("[Scheduler] Failed")
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

// Shutdown gracefully shuts down the scheduler
func (s *asynqScheduler) Shutdown() {
	log.Info().Msg("[Scheduler] Shutting down...")
	s.Scheduler.Shutdown()
	log.Info().Msg("[Scheduler] Stopped")
}
