package main

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"freewriter/pkg/cache"
)

// busyRetryDelay spaces out retries of a maintenance job whose media pool is locked.
const busyRetryDelay = 10 * time.Minute

// asynqServer wraps asynq.Server with additional functionality
type asynqServer struct {
	*asynq.Server
}

// setupAsynqServer creates the server, registers the handlers and starts processing
func setupAsynqServer(redisOpt asynq.RedisClientOpt, concurrency int, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Queues:      queuePriorities,
			Concurrency: concurrency,
			RetryDelayFunc: retryDelay,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("type", task.Type()).Msg("[Asynq] Task failed")
			}),
		},
	)

	go func() {
		log.Info().Int("concurrency", concurrency).Msg("[Worker] Starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("[Worker] Failed")
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown waits for in-flight tasks up to the server's shutdown timeout
func (s *asynqServer) Shutdown() {
	log.Info().Msg("[Worker] Shutting down...")
	s.Server.Shutdown()
	log.Info().Msg("[Worker] Gracefully stopped")
}

// retryDelay waits for the running job to finish instead of backing off by seconds.
func retryDelay(n int, err error, task *asynq.Task) time.Duration {
	if errors.Is(err, cache.ErrLocked) {
		return busyRetryDelay
	}
	return asynq.DefaultRetryDelayFunc(n, err, task)
}
