package main

import (
	"github.com/hibiken/asynq"

	"freewriter/internal/config"
	"freewriter/internal/shared"
)

// queuePriorities weights the worker queues; maintenance runs are long and rare.
var queuePriorities = map[string]int{
	shared.QueueEmail:       6,
	shared.QueueDefault:     3,
	shared.QueueMaintenance: 1,
}

// healthAddr is where the worker answers liveness and readiness probes.
const healthAddr = ":9999"

func redisClientOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Host,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}
