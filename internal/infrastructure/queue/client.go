package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// ErrDuplicateTask is returned when a unique task of the same type is still pending or running.
var ErrDuplicateTask = errors.New("task already queued")

// Enqueuer is what services use to hand work to the worker.
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error
}

// taskEnqueuer is the part of asynq.Client the wrapper needs.
type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Client wraps asynq.Client with JSON payloads.
type Client struct {
	client taskEnqueuer
}

func NewClient(redisAddr, password string, db int) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr, Password: password, DB: db}),
	}
}

func (c *Client) Enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", taskType, err)
	}

	info, err := c.client.EnqueueContext(ctx, asynq.NewTask(taskType, raw), opts...)
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) || errors.Is(err, asynq.ErrTaskIDConflict) {
			return fmt.Errorf("%s: %w", taskType, ErrDuplicateTask)
		}
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}

	log.Debug().
		Str("task_id", info.ID).
		Str("type", taskType).
		Str("queue", info.Queue).
		Msg("Task enqueued")
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
