package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"freewriter/internal/domains/matching"
	"freewriter/internal/shared"
)

// MaintenanceHandler runs the matching job named by the task type.
type MaintenanceHandler struct {
	service matching.Service
}

func NewMaintenanceHandler(service matching.Service) *MaintenanceHandler {
	return &MaintenanceHandler{service: service}
}

// TaskTypes lists the task types this handler must be registered for.
func (h *MaintenanceHandler) TaskTypes() []string {
	return []string{shared.TypeFixImages, shared.TypeFixPDFs, shared.TypeCreateBooks}
}

func (h *MaintenanceHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.MaintenancePayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			log.Error().Err(err).Str("type", task.Type()).Msg("Failed to unmarshal maintenance payload")
			return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	run, err := h.runner(task.Type())
	if err != nil {
		return err
	}

	log.Info().Str("type", task.Type()).Msg("Processing maintenance job")

	report, err := run(ctx)
	if errors.Is(err, matching.ErrJobRunning) {
		log.Info().Str("type", task.Type()).Msg("Media pool busy, retrying later")
	}
	if err != nil {
		return fmt.Errorf("%s: %w", task.Type(), err)
	}

	if w := task.ResultWriter(); w != nil {
		if raw, err := json.Marshal(report); err == nil {
			if _, err := w.Write(raw); err != nil {
				log.Warn().Err(err).Str("type", task.Type()).Msg("Failed to write maintenance report")
			}
		}
	}
	return nil
}

func (h *MaintenanceHandler) runner(taskType string) (func(context.Context) (*matching.Report, error), error) {
	switch taskType {
	case shared.TypeFixImages:
		return h.service.FixImages, nil
	case shared.TypeFixPDFs:
		return h.service.FixPDFs, nil
	case shared.TypeCreateBooks:
		return h.service.CreateBooksFromImages, nil
	default:
		return nil, fmt.Errorf("unknown maintenance task %q: %w", taskType, asynq.SkipRetry)
	}
}
