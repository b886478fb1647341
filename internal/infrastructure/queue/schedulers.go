package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"freewriter/internal/config"
	"freewriter/internal/shared"
)

// MaintenanceLockTTL bounds how long a maintenance run holds its uniqueness lock.
const MaintenanceLockTTL = time.Hour

type Scheduler struct {
	scheduler *asynq.Scheduler
	cfg       config.WorkerConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, cfg config.WorkerConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		cfg:       cfg,
	}
}

// RegisterMaintenanceJobs schedules the nightly cover/PDF reconcile. No-op when the cron is empty.
func (s *Scheduler) RegisterMaintenanceJobs() error {
	if s.cfg.NightlyCron == "" {
		log.Info().Msg("Nightly maintenance disabled")
		return nil
	}

	for _, taskType := range []string{shared.TypeFixImages, shared.TypeFixPDFs} {
		if err := s.register(taskType); err != nil {
			return err
		}
	}
	return nil
}

// ================================================
// Fix images / fix PDFs (nightly)
// ================================================
func (s *Scheduler) register(taskType string) error {
	task, err := NewMaintenanceTask(taskType)
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(s.cfg.NightlyCron, task, MaintenanceOptions()...)
	if err != nil {
		log.Error().Err(err).Str("type", taskType).Msg("Failed to register maintenance job")
		return err
	}

	log.Info().Str("type", taskType).Str("cron", s.cfg.NightlyCron).Msg("Registered maintenance job")
	return nil
}

// NewMaintenancePayload is the one payload every producer sends for taskType.
func NewMaintenancePayload(taskType string) shared.MaintenancePayload {
	return shared.MaintenancePayload{Task: taskType}
}

func NewMaintenanceTask(taskType string) (*asynq.Task, error) {
	payload, err := json.Marshal(NewMaintenancePayload(taskType))
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, payload), nil
}

// MaintenanceOptions are shared by the scheduler and the maintenance CLI. Unique keeps a
// second copy of a job out of the queue; the retries cover a run that found its media
// pool locked by another job.
func MaintenanceOptions() []asynq.Option {
	return []asynq.Option{
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(3),
		asynq.Timeout(30 * time.Minute),
		asynq.Unique(MaintenanceLockTTL),
	}
}

// EmailOptions are used for welcome mails.
func EmailOptions() []asynq.Option {
	return []asynq.Option{
		asynq.Queue(shared.QueueEmail),
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
	}
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
