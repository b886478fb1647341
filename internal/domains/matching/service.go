package matching

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

// Job names, also used as cmd/maintenance subcommands.
const (
	JobFixImages   = "fix-images"
	JobFixPDFs     = "fix-pdfs"
	JobCreateBooks = "create-books"
)

// Media pools. A job locks every pool it draws files from, so two jobs sharing
// a pool never run at the same time.
const (
	PoolImages = "images"
	PoolPDFs   = "pdfs"
)

// ErrJobRunning is returned when another run holds one of the job's pools.
var ErrJobRunning = errors.New("another maintenance job is using the media pool")

// JobPools lists the pools a job draws from, in lock order.
func JobPools(job string) []string {
	switch job {
	case JobFixImages:
		return []string{PoolImages}
	case JobFixPDFs:
		return []string{PoolPDFs}
	case JobCreateBooks:
		return []string{PoolImages, PoolPDFs}
	default:
		return nil
	}
}

// Report summarises one maintenance run.
type Report struct {
	Job       string   `json:"job"`
	Processed int      `json:"processed"`
	Created   int      `json:"created"`
	Linked    int      `json:"linked"`
	Fallback  int      `json:"fallback"`
	Unmatched int      `json:"unmatched"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Unused    []string `json:"unused"`
}

func NewReport(job string) *Report {
	return &Report{Job: job, Unused: []string{}}
}

// Changed reports whether the run wrote anything the catalog caches may hold.
func (r *Report) Changed() bool {
	return r.Created+r.Linked+r.Fallback > 0
}

func (r *Report) Log() {
	log.Info().
		Str("job", r.Job).
		Int("processed", r.Processed).
		Int("created", r.Created).
		Int("linked", r.Linked).
		Int("fallback", r.Fallback).
		Int("unmatched", r.Unmatched).
		Int("skipped", r.Skipped).
		Int("failed", r.Failed).
		Strs("unused", r.Unused).
		Msg("maintenance job finished")
}

// Service runs the media maintenance jobs. Jobs sharing a pool are serialised
// through a lock; a job that finds its pool busy fails with ErrJobRunning.
type Service interface {
	// FixImages attaches a matched cover to every book without one.
	FixImages(ctx context.Context) (*Report, error)

	// FixPDFs attaches a matched PDF to every book without one, or the fallback link.
	FixPDFs(ctx context.Context) (*Report, error)

	// CreateBooksFromImages creates one book per image whose derived slug is new.
	CreateBooksFromImages(ctx context.Context) (*Report, error)
}
