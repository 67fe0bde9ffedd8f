// Package reindex rebuilds the recordings search index on a schedule. The
// rebuild clears the index and re-exports every recording with its joins,
// which also repairs entries whose objectID stamp was lost at write time.
package reindex

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/radiorasclat/api/internal/catalog"
	"github.com/radiorasclat/api/internal/errtrack"
)

// Lister fetches the full recording set with its references resolved.
type Lister interface {
	ListRecordings(ctx context.Context) ([]catalog.RecordingDetail, error)
}

// Target is the index side of the rebuild.
type Target interface {
	Clear(ctx context.Context) error
	SaveBatch(ctx context.Context, records []any) error
}

// Job owns the rebuild schedule.
type Job struct {
	store  Lister
	index  Target
	sink   errtrack.Sink
	logger *slog.Logger
	cron   *cron.Cron
}

// New wires a rebuild job. sink may be nil.
func New(store Lister, index Target, sink errtrack.Sink, logger *slog.Logger) *Job {
	if sink == nil {
		sink = errtrack.Nop{}
	}
	return &Job{
		store:  store,
		index:  index,
		sink:   sink,
		logger: logger.With(slog.String("job", "reindex")),
		cron:   cron.New(),
	}
}

// Run performs one rebuild: clear, then batch re-add.
func (j *Job) Run(ctx context.Context) error {
	start := time.Now()

	recordings, err := j.store.ListRecordings(ctx)
	if err != nil {
		return fmt.Errorf("listing recordings: %w", err)
	}

	if err := j.index.Clear(ctx); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}

	records := make([]any, 0, len(recordings))
	for i := range recordings {
		records = append(records, &recordings[i])
	}
	if err := j.index.SaveBatch(ctx, records); err != nil {
		return fmt.Errorf("re-adding recordings: %w", err)
	}

	j.logger.Info("index rebuilt",
		slog.Int("recordings", len(recordings)),
		slog.Duration("took", time.Since(start)))
	return nil
}

// Start schedules the rebuild with the given cron spec and launches the
// scheduler.
func (j *Job) Start(spec string) error {
	_, err := j.cron.AddFunc(spec, func() {
		if err := j.Run(context.Background()); err != nil {
			j.logger.Error("index rebuild failed", slog.Any("error", err))
			j.sink.Capture(err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling reindex job: %w", err)
	}
	j.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running rebuild to finish.
func (j *Job) Stop() {
	<-j.cron.Stop().Done()
}
