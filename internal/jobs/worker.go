package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/cloo-solutions/movierec/internal/logging"
	"github.com/cloo-solutions/movierec/internal/metrics"
)

// Job is one unit of periodic background work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Worker runs a Job on a fixed interval until stopped
type Worker struct {
	job      Job
	interval time.Duration
	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once
}

// NewWorker creates a new Worker instance
func NewWorker(job Job, interval time.Duration) *Worker {
	return &Worker{
		job:      job,
		interval: interval,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start runs the polling loop and blocks until ctx is cancelled or Stop is called
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneChan)

	log := logging.With().Str("job", w.job.Name()).Logger()
	log.Info().Dur("interval", w.interval).Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("worker stopped: context cancelled")
			return
		case <-w.stopChan:
			log.Info().Msg("worker stopped: stop signal received")
			return
		case <-ticker.C:
			err := w.job.Run(ctx)
			metrics.RecordJobRun(w.job.Name(), err)
			if err != nil {
				log.Error().Err(err).Msg("job run failed")
			}
		}
	}
}

// Stop gracefully stops the worker and waits for the loop to exit
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
	<-w.doneChan
}
