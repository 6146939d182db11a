package stats

import (
	"context"
	"log"
	"time"
)

// SnapshotRunner defines the interface for taking one statistics snapshot
type SnapshotRunner interface {
	RunOnce(ctx context.Context) error
}

// Worker runs the collector on a fixed poll interval, for hosts where a
// cron/launchd entry is not available
type Worker struct {
	runner       SnapshotRunner
	pollInterval time.Duration
	stopChan     chan struct{}
	doneChan     chan struct{}
}

// NewWorker creates a new Worker instance
func NewWorker(runner SnapshotRunner, pollInterval time.Duration) *Worker {
	return &Worker{
		runner:       runner,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}
}

// Start begins the worker's polling loop
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	defer close(w.doneChan)

	log.Printf("stats worker started with poll interval: %v", w.pollInterval)

	for {
		select {
		case <-ctx.Done():
			log.Println("stats worker stopped: context cancelled")
			return
		case <-w.stopChan:
			log.Println("stats worker stopped: stop signal received")
			return
		case <-ticker.C:
			if err := w.runner.RunOnce(ctx); err != nil {
				log.Printf("Error collecting statistics: %v", err)
			}
		}
	}
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	close(w.stopChan)
	<-w.doneChan
	log.Println("stats worker shutdown complete")
}
