package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/aozora/internal/config"
	"github.com/dgallion1/aozora/internal/parser"
	"github.com/dgallion1/aozora/internal/render"
)

// Orchestrator manages the batch conversion pipeline.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	stats    *Stats
	log      *slog.Logger
	cfg      config.Config
	parse    parser.Options
	defaults render.Options

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, log *slog.Logger) (*Orchestrator, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		stats: NewStats(time.Hour),
		log:   log,
		cfg:   cfg,
		parse: parser.Options{
			RubyPolicy: policy,
			KeepHeader: !cfg.StripHeader,
		},
		defaults: render.Options{
			CSSFiles:       cfg.CSSFiles,
			GaijiImageDir:  cfg.GaijiImageDir,
			MidashiAnchors: cfg.MidashiAnchors,
			Metadata:       cfg.Metadata,
		},
	}, nil
}

// ParseOptions returns the parser settings the workers use.
func (o *Orchestrator) ParseOptions() parser.Options {
	return o.parse
}

// RenderDefaults returns the render settings jobs start from.
func (o *Orchestrator) RenderDefaults() render.Options {
	return o.defaults
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.log, o.parse, o.defaults, o.stats)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// ListJobs returns snapshots of every tracked job.
func (o *Orchestrator) ListJobs() []JobSnapshot {
	return o.jobs.List()
}

// DeleteJob forgets a job. A job still in the queue or being converted keeps
// running but its result is discarded.
func (o *Orchestrator) DeleteJob(id string) bool {
	return o.jobs.Delete(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns conversion latency over the last hour.
func (o *Orchestrator) Stats() StatsSnapshot {
	return o.stats.Snapshot()
}

// RecordLatency adds a conversion done outside the worker pool to the stats.
func (o *Orchestrator) RecordLatency(d time.Duration) {
	o.stats.Record(d.Milliseconds())
}
