package concurrency

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"pfxcrack/internal/core/domain"
)

const DefaultMetricsInterval = time.Second

// Task is the body run by every worker over its own partition. Returning an
// error cancels the context handed to all sibling workers.
type Task func(ctx context.Context, w *Worker) error

// WorkerPool runs a fixed set of workers, one per partition, started together
// and joined together.
type WorkerPool struct {
	workers    []*Worker
	numWorkers int
	metrics    *PoolMetrics
	interval   time.Duration
	startTime  time.Time
	endTime    time.Time
	mu         sync.RWMutex
	stop       chan struct{}
}

type Worker struct {
	id        int
	partition domain.Partition
	metrics   *WorkerMetrics
	isWorking atomic.Bool
}

// PoolMetrics is refreshed on every metrics tick and once more when Run
// returns.
type PoolMetrics struct {
	ActiveWorkers  int
	CompletedTasks int64
	mu             sync.RWMutex
}

type WorkerMetrics struct {
	attempts atomic.Int64
	skipped  atomic.Int64
}

func NewWorkerPool(partitions []domain.Partition) *WorkerPool {
	pool := &WorkerPool{
		workers:    make([]*Worker, len(partitions)),
		numWorkers: len(partitions),
		metrics:    &PoolMetrics{},
		interval:   DefaultMetricsInterval,
		stop:       make(chan struct{}),
	}

	for i, part := range partitions {
		pool.workers[i] = &Worker{
			id:        i,
			partition: part,
			metrics:   &WorkerMetrics{},
		}
	}

	return pool
}

func (p *WorkerPool) Size() int {
	return p.numWorkers
}

// Run blocks until every worker has returned. The first worker error wins.
func (p *WorkerPool) Run(ctx context.Context, task Task) error {
	p.mu.Lock()
	p.startTime = time.Now()
	p.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, worker := range p.workers {
		w := worker
		g.Go(func() error {
			return w.start(gctx, task)
		})
	}

	go p.collectMetrics(ctx)

	err := g.Wait()
	close(p.stop)
	p.mu.Lock()
	p.endTime = time.Now()
	p.mu.Unlock()
	p.updatePoolMetrics()
	return err
}

func (w *Worker) start(ctx context.Context, task Task) error {
	w.isWorking.Store(true)
	defer w.isWorking.Store(false)

	return task(ctx, w)
}

func (w *Worker) ID() int {
	return w.id
}

func (w *Worker) Partition() domain.Partition {
	return w.partition
}

// RecordAttempt counts one candidate handed to the probe.
func (w *Worker) RecordAttempt() {
	w.metrics.attempts.Add(1)
}

// RecordSkip counts one candidate rejected by the prefilter.
func (w *Worker) RecordSkip() {
	w.metrics.skipped.Add(1)
}

func (w *Worker) Attempts() int64 {
	return w.metrics.attempts.Load()
}

// Attempts is live: it sums the worker counters directly.
func (p *WorkerPool) Attempts() int64 {
	var total int64
	for _, w := range p.workers {
		total += w.metrics.attempts.Load()
	}
	return total
}

func (p *WorkerPool) Skipped() int64 {
	var total int64
	for _, w := range p.workers {
		total += w.metrics.skipped.Load()
	}
	return total
}

func (p *WorkerPool) ActiveWorkers() int {
	active := 0
	for _, w := range p.workers {
		if w.isWorking.Load() {
			active++
		}
	}
	return active
}

func (p *WorkerPool) GetMetrics() domain.ResourceMetrics {
	p.metrics.mu.RLock()
	defer p.metrics.mu.RUnlock()

	return domain.ResourceMetrics{
		ActiveThreads:  p.metrics.ActiveWorkers,
		AttemptsPerSec: p.calculateAttemptsPerSecond(),
		TotalAttempts:  p.metrics.CompletedTasks,
		LastUpdated:    time.Now(),
	}
}

func (p *WorkerPool) collectMetrics(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
			p.updatePoolMetrics()
		}
	}
}

func (p *WorkerPool) updatePoolMetrics() {
	p.metrics.mu.Lock()
	p.metrics.ActiveWorkers = p.ActiveWorkers()
	p.metrics.CompletedTasks = p.Attempts()
	p.metrics.mu.Unlock()
}

// calculateAttemptsPerSecond uses the wall time of Run, not summed worker
// time. While Run is in progress the window ends now.
func (p *WorkerPool) calculateAttemptsPerSecond() int64 {
	p.mu.RLock()
	started, ended := p.startTime, p.endTime
	p.mu.RUnlock()

	if started.IsZero() {
		return 0
	}
	if ended.IsZero() {
		ended = time.Now()
	}
	elapsed := ended.Sub(started).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return int64(float64(p.metrics.CompletedTasks) / elapsed)
}
