package service

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/ksuid"

	"pfxcrack/internal/core/algorithm"
	"pfxcrack/internal/core/domain"
	"pfxcrack/internal/core/prefilter"
	"pfxcrack/internal/pkg/concurrency"
	"pfxcrack/internal/pkg/metrics"
	"pfxcrack/internal/port"
)

const (
	DefaultBatchSize      = 512
	MetricsUpdateInterval = time.Second
)

// CrackingService coordinates one exhaustive search at a time:
// IDLE -> PARTITIONING -> RUNNING -> FOUND | EXHAUSTED | FAILED | CANCELLED.
type CrackingService struct {
	probe     port.Probe
	prefilter port.Prefilter
	metrics   *metrics.Collector

	running atomic.Bool
	mu      sync.RWMutex
	state   domain.SearchState
	runID   string
	space   algorithm.Algorithm
	pool    *concurrency.WorkerPool
	started time.Time
}

func NewCrackingService(probe port.Probe, filter port.Prefilter) *CrackingService {
	if filter == nil {
		filter = prefilter.Noop{}
	}
	return &CrackingService{
		probe:     probe,
		prefilter: filter,
		metrics:   metrics.NewCollector(MetricsUpdateInterval),
		state:     domain.StateIdle,
	}
}

func (s *CrackingService) State() domain.SearchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *CrackingService) setState(state domain.SearchState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	slog.Debug("search state", "state", state)
}

// Crack runs the search to a terminal state. A setup problem or a fatal probe
// error returns a nil report and the error. Otherwise the report carries
// FOUND, EXHAUSTED or CANCELLED.
func (s *CrackingService) Crack(ctx context.Context, settings domain.CrackingSettings) (*domain.RunReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, domain.ErrSearchRunning
	}
	defer s.running.Store(false)

	runID := ksuid.New().String()
	startTime := time.Now()

	s.setState(domain.StatePartitioning)
	space, err := newSpace(settings)
	if err != nil {
		s.setState(domain.StateFailed)
		return nil, err
	}

	workers := settings.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	pool := concurrency.NewWorkerPool(space.Partitions(workers))
	result := NewResult()

	s.mu.Lock()
	s.runID = runID
	s.space = space
	s.pool = pool
	s.started = startTime
	s.mu.Unlock()

	s.metrics.StartCollection(runID)
	done := make(chan struct{})
	go s.trackAttempts(runID, pool, done)

	slog.Info("search started",
		"run", runID,
		"candidates", space.Size(),
		"workers", pool.Size(),
		"prefilter", s.prefilterName())

	var interrupted atomic.Bool
	s.setState(domain.StateRunning)
	runErr := pool.Run(ctx, s.searchTask(space, result, settings.BatchSize, &interrupted))
	close(done)
	poolMetrics := pool.GetMetrics()
	s.metrics.UpdateAttempts(runID, poolMetrics.TotalAttempts, poolMetrics.ActiveThreads)
	resources := s.metrics.StopCollection(runID)
	resources.AttemptsPerSec = poolMetrics.AttemptsPerSec

	if runErr != nil {
		s.setState(domain.StateFailed)
		slog.Error("search failed", "run", runID, "error", runErr)
		return nil, runErr
	}

	res := result.Snapshot()
	state := domain.StateExhausted
	switch {
	case res.Found:
		state = domain.StateFound
	case interrupted.Load():
		state = domain.StateCancelled
	}
	s.setState(state)

	endTime := time.Now()
	report := &domain.RunReport{
		RunID:     runID,
		State:     state,
		Result:    res,
		Charset:   space.Charset().String(),
		MinLength: settings.MinLength,
		MaxLength: settings.MaxLength,
		Workers:   pool.Size(),
		SpaceSize: space.Size(),
		Attempts:  uint64(pool.Attempts()),
		Skipped:   uint64(pool.Skipped()),
		Prefilter: s.prefilterName(),
		StartTime: startTime,
		EndTime:   endTime,
		TimeTaken: endTime.Sub(startTime),
		Resources: resources,
	}
	if state == domain.StateCancelled && ctx.Err() != nil {
		report.ErrMessage = ctx.Err().Error()
	}

	slog.Info("search finished",
		"run", runID,
		"state", state,
		"attempts", report.Attempts,
		"skipped", report.Skipped,
		"elapsed", report.TimeTaken)
	return report, nil
}

func newSpace(settings domain.CrackingSettings) (*algorithm.BruteForce, error) {
	charset, err := algorithm.NewCharset(settings.Charset)
	if err != nil {
		return nil, err
	}
	return algorithm.NewBruteForce(charset, settings.MinLength, settings.MaxLength)
}

// searchTask walks one partition in index order. The found flag and the
// context are polled before every probe, so a worker overruns a success by at
// most one probe call. A worker that stops on the context with candidates
// left sets interrupted.
func (s *CrackingService) searchTask(space algorithm.Algorithm, result *Result, batchSize int, interrupted *atomic.Bool) concurrency.Task {
	screening := s.prefilter.Available()
	if !screening {
		batchSize = 1
	} else if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return func(ctx context.Context, w *concurrency.Worker) error {
		cur := space.Iterate(w.Partition())
		batch := make([]string, 0, batchSize)

		for {
			batch = batch[:0]
			for len(batch) < batchSize {
				_, candidate, ok := cur.Next()
				if !ok {
					break
				}
				batch = append(batch, candidate)
			}
			if len(batch) == 0 {
				return nil
			}

			var verdicts []bool
			if screening {
				verdicts = s.prefilter.Screen(batch)
			}

			for i, candidate := range batch {
				if result.IsFound() {
					return nil
				}
				if ctx.Err() != nil {
					interrupted.Store(true)
					return nil
				}
				if i < len(verdicts) && !verdicts[i] {
					w.RecordSkip()
					continue
				}

				w.RecordAttempt()
				ok, err := s.probe.Try(candidate)
				if err != nil {
					return fmt.Errorf("worker %d: %w", w.ID(), err)
				}
				if ok {
					if result.TryReportSuccess(candidate) {
						slog.Debug("worker reported success", "worker", w.ID())
					}
					return nil
				}
			}
		}
	}
}

func (s *CrackingService) trackAttempts(runID string, pool *concurrency.WorkerPool, done <-chan struct{}) {
	ticker := time.NewTicker(MetricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			pm := pool.GetMetrics()
			s.metrics.UpdateAttempts(runID, pm.TotalAttempts, pm.ActiveThreads)
			if m := s.metrics.GetMetrics(runID); m != nil {
				slog.Debug("search metrics",
					"run", runID,
					"attempts", m.TotalAttempts,
					"attempts_per_sec", m.AttemptsPerSec,
					"workers", m.ActiveThreads,
					"cpu", m.CPUUsage,
					"mem_mb", m.MemoryUsageMB)
			}
		}
	}
}

func (s *CrackingService) prefilterName() string {
	if !s.prefilter.Available() {
		return prefilter.Noop{}.Name()
	}
	return s.prefilter.Name()
}

// GetProgress is safe to call from any goroutine while Crack runs.
func (s *CrackingService) GetProgress() domain.JobProgress {
	s.mu.RLock()
	runID, space, pool, started, state := s.runID, s.space, s.pool, s.started, s.state
	s.mu.RUnlock()

	progress := domain.JobProgress{RunID: runID, State: state}
	if space == nil || pool == nil {
		return progress
	}

	attempts := uint64(pool.Attempts())
	skipped := uint64(pool.Skipped())
	progress.Attempts = attempts
	progress.Screened = attempts + skipped
	progress.Total = space.Size()
	progress.Progress = float64(attempts+skipped) / float64(space.Size()) * 100
	progress.ActiveThreads = pool.ActiveWorkers()
	if elapsed := time.Since(started).Seconds(); elapsed > 0 {
		progress.Speed = int64(float64(attempts) / elapsed)
	}
	return progress
}
