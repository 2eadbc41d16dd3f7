package metrics

import (
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"pfxcrack/internal/core/domain"
)

// Collector samples host resource usage for each running search.
type Collector struct {
	mu             sync.RWMutex
	metrics        map[string]*domain.ResourceMetrics
	started        map[string]time.Time
	updateInterval time.Duration
}

func NewCollector(interval time.Duration) *Collector {
	return &Collector{
		metrics:        make(map[string]*domain.ResourceMetrics),
		started:        make(map[string]time.Time),
		updateInterval: interval,
	}
}

func (c *Collector) StartCollection(runID string) {
	c.mu.Lock()
	c.metrics[runID] = &domain.ResourceMetrics{
		LastUpdated: time.Now(),
	}
	c.started[runID] = time.Now()
	c.mu.Unlock()

	go c.collect(runID)
}

// StopCollection ends sampling and returns the last snapshot.
func (c *Collector) StopCollection(runID string) domain.ResourceMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	var last domain.ResourceMetrics
	if m, exists := c.metrics[runID]; exists {
		last = *m
	}
	delete(c.metrics, runID)
	delete(c.started, runID)
	return last
}

func (c *Collector) GetMetrics(runID string) *domain.ResourceMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if m, exists := c.metrics[runID]; exists {
		snapshot := *m
		return &snapshot
	}
	return nil
}

func (c *Collector) collect(runID string) {
	ticker := time.NewTicker(c.updateInterval)
	defer ticker.Stop()

	for {
		c.mu.RLock()
		if _, exists := c.metrics[runID]; !exists {
			c.mu.RUnlock()
			return
		}
		c.mu.RUnlock()

		c.sample(runID)
		<-ticker.C
	}
}

func (c *Collector) sample(runID string) {
	// interval 0 compares against the previous call instead of blocking
	cpuUsage, _ := cpu.Percent(0, false)
	vm, _ := mem.VirtualMemory()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.mu.Lock()
	defer c.mu.Unlock()

	metrics, exists := c.metrics[runID]
	if !exists {
		return
	}
	if len(cpuUsage) > 0 {
		metrics.CPUUsage = cpuUsage[0]
	}
	if vm != nil {
		metrics.SystemMemPct = vm.UsedPercent
	}
	metrics.MemoryUsageMB = int64(m.Alloc / 1024 / 1024)
	metrics.LastUpdated = time.Now()
}

func (c *Collector) UpdateAttempts(runID string, attempts int64, activeThreads int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	metrics, exists := c.metrics[runID]
	if !exists {
		return
	}
	metrics.TotalAttempts = attempts
	metrics.ActiveThreads = activeThreads
	if elapsed := time.Since(c.started[runID]).Seconds(); elapsed > 0 {
		metrics.AttemptsPerSec = int64(float64(attempts) / elapsed)
	}
}
