package metrics

import (
	"log/slog"
	"runtime"
	"time"
)

type PerformanceMetrics struct {
	Duration     time.Duration
	AllocBytes   uint64
	AllocObjects uint64
	GCCycles     uint32
	Items        int
}

// CapturePerformance runs fn and records its wall time and allocations.
// items is the number of units fn processes, used for throughput.
func CapturePerformance(items int, fn func()) *PerformanceMetrics {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	startAlloc := stats.TotalAlloc
	startMallocs := stats.Mallocs
	startGC := stats.NumGC

	start := time.Now()
	fn()
	duration := time.Since(start)

	runtime.ReadMemStats(&stats)
	return &PerformanceMetrics{
		Duration:     duration,
		AllocBytes:   stats.TotalAlloc - startAlloc,
		AllocObjects: stats.Mallocs - startMallocs,
		GCCycles:     stats.NumGC - startGC,
		Items:        items,
	}
}

func (p *PerformanceMetrics) PerSecond() float64 {
	if p.Duration <= 0 {
		return 0
	}
	return float64(p.Items) / p.Duration.Seconds()
}

func (p *PerformanceMetrics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Duration("duration", p.Duration),
		slog.Int("items", p.Items),
		slog.Float64("perSecond", p.PerSecond()),
		slog.Uint64("allocBytes", p.AllocBytes),
		slog.Uint64("allocObjects", p.AllocObjects),
		slog.Uint64("gcCycles", uint64(p.GCCycles)),
	)
}
