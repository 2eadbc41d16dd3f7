package accel

import (
	"fmt"
	"hash/fnv"
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"golang.org/x/sync/errgroup"

	"pfxcrack/internal/core/domain"
)

// minChunk keeps tiny batches from being split across goroutines.
const minChunk = 64

// Fnv1a32 is the digest the accelerated path computes per candidate.
func Fnv1a32(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// ParallelDevice hashes a batch by sharding it over goroutines, one shard per
// logical core.
type ParallelDevice struct {
	name  string
	lanes int
}

func NewParallelDevice(name string, lanes int) *ParallelDevice {
	if lanes < 1 {
		lanes = 1
	}
	return &ParallelDevice{name: name, lanes: lanes}
}

func (d *ParallelDevice) Name() string {
	return d.name
}

func (d *ParallelDevice) Lanes() int {
	return d.lanes
}

func (d *ParallelDevice) Hash(batch []string) []uint32 {
	out := make([]uint32, len(batch))
	if len(batch) == 0 {
		return out
	}

	chunk := (len(batch) + d.lanes - 1) / d.lanes
	if chunk < minChunk {
		chunk = minChunk
	}

	var g errgroup.Group
	g.SetLimit(d.lanes)
	for lo := 0; lo < len(batch); lo += chunk {
		lo, hi := lo, min(lo+chunk, len(batch))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				out[i] = Fnv1a32(batch[i])
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Sequential hashes on the calling goroutine.
type Sequential struct{}

func (Sequential) Name() string {
	return "sequential"
}

func (Sequential) Hash(batch []string) []uint32 {
	out := make([]uint32, len(batch))
	for i, s := range batch {
		out[i] = Fnv1a32(s)
	}
	return out
}

// Detect looks for hardware worth offloading batches to. A single core gains
// nothing from sharding, so it reports ErrNoDevice.
func Detect() (*ParallelDevice, error) {
	cores, err := cpu.Counts(true)
	if err != nil || cores < 1 {
		cores = runtime.NumCPU()
	}
	if cores < 2 {
		return nil, fmt.Errorf("%w: %d logical core(s)", domain.ErrNoDevice, cores)
	}

	name := fmt.Sprintf("cpu x%d", cores)
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 && infos[0].ModelName != "" {
		name = fmt.Sprintf("%s x%d", infos[0].ModelName, cores)
	}
	return NewParallelDevice(name, cores), nil
}
