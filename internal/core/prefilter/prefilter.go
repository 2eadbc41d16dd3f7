package prefilter

import (
	"log/slog"
	"sync"

	"pfxcrack/internal/pkg/accel"
	"pfxcrack/internal/port"
)

// Noop screens nothing. The coordinator treats every candidate as passing.
type Noop struct{}

func (Noop) Available() bool {
	return false
}

func (Noop) Name() string {
	return "none"
}

func (Noop) Screen(batch []string) []bool {
	out := make([]bool, len(batch))
	for i := range out {
		out[i] = true
	}
	return out
}

// Exclusion rejects candidates already known to be wrong, such as the tried
// list of an earlier session. The digest is only a cheap first look; a
// candidate is rejected only when its exact string is in the skip list, so a
// digest collision can never hide the password.
type Exclusion struct {
	device  port.Hasher
	buckets map[uint32][]string
	size    int
}

func NewExclusion(device port.Hasher, skip []string) *Exclusion {
	e := &Exclusion{
		device:  device,
		buckets: make(map[uint32][]string, len(skip)),
	}
	digests := device.Hash(skip)
	for i, s := range skip {
		d := digests[i]
		if contains(e.buckets[d], s) {
			continue
		}
		e.buckets[d] = append(e.buckets[d], s)
		e.size++
	}
	return e
}

func (e *Exclusion) Available() bool {
	return true
}

func (e *Exclusion) Name() string {
	return e.device.Name()
}

// Len is the number of distinct excluded passwords.
func (e *Exclusion) Len() int {
	return e.size
}

func (e *Exclusion) Screen(batch []string) []bool {
	digests := e.device.Hash(batch)
	out := make([]bool, len(batch))
	for i, candidate := range batch {
		bucket, hit := e.buckets[digests[i]]
		out[i] = !hit || !contains(bucket, candidate)
	}
	return out
}

func contains(bucket []string, s string) bool {
	for _, b := range bucket {
		if b == s {
			return true
		}
	}
	return false
}

var fallbackNotice sync.Once

// Select picks the prefilter for a run. When acceleration is requested but no
// device is found it logs a notice once per process and falls back to Noop.
func Select(requested bool, skip []string) port.Prefilter {
	if !requested {
		return Noop{}
	}

	device, err := accel.Detect()
	if err != nil {
		fallbackNotice.Do(func() {
			slog.Info("accelerator requested but unavailable, every candidate goes straight to the probe",
				"reason", err)
		})
		return Noop{}
	}

	slog.Info("prefilter enabled", "device", device.Name(), "excluded", len(skip))
	return NewExclusion(device, skip)
}
