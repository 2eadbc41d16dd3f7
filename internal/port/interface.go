package port

import (
	"context"

	"pfxcrack/internal/core/domain"
)

type CrackingService interface {
	Crack(ctx context.Context, settings domain.CrackingSettings) (*domain.RunReport, error)
	State() domain.SearchState
	GetProgress() domain.JobProgress
}

// Probe attempts one candidate. A wrong password is (false, nil); an error
// aborts the whole search.
type Probe interface {
	Try(candidate string) (bool, error)
}

// Prefilter screens batches before they reach the Probe. Screen must return
// one verdict per candidate in input order and may only answer false for a
// candidate that provably cannot be the password.
type Prefilter interface {
	Available() bool
	Screen(batch []string) []bool
	Name() string
}

// Hasher computes FNV-1a digests for a batch, order preserving.
type Hasher interface {
	Name() string
	Hash(batch []string) []uint32
}
