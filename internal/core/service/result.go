package service

import (
	"sync"

	"pfxcrack/internal/core/domain"
)

// Result is the single mutable cell shared by every worker. Once found is
// set the password never changes.
type Result struct {
	mu       sync.RWMutex
	found    bool
	password string
}

func NewResult() *Result {
	return &Result{}
}

// TryReportSuccess returns true only for the call that flips the cell from
// not-found to found. Later callers lose and their password is discarded.
func (r *Result) TryReportSuccess(password string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.found {
		return false
	}
	r.found = true
	r.password = password
	return true
}

func (r *Result) IsFound() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.found
}

func (r *Result) Snapshot() domain.CrackResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.CrackResult{Found: r.found, Password: r.password}
}
