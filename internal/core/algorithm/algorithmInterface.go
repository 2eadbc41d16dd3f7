package algorithm

import (
	"pfxcrack/internal/core/domain"
)

// Algorithm describes an indexable candidate space. Every candidate must be
// derivable from its index alone so that workers can own disjoint ranges.
type Algorithm interface {
	Size() uint64
	At(index uint64) (string, error)
	Partitions(workers int) []domain.Partition
	Iterate(p domain.Partition) *Cursor
}
