package algorithm

import (
	"fmt"
	"math/bits"

	"pfxcrack/internal/core/domain"
)

// BruteForce enumerates every string over a charset with a length in
// [minLen, maxLen]. Shorter lengths come first; within a length candidates
// follow base-b counting with the leftmost symbol most significant.
type BruteForce struct {
	charset Charset
	minLen  int
	maxLen  int
	sizes   []uint64
	total   uint64
}

var _ Algorithm = (*BruteForce)(nil)

func NewBruteForce(charset Charset, minLen, maxLen int) (*BruteForce, error) {
	if len(charset) == 0 {
		return nil, domain.NewSetupError(domain.ErrEmptyCharset, "charset has no symbols", nil)
	}
	if minLen < 0 || maxLen < minLen {
		return nil, domain.NewSetupError(domain.ErrInvalidLength,
			fmt.Sprintf("need 0 <= min (%d) <= max (%d)", minLen, maxLen), nil)
	}

	sizes, total, err := spaceSizes(charset.Base(), minLen, maxLen)
	if err != nil {
		return nil, err
	}

	return &BruteForce{
		charset: charset,
		minLen:  minLen,
		maxLen:  maxLen,
		sizes:   sizes,
		total:   total,
	}, nil
}

// spaceSizes returns b^L for every L in range and their sum, refusing to wrap.
func spaceSizes(base uint64, minLen, maxLen int) ([]uint64, uint64, error) {
	sizes := make([]uint64, 0, maxLen-minLen+1)
	var total uint64
	power := uint64(1)

	for length := 0; length <= maxLen; length++ {
		if length >= minLen {
			sum, carry := bits.Add64(total, power, 0)
			if carry != 0 {
				return nil, 0, overflowError(base, minLen, maxLen, length)
			}
			total = sum
			sizes = append(sizes, power)
		}
		if length == maxLen {
			break
		}
		hi, lo := bits.Mul64(power, base)
		if hi != 0 {
			return nil, 0, overflowError(base, minLen, maxLen, length+1)
		}
		power = lo
	}

	if total == 0 {
		return nil, 0, domain.NewSetupError(domain.ErrEmptySpace, "search space is empty", nil)
	}
	return sizes, total, nil
}

func overflowError(base uint64, minLen, maxLen, at int) error {
	return domain.NewSetupError(domain.ErrSpaceOverflow,
		fmt.Sprintf("%d symbols over lengths %d..%d exceed 2^64 candidates (at length %d)", base, minLen, maxLen, at), nil)
}

func (b *BruteForce) Size() uint64 {
	return b.total
}

func (b *BruteForce) Charset() Charset {
	return b.charset
}

// At derives the candidate with the given global index without visiting any
// of its predecessors.
func (b *BruteForce) At(index uint64) (string, error) {
	length, offset, err := b.locate(index)
	if err != nil {
		return "", err
	}

	buf := make([]rune, length)
	base := b.charset.Base()
	for pos := length - 1; pos >= 0; pos-- {
		buf[pos] = b.charset[offset%base]
		offset /= base
	}
	return string(buf), nil
}

func (b *BruteForce) locate(index uint64) (int, uint64, error) {
	if index >= b.total {
		return 0, 0, fmt.Errorf("%w: %d >= %d", domain.ErrIndexOutOfRange, index, b.total)
	}
	for i, size := range b.sizes {
		if index < size {
			return b.minLen + i, index, nil
		}
		index -= size
	}
	return 0, 0, fmt.Errorf("%w: %d", domain.ErrIndexOutOfRange, index)
}

// Partitions splits the space into at most workers contiguous ranges.
func (b *BruteForce) Partitions(workers int) []domain.Partition {
	return Partition(b.total, workers)
}

func (b *BruteForce) Iterate(p domain.Partition) *Cursor {
	end := p.End
	if end > b.total {
		end = b.total
	}
	return &Cursor{bf: b, next: p.Start, end: end}
}

// Partition divides [0, n) into w disjoint ranges whose sizes differ by at
// most one. w is clamped to [1, n] so no range is empty.
func Partition(n uint64, w int) []domain.Partition {
	if n == 0 {
		return nil
	}
	if w < 1 {
		w = 1
	}
	if uint64(w) > n {
		w = int(n)
	}

	parts := make([]domain.Partition, 0, w)
	base := n / uint64(w)
	rem := n % uint64(w)
	var start uint64
	for k := 0; k < w; k++ {
		size := base
		if uint64(k) < rem {
			size++
		}
		parts = append(parts, domain.Partition{Worker: k, Start: start, End: start + size})
		start += size
	}
	return parts
}

// Cursor walks one partition in increasing index order. It seeds itself from
// At and then counts like an odometer, so restarting means building a new
// cursor from an index.
type Cursor struct {
	bf     *BruteForce
	next   uint64
	end    uint64
	digits []uint64
	buf    []rune
}

func (c *Cursor) Next() (uint64, string, bool) {
	if c.next >= c.end {
		return 0, "", false
	}
	if c.digits == nil {
		c.seek(c.next)
	} else {
		c.advance()
	}

	index := c.next
	c.next++
	return index, string(c.buf), true
}

func (c *Cursor) Remaining() uint64 {
	return c.end - c.next
}

func (c *Cursor) seek(index uint64) {
	length, offset, _ := c.bf.locate(index)
	base := c.bf.charset.Base()

	c.digits = make([]uint64, length)
	c.buf = make([]rune, length)
	for pos := length - 1; pos >= 0; pos-- {
		d := offset % base
		c.digits[pos] = d
		c.buf[pos] = c.bf.charset[d]
		offset /= base
	}
}

func (c *Cursor) advance() {
	base := c.bf.charset.Base()
	for pos := len(c.digits) - 1; pos >= 0; pos-- {
		c.digits[pos]++
		if c.digits[pos] < base {
			c.buf[pos] = c.bf.charset[c.digits[pos]]
			return
		}
		c.digits[pos] = 0
		c.buf[pos] = c.bf.charset[0]
	}

	// wrapped: first candidate of the next length
	length := len(c.digits) + 1
	c.digits = make([]uint64, length)
	c.buf = make([]rune, length)
	for pos := range c.buf {
		c.buf[pos] = c.bf.charset[0]
	}
}
