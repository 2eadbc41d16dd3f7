package algorithm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfxcrack/internal/core/domain"
)

// materialize builds the full ordered space the slow way, one length at a time.
func materialize(charset string, minLen, maxLen int) []string {
	var out []string
	var gen func(prefix string, length int)
	gen = func(prefix string, length int) {
		if length == 0 {
			out = append(out, prefix)
			return
		}
		for _, char := range charset {
			gen(prefix+string(char), length-1)
		}
	}
	for length := minLen; length <= maxLen; length++ {
		gen("", length)
	}
	return out
}

func newBruteForce(t *testing.T, symbols string, minLen, maxLen int) *BruteForce {
	t.Helper()
	cs, err := NewCharset(symbols)
	require.NoError(t, err)
	bf, err := NewBruteForce(cs, minLen, maxLen)
	require.NoError(t, err)
	return bf
}

func TestBruteForce_Enumerate(t *testing.T) {
	tests := []struct {
		name    string
		charset string
		min     int
		max     int
		want    []string
	}{
		{
			name:    "Single character lowercase",
			charset: "ab",
			min:     1,
			max:     1,
			want:    []string{"a", "b"},
		},
		{
			name:    "Two character digits",
			charset: "12",
			min:     2,
			max:     2,
			want:    []string{"11", "12", "21", "22"},
		},
		{
			name:    "Variable length passwords",
			charset: "ab",
			min:     1,
			max:     2,
			want:    []string{"a", "b", "aa", "ab", "ba", "bb"},
		},
		{
			name:    "Empty password included",
			charset: "xy",
			min:     0,
			max:     1,
			want:    []string{"", "x", "y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bf := newBruteForce(t, tt.charset, tt.min, tt.max)
			require.Equal(t, uint64(len(tt.want)), bf.Size())

			cur := bf.Iterate(domain.Partition{Start: 0, End: bf.Size()})
			var results []string
			for {
				_, pw, ok := cur.Next()
				if !ok {
					break
				}
				results = append(results, pw)
			}
			assert.Equal(t, tt.want, results)
		})
	}
}

func TestBruteForce_CountAndUniqueness(t *testing.T) {
	bf := newBruteForce(t, "ab", 1, 3)
	require.Equal(t, uint64(14), bf.Size())

	seen := make(map[string]bool)
	for i := uint64(0); i < bf.Size(); i++ {
		pw, err := bf.At(i)
		require.NoError(t, err)
		assert.False(t, seen[pw], "duplicate candidate %q", pw)
		seen[pw] = true
	}
	assert.Len(t, seen, 14)
}

func TestBruteForce_AtMatchesMaterialized(t *testing.T) {
	spaces := []struct {
		charset string
		min     int
		max     int
	}{
		{"ab", 1, 3},
		{"abc", 0, 3},
		{"01234", 2, 3},
		{"héß", 1, 3},
	}

	for _, sp := range spaces {
		want := materialize(sp.charset, sp.min, sp.max)
		bf := newBruteForce(t, sp.charset, sp.min, sp.max)
		require.Equal(t, uint64(len(want)), bf.Size(), "charset %q", sp.charset)

		for i, w := range want {
			got, err := bf.At(uint64(i))
			require.NoError(t, err)
			if got != w {
				t.Errorf("At(%d) over %q = %q, want %q", i, sp.charset, got, w)
			}
		}
	}
}

func TestBruteForce_CursorMatchesAtFromAnyStart(t *testing.T) {
	bf := newBruteForce(t, "abc", 1, 4)

	for start := uint64(0); start < bf.Size(); start += 7 {
		cur := bf.Iterate(domain.Partition{Start: start, End: bf.Size()})
		for {
			idx, pw, ok := cur.Next()
			if !ok {
				break
			}
			want, err := bf.At(idx)
			require.NoError(t, err)
			require.Equal(t, want, pw, "cursor from %d at index %d", start, idx)
		}
	}
}

func TestBruteForce_AtOutOfRange(t *testing.T) {
	bf := newBruteForce(t, "ab", 1, 2)
	_, err := bf.At(bf.Size())
	assert.True(t, errors.Is(err, domain.ErrIndexOutOfRange))
}

func TestBruteForce_Validation(t *testing.T) {
	tests := []struct {
		name    string
		charset string
		min     int
		max     int
		wantErr domain.CrackingError
	}{
		{"empty charset", "", 1, 2, domain.ErrEmptyCharset},
		{"min above max", "ab", 3, 2, domain.ErrInvalidLength},
		{"negative min", "ab", -1, 2, domain.ErrInvalidLength},
		{"alnum up to 20 overflows", domain.CharsetAlnum, 1, 20, domain.ErrSpaceOverflow},
		{"alnum up to 11 overflows", domain.CharsetAlnum, 1, 11, domain.ErrSpaceOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, err := NewCharset(tt.charset)
			if err == nil {
				_, err = NewBruteForce(cs, tt.min, tt.max)
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.True(t, domain.IsSetupError(err))
		})
	}
}

func TestBruteForce_LargestRepresentableSpace(t *testing.T) {
	bf := newBruteForce(t, domain.CharsetAlnum, 1, 10)

	var want uint64
	power := uint64(1)
	for l := 1; l <= 10; l++ {
		power *= 62
		want += power
	}
	assert.Equal(t, want, bf.Size())

	last, err := bf.At(bf.Size() - 1)
	require.NoError(t, err)
	assert.Equal(t, "9999999999", last)
}

func TestNewCharset_Dedup(t *testing.T) {
	cs, err := NewCharset("abcabca")
	require.NoError(t, err)
	assert.Equal(t, "abc", cs.String())
	assert.Equal(t, uint64(3), cs.Base())
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name    string
		n       uint64
		workers int
		want    int
	}{
		{"even split", 12, 4, 4},
		{"uneven split", 14, 4, 4},
		{"more workers than candidates", 3, 8, 3},
		{"zero workers", 5, 0, 1},
		{"single worker", 100, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := Partition(tt.n, tt.workers)
			require.Len(t, parts, tt.want)

			covered := make([]int, tt.n)
			var next uint64
			minSize, maxSize := tt.n, uint64(0)
			for i, p := range parts {
				assert.Equal(t, i, p.Worker)
				assert.Equal(t, next, p.Start, "partitions must be contiguous")
				for idx := p.Start; idx < p.End; idx++ {
					covered[idx]++
				}
				next = p.End
				if p.Len() < minSize {
					minSize = p.Len()
				}
				if p.Len() > maxSize {
					maxSize = p.Len()
				}
			}
			assert.Equal(t, tt.n, next)
			for idx, c := range covered {
				assert.Equal(t, 1, c, "index %d covered %d times", idx, c)
			}
			assert.LessOrEqual(t, maxSize-minSize, uint64(1))
		})
	}
}

func TestPartition_Empty(t *testing.T) {
	assert.Nil(t, Partition(0, 4))
}

func TestBruteForce_SingleSymbolLongRange(t *testing.T) {
	bf := newBruteForce(t, "x", 1, 100)
	require.Equal(t, uint64(100), bf.Size())

	last, err := bf.At(99)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 100), last)
}
