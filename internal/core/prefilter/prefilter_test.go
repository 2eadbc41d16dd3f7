package prefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pfxcrack/internal/pkg/accel"
	"pfxcrack/internal/port"
)

// collidingHasher maps every string to the same digest.
type collidingHasher struct{}

func (collidingHasher) Name() string { return "colliding" }

func (collidingHasher) Hash(batch []string) []uint32 {
	return make([]uint32, len(batch))
}

func TestNoop(t *testing.T) {
	var n Noop
	assert.False(t, n.Available())
	assert.Equal(t, []bool{true, true, true}, n.Screen([]string{"a", "b", "c"}))
	assert.Empty(t, n.Screen(nil))
}

func TestExclusion_Screen(t *testing.T) {
	tests := []struct {
		name   string
		device port.Hasher
		skip   []string
		batch  []string
		want   []bool
	}{
		{
			name:   "skips only listed candidates",
			device: accel.NewParallelDevice("test", 2),
			skip:   []string{"aa", "ab"},
			batch:  []string{"a", "aa", "ab", "ba", "bb"},
			want:   []bool{true, false, false, true, true},
		},
		{
			name:   "digest collisions never reject",
			device: collidingHasher{},
			skip:   []string{"aa"},
			batch:  []string{"aa", "ab", "secret"},
			want:   []bool{false, true, true},
		},
		{
			name:   "empty skip list passes everything",
			device: accel.Sequential{},
			skip:   nil,
			batch:  []string{"x", "y"},
			want:   []bool{true, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExclusion(tt.device, tt.skip)
			assert.True(t, e.Available())
			assert.Equal(t, tt.want, e.Screen(tt.batch))
		})
	}
}

func TestExclusion_Dedup(t *testing.T) {
	e := NewExclusion(accel.Sequential{}, []string{"a", "a", "b"})
	assert.Equal(t, 2, e.Len())
}

func TestSelect(t *testing.T) {
	assert.IsType(t, Noop{}, Select(false, []string{"a"}))

	p := Select(true, []string{"a"})
	// Either a real device was found or we fell back; both must be safe.
	got := p.Screen([]string{"a", "b"})
	assert.Len(t, got, 2)
	assert.True(t, got[1])
}
