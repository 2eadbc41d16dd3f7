package algorithm

import (
	"pfxcrack/internal/core/domain"
)

// Charset is an ordered, deduplicated symbol list. Symbol i is digit i.
type Charset []rune

func NewCharset(symbols string) (Charset, error) {
	seen := make(map[rune]struct{}, len(symbols))
	charset := make(Charset, 0, len(symbols))
	for _, r := range symbols {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		charset = append(charset, r)
	}

	if len(charset) == 0 {
		return nil, domain.NewSetupError(domain.ErrEmptyCharset, "charset has no symbols", nil)
	}
	return charset, nil
}

func (c Charset) Base() uint64 {
	return uint64(len(c))
}

func (c Charset) String() string {
	return string(c)
}
