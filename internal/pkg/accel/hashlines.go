package accel

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"pfxcrack/internal/port"
)

type Digest struct {
	Value  uint32
	Source string
}

func (d Digest) String() string {
	return fmt.Sprintf("%08x\t%s", d.Value, d.Source)
}

// ReadLines returns the non-empty lines of r, stopping after limit lines when
// limit is positive. Lines have no length cap. A trailing "\r" is dropped.
func ReadLines(r io.Reader, limit int) ([]string, error) {
	var lines []string
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if line != "" {
			lines = append(lines, line)
			if limit > 0 && len(lines) >= limit {
				return lines, nil
			}
		}
		if err != nil {
			return lines, nil
		}
	}
}

// HashLines digests every line on h and pairs each digest with its source,
// in input order.
func HashLines(h port.Hasher, lines []string) []Digest {
	values := h.Hash(lines)
	out := make([]Digest, len(lines))
	for i, line := range lines {
		out[i] = Digest{Value: values[i], Source: line}
	}
	return out
}
