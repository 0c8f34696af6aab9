package stats

import (
	"bufio"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidRange is returned by Random.Integer when min is not below max.
var ErrInvalidRange = errors.New("min must be less than max")

// Random draws uniformly distributed integers from a byte source.
type Random struct {
	r   *bufio.Reader
	buf [4]byte
}

// NewRandom returns a Random reading from src. A nil src uses the
// operating system's cryptographic generator.
func NewRandom(src io.Reader) *Random {
	if src == nil {
		src = rand.Reader
	}
	return &Random{r: bufio.NewReaderSize(src, 4096)}
}

// Integer returns a random integer in [min, max] inclusive. Ranges whose
// width is a power of two are masked, others are reduced modulo the width.
func (r *Random) Integer(min, max int) (int, error) {
	if min >= max {
		return 0, ErrInvalidRange
	}
	if _, err := io.ReadFull(r.r, r.buf[:]); err != nil {
		return 0, fmt.Errorf("unable to read random bytes: %w", err)
	}
	value := binary.LittleEndian.Uint32(r.buf[:])

	span := uint32(max - min)
	if (span+1)&span == 0 {
		value &= span
	} else {
		value %= span + 1
	}
	return min + int(value), nil
}
