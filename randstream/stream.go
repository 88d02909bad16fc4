// SPDX-License-Identifier: EPL-2.0

package randstream

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// MaxInt is the upper end of the value range of a stream file.
const MaxInt uint64 = math.MaxInt64

// Rounding selects how a raw value is mapped onto a bound.
type Rounding int

const (
	// RoundingBounded maps to [0,n) with floor(n*r/MaxInt).
	RoundingBounded Rounding = iota
	// RoundingInclusiveMax maps to [0,n-1] with floor((n-1)*r/MaxInt).
	RoundingInclusiveMax
)

func (r Rounding) String() string {
	switch r {
	case RoundingBounded:
		return "bounded"
	case RoundingInclusiveMax:
		return "inclusive-max"
	}
	return "Rounding(" + strconv.Itoa(int(r)) + ")"
}

// Stream is a cursor over a shared, immutable slice of values. It is safe
// for concurrent use.
type Stream struct {
	values []uint64
	cursor int

	mtx *sync.Mutex
}

// Read parses one decimal integer per line. Blank lines are ignored.
func Read(r io.Reader) ([]uint64, error) {
	var out []uint64

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		t := strings.TrimSpace(sc.Text())
		if t == "" {
			continue
		}

		v, err := strconv.ParseUint(t, 10, 64)
		if err != nil || v > MaxInt {
			return nil, errors.Wrapf(ErrBadValue, "randstream: line %d: %q", line, t)
		}
		out = append(out, v)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "randstream: scanning failed")
	}

	return out, nil
}

// New builds a stream over values positioned according to seed. An empty or
// "0" seed starts at the beginning, any other seed starts at seed mod len.
func New(values []uint64, seed string) (*Stream, error) {
	if len(values) == 0 {
		return nil, ErrEmptyStream
	}

	s := &Stream{values: values, mtx: &sync.Mutex{}}

	seed = strings.TrimSpace(seed)
	if seed == "" || seed == "0" {
		return s, nil
	}

	n, err := strconv.ParseUint(seed, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSeed, "randstream: seed %q", seed)
	}
	s.cursor = int(n % uint64(len(values)))

	return s, nil
}

// Load reads the stream file at path and positions it according to seed.
func Load(path, seed string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "randstream: opening %s failed", path)
	}
	defer f.Close()

	values, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "randstream: reading %s failed", path)
	}

	s, err := New(values, seed)
	if err != nil {
		return nil, errors.Wrapf(err, "randstream: loading %s failed", path)
	}

	return s, nil
}

// Len is the number of values in the stream.
func (s *Stream) Len() int { return len(s.values) }

// Cursor is the position of the next draw.
func (s *Stream) Cursor() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.cursor
}

// Seek moves the cursor to pos mod Len. Negative positions count from the end.
func (s *Stream) Seek(pos int) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	n := len(s.values)
	s.cursor = ((pos % n) + n) % n
}

// Fork returns an independent stream over the same values at the current
// cursor. Draws on either side never affect the other.
func (s *Stream) Fork() *Stream {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return &Stream{values: s.values, cursor: s.cursor, mtx: &sync.Mutex{}}
}

// Draw returns the raw value under the cursor and advances it.
func (s *Stream) Draw() uint64 {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	v := s.values[s.cursor]
	s.cursor = (s.cursor + 1) % len(s.values)
	return v
}

func scale(n int, r uint64) int {
	return int(float64(n) * float64(r) / float64(MaxInt))
}

// Bounded maps the next value onto [0,n). A value of MaxInt would map to n
// and is clamped to n-1. n <= 0 yields 0; the draw is consumed either way.
func (s *Stream) Bounded(n int) int {
	r := s.Draw()
	if n <= 0 {
		return 0
	}
	return min(scale(n, r), n-1)
}

// BoundedInclusiveMax maps the next value onto [0,n-1] using n-1 as the
// scale, so n-1 itself is only reached by MaxInt.
func (s *Stream) BoundedInclusiveMax(n int) int {
	r := s.Draw()
	if n <= 1 {
		return 0
	}
	return min(scale(n-1, r), n-1)
}

// Bound draws with the given rounding convention.
func (s *Stream) Bound(n int, mode Rounding) int {
	if mode == RoundingInclusiveMax {
		return s.BoundedInclusiveMax(n)
	}
	return s.Bounded(n)
}

// Uniform returns the next value scaled to [0,1].
func (s *Stream) Uniform() float64 {
	return float64(s.Draw()) / float64(MaxInt)
}

// Choice picks list[Bounded(len(list))]. An empty list is an error and
// consumes nothing.
func Choice[T any](s *Stream, list []T) (T, error) {
	var zero T
	if len(list) == 0 {
		return zero, ErrEmptyList
	}
	return list[s.Bounded(len(list))], nil
}

// Shuffle returns a permutation of list. For every position i, in order,
// idx[i] is swapped with idx[d] where d is drawn against the full length,
// so exactly len(list) values are consumed. The resulting distribution is
// not uniform; it is reproduced as is. list itself is left untouched.
func Shuffle[T any](s *Stream, list []T, mode Rounding) []T {
	idx := make([]int, len(list))
	for i := range idx {
		idx[i] = i
	}

	for i := range idx {
		j := s.Bound(len(list), mode)
		idx[i], idx[j] = idx[j], idx[i]
	}

	out := make([]T, len(list))
	for i, j := range idx {
		out[i] = list[j]
	}
	return out
}
