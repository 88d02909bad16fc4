// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/acsim/audio"
	"github.com/ik5/acsim/utils"
	"github.com/pkg/errors"
)

// mp3Reader is the subset of gomp3.Decoder the source needs.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// go-mp3 always emits interleaved stereo s16le.
const channels = 2

type source struct {
	dec mp3Reader
	buf []byte
	// odd trailing byte of the previous read
	carry    []byte
	finished bool
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.finished {
		return 0, io.EOF
	}

	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	pre := copy(s.buf, s.carry)
	s.carry = s.carry[:0]

	n, err := s.dec.Read(s.buf[pre:])
	n += pre
	if err == io.EOF {
		s.finished = true
	} else if err != nil {
		return 0, errors.Wrap(err, "mp3: decoding failed")
	}

	if n%2 == 1 {
		s.carry = append(s.carry, s.buf[n-1])
		n--
	}

	samples := n / 2
	for i := 0; i < samples; i++ {
		dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(s.buf[2*i:])))
	}

	if s.finished {
		return samples, io.EOF
	}
	return samples, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, errors.Wrap(err, "mp3: opening stream failed")
	}

	return &source{dec: dec}, nil
}
