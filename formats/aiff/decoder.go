// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/acsim/audio"
	"github.com/pkg/errors"
)

// pcmReader is the subset of aiff.Decoder the source needs.
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec      pcmReader
	format   *goaudio.Format
	bitDepth int
	buf      *goaudio.IntBuffer
}

func (s *source) SampleRate() int { return s.format.SampleRate }
func (s *source) Channels() int   { return s.format.NumChannels }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.buf == nil {
		s.buf = &goaudio.IntBuffer{Format: s.format}
	}
	if cap(s.buf.Data) < len(dst) {
		s.buf.Data = make([]int, len(dst))
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil && err != io.EOF {
		return 0, errors.Wrap(err, "aiff: reading PCM failed")
	}
	if n == 0 {
		return 0, io.EOF
	}

	// AIFF samples are signed at every depth
	scale := float32(int64(1) << (s.bitDepth - 1))
	for i, v := range s.buf.Data[:n] {
		dst[i] = float32(v) / scale
	}

	return n, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrap(err, "aiff: reading input failed")
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, errors.Wrapf(ErrUnsupportedBitDepth, "aiff: %d bits", dec.BitDepth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels == 0 {
		return nil, ErrMissingFormat
	}

	return &source{
		dec:      dec,
		format:   format,
		bitDepth: int(dec.BitDepth),
	}, nil
}
