// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"io"

	"github.com/ik5/acsim/audio"
	"github.com/jfreymuth/oggvorbis"
	"github.com/pkg/errors"
)

// oggReader is the subset of oggvorbis.Reader the source needs.
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec oggReader
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return s.dec.Channels() }
func (s *source) Close() error    { return nil }

// ReadSamples fills dst with whole interleaved frames. oggvorbis already
// interleaves, so samples are written straight into dst.
func (s *source) ReadSamples(dst []float32) (int, error) {
	ch := s.dec.Channels()
	dst = dst[:len(dst)-len(dst)%ch]
	if len(dst) == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst)
	if err != nil && err != io.EOF {
		return 0, errors.Wrap(err, "vorbis: decoding failed")
	}
	if n == 0 && err == io.EOF {
		return 0, io.EOF
	}

	return n, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "vorbis: opening stream failed")
	}

	return &source{dec: dec}, nil
}
