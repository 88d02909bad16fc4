// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/acsim/audio"
	"github.com/pkg/errors"
)

// pcmReader is the subset of gowav.Decoder the source needs.
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec        pcmReader
	sampleRate int
	channels   int
	bitDepth   int
	buf        *goaudio.IntBuffer
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }

// fullScale returns the magnitude of the most negative sample at depth.
func fullScale(depth int) float32 {
	return float32(int64(1) << (depth - 1))
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.buf == nil {
		s.buf = &goaudio.IntBuffer{
			Format: &goaudio.Format{NumChannels: s.channels, SampleRate: s.sampleRate},
		}
	}
	if cap(s.buf.Data) < len(dst) {
		s.buf.Data = make([]int, len(dst))
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil && err != io.EOF {
		return 0, errors.Wrap(err, "wav: reading PCM failed")
	}
	if n == 0 {
		return 0, io.EOF
	}

	scale := fullScale(s.bitDepth)
	for i, v := range s.buf.Data[:n] {
		if s.bitDepth == 8 {
			// 8-bit WAV samples are unsigned
			v -= 128
		}
		dst[i] = float32(v) / scale
	}

	return n, nil
}

type Decoder struct{}

// Decode validates the RIFF/WAVE header and returns a streaming source.
// Chunks other than fmt and data are skipped by go-audio/wav.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrap(err, "wav: reading input failed")
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if dec.WavAudioFormat != 1 {
		return nil, ErrOnlyPCMSupported
	}

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, errors.Wrapf(ErrUnsupportedBitDepth, "wav: %d bits", dec.BitDepth)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, errors.Wrap(err, "wav: locating data chunk failed")
	}

	return &source{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		bitDepth:   int(dec.BitDepth),
	}, nil
}
