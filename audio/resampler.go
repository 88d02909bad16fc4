// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"math"

	"github.com/ik5/acsim/utils"
	"github.com/pkg/errors"
)

// maxEmptyReads bounds how many consecutive (0, nil) reads are tolerated
// from a source before it is treated as exhausted.
const maxEmptyReads = 64

// Resampler streams from src to a target sample rate using cubic
// interpolation. It works on interleaved samples and preserves the channel
// count. When downsampling, a one-pole low-pass runs on the input with its
// cutoff at the destination Nyquist frequency.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames consumed per output frame
	channels int

	// window holds frames t-1, t0, t+1, t+2; output interpolates between
	// window[1] and window[2] at fractional position pos.
	window [4][]float32
	real   [4]bool
	pos    float64
	primed bool
	done   bool

	in     []float32
	inPos  int
	inLen  int
	srcEOF bool

	lowpass  bool
	alpha    float32
	lpState  []float32
	lpPrimed bool
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		ratio:    ratio,
		channels: channels,
		in:       make([]float32, 1024*channels),
		lowpass:  ratio > 1.0,
		lpState:  make([]float32, channels),
	}

	if r.lowpass {
		cutoff := float64(dstRate) / 2
		r.alpha = float32(1 - math.Exp(-2*math.Pi*cutoff/float64(src.SampleRate())))
	}

	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return errors.Wrap(err, "audio: closing resampler source failed")
	}
	return nil
}

// nextFrame copies the next source frame into dst. It reports false once
// the source is exhausted.
func (r *Resampler) nextFrame(dst []float32) (bool, error) {
	empty := 0
	for r.inPos >= r.inLen {
		if r.srcEOF {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n-n%r.channels

		if err == io.EOF {
			r.srcEOF = true
		} else if err != nil {
			return false, errors.Wrap(err, "audio: reading resampler source failed")
		}

		if n == 0 && err == nil {
			empty++
			if empty > maxEmptyReads {
				r.srcEOF = true
			}
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	if r.lowpass {
		if !r.lpPrimed {
			// start the filter on the first sample instead of ramping up from zero
			copy(r.lpState, dst)
			r.lpPrimed = true
		}
		for c := 0; c < r.channels; c++ {
			r.lpState[c] += r.alpha * (dst[c] - r.lpState[c])
			dst[c] = r.lpState[c]
		}
	}

	return true, nil
}

// prime fills the window so that window[1] is the first source frame and
// window[0] duplicates it.
func (r *Resampler) prime() error {
	r.primed = true

	ok, err := r.nextFrame(r.window[1])
	if err != nil {
		return err
	}
	if !ok {
		r.done = true
		return nil
	}
	copy(r.window[0], r.window[1])
	r.real[0], r.real[1] = true, true

	for i := 2; i < 4; i++ {
		ok, err = r.nextFrame(r.window[i])
		if err != nil {
			return err
		}
		r.real[i] = ok
		if !ok {
			copy(r.window[i], r.window[i-1])
		}
	}

	return nil
}

func (r *Resampler) shift() error {
	first := r.window[0]
	copy(r.window[:], r.window[1:])
	r.window[3] = first
	copy(r.real[:], r.real[1:])

	ok, err := r.nextFrame(r.window[3])
	if err != nil {
		return err
	}
	r.real[3] = ok
	if !ok {
		copy(r.window[3], r.window[2])
	}

	return nil
}

// ReadSamples produces interleaved samples at the destination rate. dst
// length must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames && !r.done {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.shift(); err != nil {
				return written * r.channels, err
			}
		}

		// interpolation needs a real frame on both sides
		if !r.real[1] || !r.real[2] {
			r.done = true
			break
		}

		x := float32(r.pos)
		base := written * r.channels
		for c := 0; c < r.channels; c++ {
			dst[base+c] = utils.CubicInterpolate(r.window[0][c], r.window[1][c], r.window[2][c], r.window[3][c], x)
		}

		written++
		r.pos += r.ratio
	}

	if r.done {
		return written * r.channels, io.EOF
	}

	return written * r.channels, nil
}
