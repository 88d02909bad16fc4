// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"
	"time"

	"github.com/ik5/acsim/utils"
	"github.com/pkg/errors"
)

// Signal is a fully decoded mono 16-bit PCM signal.
type Signal struct {
	Rate    int
	Samples []int16
}

func (s Signal) Len() int { return len(s.Samples) }

// Seconds is the signal length in seconds.
func (s Signal) Seconds() float64 {
	if s.Rate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.Rate)
}

func (s Signal) Duration() time.Duration {
	return time.Duration(s.Seconds() * float64(time.Second))
}

// RMS is the root-mean-square amplitude with samples normalized to [-1,1),
// the same scale SoX reports as "RMS amplitude". Empty signals yield 0.
func (s Signal) RMS() float64 {
	if len(s.Samples) == 0 {
		return 0
	}

	var sum float64
	for _, v := range s.Samples {
		x := float64(v) / 32768.0
		sum += x * x
	}

	return math.Sqrt(sum / float64(len(s.Samples)))
}

// Scale returns a copy of s multiplied by gain, saturating at the int16 range.
func (s Signal) Scale(gain float64) Signal {
	out := Signal{Rate: s.Rate, Samples: make([]int16, len(s.Samples))}
	for i, v := range s.Samples {
		out.Samples[i] = utils.ClampInt16(float64(v) * gain)
	}

	return out
}

// Segment returns exactly n samples starting at start; positions past the
// end of s are zero.
func (s Signal) Segment(start, n int) Signal {
	out := Signal{Rate: s.Rate, Samples: make([]int16, max(n, 0))}
	if start < 0 {
		start = 0
	}
	if start < len(s.Samples) {
		copy(out.Samples, s.Samples[start:])
	}

	return out
}

// Mix adds b scaled by gain to a, sample by sample. The result is as long as
// the longer input and saturates at the int16 range.
func Mix(a, b Signal, gain float64) (Signal, error) {
	if a.Rate != b.Rate {
		return Signal{}, errors.Wrapf(ErrRateMismatch, "audio: mixing %d Hz with %d Hz", a.Rate, b.Rate)
	}

	n := max(len(a.Samples), len(b.Samples))
	out := Signal{Rate: a.Rate, Samples: make([]int16, n)}

	for i := 0; i < n; i++ {
		var v float64
		if i < len(a.Samples) {
			v = float64(a.Samples[i])
		}
		if i < len(b.Samples) {
			v += float64(b.Samples[i]) * gain
		}
		out.Samples[i] = utils.ClampInt16(v)
	}

	return out, nil
}
