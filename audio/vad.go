// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"time"

	astipcm "github.com/asticode/go-astitools/pcm"
)

// EnergyVAD finds speech with astipcm's silence detector: a speech region is
// whatever lies between two silences of at least MinSilenceDuration. Shorter
// pauses stay inside the region they interrupt.
type EnergyVAD struct {
	MaxSilenceLevel    float64 // normalized RMS below which a step is silent
	MinSilenceDuration time.Duration
	StepDuration       time.Duration
}

// NewEnergyVAD returns a detector tuned for close-talk speech.
func NewEnergyVAD() *EnergyVAD {
	return &EnergyVAD{
		MaxSilenceLevel:    0.01,
		MinSilenceDuration: 300 * time.Millisecond,
		StepDuration:       20 * time.Millisecond,
	}
}

// VoiceActive returns the concatenation of the speech regions of s. The
// result is empty when no speech was found.
func (v *EnergyVAD) VoiceActive(s Signal) Signal {
	out := Signal{Rate: s.Rate}

	step := int(float64(s.Rate) * v.StepDuration.Seconds())
	if step <= 0 || v.MinSilenceDuration < v.StepDuration || len(s.Samples) == 0 {
		return out
	}

	level := v.MaxSilenceLevel * 32768
	d := astipcm.NewSilenceDetector(astipcm.SilenceDetectorOptions{
		MaxSilenceAudioLevel: level,
		MinSilenceDuration:   v.MinSilenceDuration,
		SampleRate:           s.Rate,
		StepDuration:         v.StepDuration,
	})

	// the detector only reports regions closed by silence on both sides, so
	// speech touching either end of s gets some
	pad := (int(v.MinSilenceDuration/v.StepDuration) + 1) * step
	samples := make([]int, pad, len(s.Samples)+2*pad)
	for _, x := range s.Samples {
		samples = append(samples, int(x))
	}
	samples = append(samples, make([]int, pad)...)

	for _, region := range d.Add(samples) {
		out.Samples = append(out.Samples, trimSilence(region, step, level)...)
	}

	return out
}

// trimSilence drops the silent steps the detector leaves around a region.
func trimSilence(region []int, step int, level float64) []int16 {
	first, last := -1, -1
	for i := 0; i+step <= len(region); i += step {
		if astipcm.AudioLevel(region[i:i+step]) >= level {
			if first < 0 {
				first = i
			}
			last = i + step
		}
	}
	if first < 0 {
		return nil
	}

	out := make([]int16, last-first)
	for i, x := range region[first:last] {
		out[i] = int16(x)
	}
	return out
}
