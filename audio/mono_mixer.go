// SPDX-License-Identifier: EPL-2.0

package audio

import "github.com/pkg/errors"

// MonoMixer downmixes an interleaved multi-channel source to mono by
// averaging the channels of every frame. Sources may return reads that end
// mid-frame; the leftover samples are carried into the next read. A partial
// frame at the end of the stream is averaged over the channels it has.
type MonoMixer struct {
	src  Source
	tmp  []float32
	left int // samples of an incomplete frame at the head of tmp
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{src: src}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }

func (m *MonoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return errors.Wrap(err, "audio: closing mono mixer source failed")
	}
	return nil
}

func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.src.Channels()
	if channels == 1 {
		return m.src.ReadSamples(dst)
	}

	need := len(dst) * channels
	if cap(m.tmp) < need {
		tmp := make([]float32, need)
		copy(tmp, m.tmp[:m.left])
		m.tmp = tmp
	}
	m.tmp = m.tmp[:need]

	n, err := m.src.ReadSamples(m.tmp[m.left:])
	total := m.left + n
	frames := total / channels
	inv := 1 / float32(channels)

	for f := 0; f < frames; f++ {
		var sum float32
		for _, v := range m.tmp[f*channels : (f+1)*channels] {
			sum += v
		}
		dst[f] = sum * inv
	}

	m.left = copy(m.tmp, m.tmp[frames*channels:total])

	if err != nil && m.left > 0 && frames < len(dst) {
		var sum float32
		for _, v := range m.tmp[:m.left] {
			sum += v
		}
		dst[frames] = sum / float32(m.left)
		frames++
		m.left = 0
	}

	return frames, err
}
