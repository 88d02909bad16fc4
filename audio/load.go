// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"os"
	"path/filepath"

	"github.com/ik5/acsim/utils"
	"github.com/pkg/errors"
)

// Collect drains src into a mono Signal at rate. The pipeline is
// mono mix -> resample (skipped when the rates already match) -> int16.
func Collect(src Source, rate int) (Signal, error) {
	var s Source = NewMonoMixer(src)
	if s.SampleRate() != rate {
		s = NewResampler(s, rate)
	}

	// start with room for ~2 seconds and let append grow it
	out := Signal{Rate: rate, Samples: make([]int16, 0, rate*2)}
	buf := make([]float32, 4096)

	for {
		n, err := s.ReadSamples(buf)
		for _, v := range buf[:n] {
			out.Samples = append(out.Samples, utils.Float32ToPCM16(v))
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return Signal{}, errors.Wrap(err, "audio: collecting samples failed")
		}
	}

	return out, nil
}

// Open decodes the file at path with the decoder registered for its
// extension and returns it as a mono Signal at rate.
func (r *Registry) Open(path string, rate int) (Signal, error) {
	d, ok := r.Lookup(path)
	if !ok {
		return Signal{}, errors.Wrapf(ErrUnsupportedFormat, "audio: opening %s (%s)", path, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return Signal{}, errors.Wrapf(err, "audio: opening %s failed", path)
	}
	defer f.Close()

	src, err := d.Decode(f)
	if err != nil {
		return Signal{}, errors.Wrapf(err, "audio: decoding %s failed", path)
	}
	defer src.Close()

	s, err := Collect(src, rate)
	if err != nil {
		return Signal{}, errors.Wrapf(err, "audio: reading %s failed", path)
	}

	return s, nil
}
