// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/acsim/audio"
	"github.com/pkg/errors"
)

const (
	bitDepth  = 16
	formatPCM = 1
)

// Encode writes s as a mono 16-bit PCM WAV. The header sizes are patched on
// close, hence the io.WriteSeeker.
func Encode(w io.WriteSeeker, s audio.Signal) error {
	if s.Rate <= 0 {
		return ErrEmptySignal
	}

	enc := gowav.NewEncoder(w, s.Rate, bitDepth, 1, formatPCM)

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: s.Rate},
		Data:           make([]int, len(s.Samples)),
		SourceBitDepth: bitDepth,
	}
	for i, v := range s.Samples {
		buf.Data[i] = int(v)
	}

	if err := enc.Write(buf); err != nil {
		return errors.Wrap(err, "wav: writing samples failed")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "wav: finalizing header failed")
	}

	return nil
}

// WriteFile encodes s into a new WAV file at path.
func WriteFile(path string, s audio.Signal) (err error) {
	var f *os.File
	if f, err = os.Create(path); err != nil {
		return errors.Wrapf(err, "wav: creating %s failed", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "wav: closing %s failed", path)
		}
	}()

	if err = Encode(f, s); err != nil {
		return errors.Wrapf(err, "wav: encoding %s failed", path)
	}

	return nil
}
