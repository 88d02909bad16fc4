// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// DecodeRaw reads headerless little-endian signed 16-bit mono PCM.
func DecodeRaw(r io.Reader, rate int) (Signal, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Signal{}, errors.Wrap(err, "audio: reading raw PCM failed")
	}
	if len(data)%2 != 0 {
		return Signal{}, ErrOddRawLength
	}

	s := Signal{Rate: rate, Samples: make([]int16, len(data)/2)}
	for i := range s.Samples {
		s.Samples[i] = int16(binary.LittleEndian.Uint16(data[2*i:]))
	}

	return s, nil
}

// EncodeRaw writes s as headerless little-endian signed 16-bit PCM.
func EncodeRaw(w io.Writer, s Signal) error {
	const chunk = 4096

	buf := make([]byte, 2*min(len(s.Samples), chunk))
	for i := 0; i < len(s.Samples); i += chunk {
		part := s.Samples[i:min(i+chunk, len(s.Samples))]
		for j, v := range part {
			binary.LittleEndian.PutUint16(buf[2*j:], uint16(v))
		}
		if _, err := w.Write(buf[:2*len(part)]); err != nil {
			return errors.Wrap(err, "audio: writing raw PCM failed")
		}
	}

	return nil
}

// ReadRawFile loads a raw s16le mono file recorded at rate.
func ReadRawFile(path string, rate int) (Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return Signal{}, errors.Wrapf(err, "audio: opening %s failed", path)
	}
	defer f.Close()

	s, err := DecodeRaw(bufio.NewReader(f), rate)
	if err != nil {
		return Signal{}, errors.Wrapf(err, "audio: decoding %s failed", path)
	}

	return s, nil
}

// WriteRawFile stores s as raw s16le at path, replacing any existing file.
func WriteRawFile(path string, s Signal) (err error) {
	var f *os.File
	if f, err = os.Create(path); err != nil {
		return errors.Wrapf(err, "audio: creating %s failed", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "audio: closing %s failed", path)
		}
	}()

	w := bufio.NewWriter(f)
	if err = EncodeRaw(w, s); err != nil {
		return errors.Wrapf(err, "audio: encoding %s failed", path)
	}
	if err = w.Flush(); err != nil {
		return errors.Wrapf(err, "audio: flushing %s failed", path)
	}

	return nil
}
