// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// Sine returns n samples of a sine at freq Hz with peak amplitude amp
// (normalized, 0..1) as int16 PCM.
func Sine(rate, n int, freq, amp float64) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(math.Round(amp * 32767 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))))
	}
	return out
}

// WAV16 builds a canonical 44-byte-header PCM16 WAV file in memory.
func WAV16(rate, channels int, samples []int16) []byte {
	buf := new(bytes.Buffer)
	dataSize := uint32(len(samples) * 2)

	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(rate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(rate*channels*2))
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels*2))
	_ = binary.Write(buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, dataSize)
	_ = binary.Write(buf, binary.LittleEndian, samples)

	return buf.Bytes()
}

// WAVFloat32 builds an IEEE float (format 3) mono WAV file in memory.
func WAVFloat32(rate int, samples []float32) []byte {
	buf := new(bytes.Buffer)
	dataSize := uint32(len(samples) * 4)

	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(3))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(buf, binary.LittleEndian, uint32(rate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(rate*4))
	_ = binary.Write(buf, binary.LittleEndian, uint16(4))
	_ = binary.Write(buf, binary.LittleEndian, uint16(32))
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, dataSize)
	_ = binary.Write(buf, binary.LittleEndian, samples)

	return buf.Bytes()
}

// WriteFile writes data to dir/name, creating parent directories, and
// returns the full path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()

	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}

	return p
}

// WriteStreamFile stores values one per line, the random stream file format.
func WriteStreamFile(t testing.TB, dir string, values []uint64) string {
	t.Helper()

	lines := make([]string, len(values))
	for i, v := range values {
		lines[i] = strconv.FormatUint(v, 10)
	}

	return WriteFile(t, dir, "random", []byte(strings.Join(lines, "\n")+"\n"))
}

// WriteList stores paths one per line.
func WriteList(t testing.TB, dir, name string, paths []string) string {
	t.Helper()

	return WriteFile(t, dir, name, []byte(strings.Join(paths, "\n")+"\n"))
}

// StreamValues returns n deterministic values spread over [0, MaxInt64]
// using a 64-bit LCG, good enough to exercise every branch of a sampler.
func StreamValues(n int, seed uint64) []uint64 {
	out := make([]uint64, n)
	x := seed
	for i := range out {
		x = x*6364136223846793005 + 1442695040888963407
		out[i] = x >> 1
	}
	return out
}
