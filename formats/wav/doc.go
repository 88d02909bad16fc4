// SPDX-License-Identifier: EPL-2.0

// Package wav decodes integer PCM WAV files and writes the mono 16-bit WAV
// files the degradation chain produces.
//
// Both directions go through github.com/go-audio/wav; go-audio/audio
// supplies the IntBuffer the samples travel in.
//
// # Supported Formats
//
// The decoder accepts:
//   - Integer PCM (format tag 1) at 8, 16, 24 and 32 bits
//   - Any channel count, interleaved
//   - Any sample rate
//
// 8-bit WAV samples are unsigned and are re-centred before scaling. Every
// other depth is signed and divided by its full scale, so the output of a
// 16-bit file is the sample value over 32768.
//
// IEEE float WAVs (format tag 3) and compressed WAVs (A-law, GSM and the
// like) are rejected with ErrOnlyPCMSupported. The chain executor hands
// such files to the external toolchain for conversion instead.
//
// # Decoding WAV Files
//
// Decode takes any io.Reader. Seekable readers are decoded in place; others
// are buffered in memory first because go-audio/wav seeks to find the data
// chunk:
//
//	f, err := os.Open("corpus/spk01/utt001.wav")
//	if err != nil {
//		return err
//	}
//	defer f.Close()
//
//	src, err := wav.Decoder{}.Decode(f)
//	if err != nil {
//		return err
//	}
//
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
//
// The returned audio.Source yields float32 samples in [-1,1]. Most callers
// never read it directly; audio.Registry.Open decodes, mixes to mono and
// resamples in one call.
//
// # Writing WAV Files
//
// The last chain step writes its result with WriteFile:
//
//	err := wav.WriteFile("out/landline/utt001-norm.rms-26-g711.lawu.wav", sig)
//
// Output is always mono 16-bit PCM at the rate of the signal. Encode writes
// to an io.WriteSeeker since the RIFF and data chunk sizes are patched when
// the encoder closes.
//
// # Error Handling
//
// The package defines:
//   - ErrNotWavFile: the input has no RIFF/WAVE header
//   - ErrOnlyPCMSupported: the format tag is not integer PCM
//   - ErrUnsupportedBitDepth: the depth is not 8, 16, 24 or 32
//   - ErrEmptySignal: Encode was given a signal without a sample rate
//
// Errors are wrapped with github.com/pkg/errors, so test them with
// errors.Is:
//
//	if _, err := wav.Decoder{}.Decode(f); errors.Is(err, wav.ErrOnlyPCMSupported) {
//		// convert with the toolchain
//	}
package wav
