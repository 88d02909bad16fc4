// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes uncompressed AIFF files with github.com/go-audio/aiff.
//
// # Supported Formats
//
// The decoder accepts:
//   - Signed PCM at 8, 16, 24 and 32 bits
//   - Any channel count, interleaved
//   - Any sample rate from the COMM chunk
//
// AIFF samples are big-endian and signed at every depth, 8-bit included,
// so every depth is scaled the same way: the sample over 2^(depth-1).
//
// # Decoding AIFF Files
//
// Like WAV, AIFF is chunked and go-audio/aiff seeks through it. Readers that
// cannot seek are buffered in memory first:
//
//	f, err := os.Open("ir/device/handset.aiff")
//	if err != nil {
//		return err
//	}
//	defer f.Close()
//
//	src, err := aiff.Decoder{}.Decode(f)
//	if err != nil {
//		return err
//	}
//	sig, err := audio.Collect(src, 16000)
//
// The decoder is registered under "aif" and "aiff".
//
// # Error Handling
//
// The package defines:
//   - ErrNotAiffFile: the input has no FORM/AIFF header
//   - ErrUnsupportedBitDepth: the depth is not 8, 16, 24 or 32
//   - ErrMissingFormat: the file has no usable COMM chunk
//
// Compressed AIFF-C (ulaw, alaw, ima4) is outside what go-audio/aiff reads;
// convert such files to WAV before adding them to an asset list.
package aiff
