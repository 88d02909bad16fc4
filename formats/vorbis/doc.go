// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis assets with github.com/jfreymuth/oggvorbis.
//
// Noise collections are often distributed as .ogg files; this decoder lets
// them be mixed in without converting the collection first.
//
// # Output Format
//
// oggvorbis decodes straight to interleaved float32, so samples reach dst
// without conversion:
//   - Samples: float32, nominally in [-1,1]
//   - Channels: as stored in the stream
//   - Sample rate: as stored in the stream
//
// ReadSamples only fills whole frames. A dst whose length is not a multiple
// of the channel count is shortened to the last whole frame.
//
// # Decoding
//
//	f, err := os.Open("noise/ambience-babble/cafe.ogg")
//	if err != nil {
//		return err
//	}
//	defer f.Close()
//
//	src, err := vorbis.Decoder{}.Decode(f)
//	if err != nil {
//		return err
//	}
//	sig, err := audio.Collect(src, 16000)
//
// The decoder is registered under "ogg" and "oga".
//
// # Limitations
//
//   - Only Vorbis streams. Ogg containers carrying Opus or FLAC fail in
//     Decode with "vorbis: opening stream failed".
//   - Chained streams with changing channel counts are not supported.
package vorbis
