// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 noise assets and inputs.
//
// Decoding is done by github.com/hajimehoshi/go-mp3, a pure Go decoder, so
// no external tool is involved for MP3 files.
//
// # Supported Formats
//
// The decoder supports:
//   - MPEG-1 and MPEG-2 Layer III
//   - Constant and variable bitrates
//   - Mono and stereo streams
//
// # Output Format
//
// go-mp3 always emits interleaved stereo s16le, upmixing mono streams. The
// source therefore reports two channels whatever the file holds:
//   - Samples: float32 in [-1,1], the s16 value over 32768
//   - Channels: always 2
//   - Sample rate: the rate of the stream, usually 44.1 or 48 kHz
//
// A read from go-mp3 may end on an odd byte. The byte is kept and joined to
// the next read so no sample is split.
//
// # Decoding MP3 Files
//
//	f, err := os.Open("noise/ambience-public/station.mp3")
//	if err != nil {
//		return err
//	}
//	defer f.Close()
//
//	src, err := mp3.Decoder{}.Decode(f)
//	if err != nil {
//		return err
//	}
//
// The chain needs mono at the working rate. audio.Collect takes care of
// both after decoding:
//
//	sig, err := audio.Collect(src, 16000)
//
// Registered in formats.NewRegistry under "mp3", files reach this decoder
// through audio.Registry.Open.
//
// # Limitations
//
//   - Decoding only. Encoding an mp3 stage of a chain is done by ffmpeg.
//   - A corrupt stream fails on the first read that hits it; the error is
//     wrapped as "mp3: decoding failed".
package mp3
