// SPDX-License-Identifier: EPL-2.0

// Package chain applies a degradation recipe to one recording.
//
// The input is decoded to mono 16-bit PCM at the working rate and every
// stage turns the current signal into the next one:
//
//   - norm scales the signal so its voice-active RMS sits at the level
//   - noise draws a noise asset and a start position from the stream and
//     mixes a speech-length segment in at the requested SNR
//   - bp band-limits through the toolchain (SoX sinc)
//   - codecs run an encode/decode round trip, in-process for opus and
//     through SoX or ffmpeg for the others
//
// Each stage leaves a raw s16le artifact named by IntermediateName in a
// per-call temporary directory. Artifacts are removed when the call returns
// unless Options.KeepIntermediates is set.
//
// A noise stage whose filter matches no asset is skipped. Any other failure
// aborts the file.
package chain
