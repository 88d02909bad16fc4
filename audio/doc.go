// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM primitives the degradation chain is built on.
//
// # Streaming sources
//
// Decoders produce a Source of interleaved float32 samples in [-1,1]. Sources
// chain: MonoMixer averages channels and Resampler converts the rate with
// cubic interpolation (with a one-pole anti-alias low-pass when
// downsampling):
//
//	mono := audio.NewMonoMixer(src)
//	res := audio.NewResampler(mono, 16000)
//
// Decoders may return reads that stop in the middle of a frame. MonoMixer
// keeps the leftover samples for the next read, and a partial frame at the
// very end of a stream is averaged over the channels it holds, so no
// sample is dropped.
//
// Collect drains such a pipeline into a Signal, and Registry.Open does the
// whole decode -> mono -> resample trip for a file, choosing the decoder by
// extension:
//
//	reg := formats.NewRegistry()
//	sig, err := reg.Open("noise/ambience-public/market.ogg", 16000)
//
// # Signals
//
// A Signal is a mono int16 buffer at a known rate. It carries the numeric
// operations of the chain: RMS (normalized like SoX's "RMS amplitude"),
// Scale (gain with saturation), Segment (zero padded slice) and Mix.
//
// Intermediate chain artifacts are headerless s16le files, read and written
// with ReadRawFile and WriteRawFile.
//
// # Voice activity
//
// EnergyVAD keeps the parts of a signal that belong to speech regions; the
// chain measures speech levels on that subset so leading and trailing
// silence does not bias gain and SNR computations.
//
// Detection runs on astipcm's SilenceDetector. The signal is cut into steps
// of StepDuration and a step is silent when its RMS is below
// MaxSilenceLevel. A speech region ends only after MinSilenceDuration of
// consecutive silent steps, so short pauses between words stay in the
// region while long gaps are dropped:
//
//	vad := audio.NewEnergyVAD()
//	vad.MinSilenceDuration = 500 * time.Millisecond
//	active := vad.VoiceActive(sig)
//	if active.Len() == 0 {
//		// no speech, measure the whole signal
//	}
//
// The silent steps at either end of a region are removed, so the result
// starts and ends on a voiced step (to within one step of the true edge).
package audio
