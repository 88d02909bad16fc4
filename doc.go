// SPDX-License-Identifier: EPL-2.0

// Package acsim degrades clean speech recordings into realistic channel
// conditions, reproducibly.
//
// Every random choice is read from a pre-generated stream of integers (see
// randstream), so a run over the same file list, stream file and seed always
// produces the same recipes and the same output files.
//
// # Conditions
//
// A condition names a codec family and a noise preset:
//
//	landline              clean landline codecs
//	cellular.noisy08      cellular codecs with ambience noise at 8 dB SNR
//	-                     every family, one after the other
//
// For each file a recipe is sampled (see recipe.Sample): a normalization
// level, an optional noise stage, a band-pass for narrowband codecs and a
// codec variant. Recipes travel as chain strings such as
//
//	norm[rms=-26]:noise[filter=ambience-public,snr=8]:bp[cutoff=300-3400]:g711[law=u]
//
// # Running
//
// DegradeList runs a whole list and writes one manifest per condition;
// DegradeFile applies a single chain string to a single file. Normalization
// and noise mixing run in-process. Filters and most codecs run through SoX
// and ffmpeg, which must be installed. The opus codec runs in-process.
//
// The acsim-degrade, acsim-chain and acsim-split commands wrap these
// functions.
package acsim
