// SPDX-License-Identifier: EPL-2.0

// Package recipe describes what happens to a file: the stages of a
// degradation chain, the acoustic condition that selects them, and the
// sampler that draws a recipe from a random stream.
//
// A recipe travels between processes as a chain string:
//
//	norm[rms=-26]:noise[filter=ambience-public|ambience-music,snr=8]:bp[cutoff=300-3400]:g711[law=u]
//
// Stage names, option keys and option values never contain any of "[],:=".
// Noise filter tags are joined with "|".
package recipe
