// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// DBToAmplitude converts a level in dB (relative to full scale) to a linear
// amplitude ratio.
func DBToAmplitude(db float64) float64 {
	return math.Pow(10, db/20)
}

// AmplitudeToDB is the inverse of DBToAmplitude. Zero maps to -Inf.
func AmplitudeToDB(amp float64) float64 {
	return 20 * math.Log10(amp)
}
