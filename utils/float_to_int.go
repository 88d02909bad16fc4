// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Float32ToPCM16 converts a normalized sample to 16-bit PCM. It is the exact
// inverse of Int16ToFloat32: x is scaled by 32768, rounded and saturated.
func Float32ToPCM16(x float32) int16 {
	return ClampInt16(float64(x) * 32768.0)
}

// Int16ToFloat32 maps a 16-bit PCM sample to [-1,1).
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768.0
}

// ClampInt16 rounds v to the nearest integer and saturates it to the int16 range.
func ClampInt16(v float64) int16 {
	v = math.Round(v)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}

	return int16(v)
}
