// SPDX-License-Identifier: EPL-2.0

package audio

import "github.com/pkg/errors"

var (
	ErrInvalidDstSize    = errors.New("dst size must be multiple of channels")
	ErrUnsupportedFormat = errors.New("no decoder registered for format")
	ErrRateMismatch      = errors.New("signals have different sample rates")
	ErrOddRawLength      = errors.New("raw PCM length is not a multiple of 2 bytes")
)
