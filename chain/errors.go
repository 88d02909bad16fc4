// SPDX-License-Identifier: EPL-2.0

package chain

import "github.com/pkg/errors"

var (
	ErrToolTimeout       = errors.New("external tool timed out")
	ErrSilentNoise       = errors.New("noise asset has zero RMS")
	ErrInvalidCodecParam = errors.New("invalid codec parameter")
	ErrNoStream          = errors.New("a random stream is required for noise stages")
)
