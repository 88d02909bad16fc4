// SPDX-License-Identifier: EPL-2.0

package wav

import "github.com/pkg/errors"

var (
	ErrNotWavFile          = errors.New("not a WAV file")
	ErrOnlyPCMSupported    = errors.New("only integer PCM WAV is supported")
	ErrUnsupportedBitDepth = errors.New("unsupported WAV bit depth")
	ErrEmptySignal         = errors.New("signal has no sample rate")
)
