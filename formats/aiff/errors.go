// SPDX-License-Identifier: EPL-2.0

package aiff

import "github.com/pkg/errors"

var (
	ErrNotAiffFile         = errors.New("not an AIFF file")
	ErrUnsupportedBitDepth = errors.New("unsupported AIFF bit depth")
	ErrMissingFormat       = errors.New("AIFF file has no COMM chunk")
)
