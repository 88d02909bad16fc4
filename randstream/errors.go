// SPDX-License-Identifier: EPL-2.0

package randstream

import "github.com/pkg/errors"

var (
	ErrEmptyStream = errors.New("random stream has no values")
	ErrInvalidSeed = errors.New("seed must be a non-negative integer")
	ErrEmptyList   = errors.New("cannot choose from an empty list")
	ErrBadValue    = errors.New("random stream value must be a non-negative 64-bit integer")
)
