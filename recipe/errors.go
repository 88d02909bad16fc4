// SPDX-License-Identifier: EPL-2.0

package recipe

import "github.com/pkg/errors"

var (
	ErrUnknownFamily         = errors.New("unknown codec family")
	ErrInvalidNoiseCondition = errors.New("the noisy condition should be either noisy08, noisy15 or noisy25")
	ErrReservedChar          = errors.New("chain value contains a reserved character")
	ErrMalformedStage        = errors.New("malformed stage")
	ErrMissingOption         = errors.New("required stage option missing")
	ErrInvalidOption         = errors.New("invalid stage option")
)
