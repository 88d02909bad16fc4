// SPDX-License-Identifier: EPL-2.0

package batch

import "github.com/pkg/errors"

var (
	ErrFamilyAll = errors.New("batch: family all must be expanded with RunAll")
	ErrNoRunner  = errors.New("batch: no runner configured")
	ErrNoStream  = errors.New("batch: no random stream configured")
)
