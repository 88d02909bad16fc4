// SPDX-License-Identifier: EPL-2.0

package chain

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/asticode/go-astilog"
	"github.com/pkg/errors"
)

// runTool runs name with args under timeout (0 disables it). A failure
// carries the command line and whatever the tool printed on stderr.
func runTool(ctx context.Context, timeout time.Duration, name string, args ...string) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	line := strings.Join(cmd.Args, " ")
	astilog.Debugf("chain: executing %s", line)

	if err := cmd.Run(); err != nil {
		switch ctx.Err() {
		case context.DeadlineExceeded:
			return errors.Wrapf(ErrToolTimeout, "chain: running %s timed out after %s", line, timeout)
		case context.Canceled:
			return errors.Wrapf(ctx.Err(), "chain: running %s interrupted", line)
		}
		return errors.Wrapf(err, "chain: running %s failed with stderr %q", line, bytes.TrimSpace(stderr.Bytes()))
	}

	return nil
}
