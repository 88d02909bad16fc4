// SPDX-License-Identifier: EPL-2.0

package chain

import (
	"context"
	"strconv"
	"time"

	"github.com/ik5/acsim/randstream"
	"github.com/ik5/acsim/recipe"
	"github.com/pkg/errors"
)

// Subprocess runs each file through a separate acsim-chain process. The
// child re-seeds its own stream with the cursor of s, so its draws continue
// the sequence exactly where the parent left it.
type Subprocess struct {
	Binary     string
	Debug      bool
	Lists      AssetLists
	OutputRate int
	StreamFile string
	TempDir    string
	Timeout    time.Duration // whole child process
	// ToolTimeout bounds each tool call inside the child.
	ToolTimeout time.Duration
	Trimmer     string
}

// Args builds the argument list of the child process. Every value is its
// own argument; nothing goes through a shell.
func (p *Subprocess) Args(r recipe.Recipe, in, out string, s *randstream.Stream) ([]string, error) {
	chain, err := recipe.Encode(r)
	if err != nil {
		return nil, err
	}

	var args []string
	if s != nil {
		args = append(args, "-s", strconv.Itoa(s.Cursor()))
	}
	if p.StreamFile != "" {
		args = append(args, "-R", p.StreamFile)
	}
	if p.OutputRate > 0 {
		args = append(args, "-r", strconv.Itoa(p.OutputRate))
	}
	if p.Trimmer != "" {
		args = append(args, "-vad", p.Trimmer)
	}
	if p.TempDir != "" {
		args = append(args, "-t", p.TempDir)
	}
	if p.ToolTimeout > 0 {
		args = append(args, "-timeout", p.ToolTimeout.String())
	}
	args = append(args, "-c", chain)
	for _, l := range []struct{ flag, path string }{
		{"-D", p.Lists.DeviceIR},
		{"-P", p.Lists.SpaceIR},
		{"-N", p.Lists.Noise},
	} {
		if l.path != "" {
			args = append(args, l.flag, l.path)
		}
	}
	if p.Debug {
		args = append(args, "-d")
	}

	return append(args, in, out), nil
}

func (p *Subprocess) Apply(ctx context.Context, r recipe.Recipe, in, out string, s *randstream.Stream) error {
	args, err := p.Args(r, in, out, s)
	if err != nil {
		return errors.Wrapf(err, "chain: encoding recipe for %s failed", in)
	}

	bin := p.Binary
	if bin == "" {
		bin = "acsim-chain"
	}
	return runTool(ctx, p.Timeout, bin, args...)
}
