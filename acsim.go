// SPDX-License-Identifier: EPL-2.0

package acsim

import (
	"context"
	"time"

	"github.com/asticode/go-astilog"
	"github.com/ik5/acsim/batch"
	"github.com/ik5/acsim/chain"
	"github.com/ik5/acsim/randstream"
	"github.com/ik5/acsim/recipe"
	"github.com/ik5/acsim/utils"
	"github.com/pkg/errors"
)

// Voice activity detectors selectable through Options.VAD.
const (
	VADEnergy = "energy"
	VADSoX    = "sox"
)

// Options gathers everything a degradation run is configured with.
type Options struct {
	Batch      batch.Options     `toml:"batch"`
	Chain      chain.Options     `toml:"chain"`
	Lists      chain.AssetLists  `toml:"lists"`
	Seed       string            `toml:"seed"`
	StreamFile string            `toml:"stream_file"`
	Subprocess SubprocessOptions `toml:"subprocess"`
	Tools      chain.SoXOptions  `toml:"tools"`
	VAD        string            `toml:"vad"`
}

// SubprocessOptions switches the per-file work to a separate acsim-chain
// process.
type SubprocessOptions struct {
	Binary  string        `toml:"binary"`
	Debug   bool          `toml:"debug"`
	Enabled bool          `toml:"enabled"`
	Timeout time.Duration `toml:"timeout"`
}

// Stream loads the random stream file positioned at the seed.
func (o Options) Stream() (*randstream.Stream, error) {
	return randstream.Load(o.StreamFile, o.Seed)
}

// NewExecutor builds an in-process executor backed by SoX and ffmpeg.
func NewExecutor(o Options) (*chain.Executor, error) {
	a, err := chain.LoadAssets(o.Lists)
	if err != nil {
		return nil, errors.Wrap(err, "acsim: loading assets failed")
	}
	astilog.Debugf("acsim: %d noise files, %d device responses, %d space responses", len(a.Noise), len(a.DeviceIR), len(a.SpaceIR))

	t := chain.NewSoX(o.Tools)
	e := chain.New(o.Chain, a, t)

	switch o.VAD {
	case "", VADEnergy:
	case VADSoX:
		e = e.WithTrimmer(chain.ToolTrimmer{Tools: t, Dir: o.Chain.TempDir})
	default:
		return nil, errors.Errorf("acsim: unknown vad %q", o.VAD)
	}

	return e, nil
}

// NewRunner returns the runner a batch uses: a Subprocess when enabled, an
// in-process executor otherwise.
func NewRunner(o Options) (chain.Runner, error) {
	if !o.Subprocess.Enabled {
		return NewExecutor(o)
	}

	return &chain.Subprocess{
		Binary:      o.Subprocess.Binary,
		Debug:       o.Subprocess.Debug,
		Lists:       o.Lists,
		OutputRate:  o.Chain.OutputRate,
		StreamFile:  o.StreamFile,
		TempDir:     o.Chain.TempDir,
		Timeout:     o.Subprocess.Timeout,
		ToolTimeout: o.Tools.Timeout,
		Trimmer:     o.VAD,
	}, nil
}

// DegradeFile applies a chain string to a single file. The stream is only
// loaded when a stream file is configured; recipes with a noise stage need
// one.
func DegradeFile(ctx context.Context, o Options, chainStr, in, out string) error {
	r, err := recipe.Parse(chainStr)
	if err != nil {
		return errors.Wrapf(err, "acsim: parsing chain %q failed", chainStr)
	}

	var s *randstream.Stream
	if o.StreamFile != "" {
		if s, err = o.Stream(); err != nil {
			return err
		}
	}

	e, err := NewExecutor(o)
	if err != nil {
		return err
	}

	return e.Apply(ctx, r, in, out, s)
}

// DegradeList degrades every file of the list at path under cond and returns
// the manifests written to outDir. A nil runner means NewRunner(o).
func DegradeList(ctx context.Context, o Options, r chain.Runner, cond recipe.Condition, path, outDir string) ([]string, error) {
	files, err := utils.ReadList(path)
	if err != nil {
		return nil, err
	}

	s, err := o.Stream()
	if err != nil {
		return nil, err
	}

	if r == nil {
		if r, err = NewRunner(o); err != nil {
			return nil, err
		}
	}

	return batch.New(o.Batch, r, s).RunAll(ctx, files, cond, outDir)
}

// Preview samples the recipes a run over files would use, without touching
// any audio. The stream advances exactly as it would during the run.
func Preview(files []string, cond recipe.Condition, s *randstream.Stream) ([]recipe.Recipe, error) {
	var out []recipe.Recipe
	for _, c := range cond.Expand() {
		for _, f := range files {
			r, err := recipe.Sample(c, s)
			if err != nil {
				return nil, errors.Wrapf(err, "acsim: sampling %s for %s failed", c, f)
			}
			out = append(out, r)
		}
	}
	return out, nil
}
