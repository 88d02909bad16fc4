// SPDX-License-Identifier: EPL-2.0

package chain

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/asticode/go-astilog"
	"github.com/ik5/acsim/audio"
	"github.com/ik5/acsim/formats"
	"github.com/ik5/acsim/formats/wav"
	"github.com/ik5/acsim/randstream"
	"github.com/ik5/acsim/recipe"
	"github.com/ik5/acsim/utils"
	"github.com/pkg/errors"
)

// DefaultWorkingRate is the rate every stage operates at.
const DefaultWorkingRate = 16000

// Options configures an Executor.
type Options struct {
	KeepIntermediates bool   `toml:"keep_intermediates"`
	OutputRate        int    `toml:"output_rate"`
	TempDir           string `toml:"temp_dir"`
	WorkingRate       int    `toml:"working_rate"`
}

// Runner applies a recipe to one input file.
type Runner interface {
	Apply(ctx context.Context, r recipe.Recipe, in, out string, s *randstream.Stream) error
}

// Executor applies recipes in-process, delegating the DSP kernels it does
// not implement itself to a Toolchain. It is safe for concurrent use as long
// as each call gets its own stream.
type Executor struct {
	assets   Assets
	o        Options
	registry *audio.Registry
	tools    Toolchain
	trimmer  VoiceTrimmer
}

func New(o Options, a Assets, t Toolchain) *Executor {
	if o.WorkingRate <= 0 {
		o.WorkingRate = DefaultWorkingRate
	}
	if o.OutputRate <= 0 {
		o.OutputRate = o.WorkingRate
	}
	return &Executor{
		assets:   a,
		o:        o,
		registry: formats.NewRegistry(),
		tools:    t,
		trimmer:  NewEnergyTrimmer(),
	}
}

// WithTrimmer replaces the voice trimmer used for level measurements.
func (e *Executor) WithTrimmer(v VoiceTrimmer) *Executor {
	e.trimmer = v
	return e
}

// WithRegistry replaces the in-process decoders.
func (e *Executor) WithRegistry(r *audio.Registry) *Executor {
	e.registry = r
	return e
}

// IntermediateName names the raw file produced by a stage: the input base
// name, the stage index and the stage kind.
func IntermediateName(base string, step int, kind string) string {
	return fmt.Sprintf("%s-%d-%s.raw", base, step, kind)
}

// job is the state of one Apply call.
type job struct {
	e    *Executor
	dir  string
	base string
	sig  audio.Signal
	cur  string
	step int
}

func (j *job) next(kind string) string {
	return filepath.Join(j.dir, IntermediateName(j.base, j.step, kind))
}

func (j *job) commit(path string, sig audio.Signal) {
	j.cur, j.sig = path, sig
	j.step++
}

// store commits a signal computed in-process.
func (j *job) store(kind string, sig audio.Signal) error {
	p := j.next(kind)
	if err := audio.WriteRawFile(p, sig); err != nil {
		return err
	}
	j.commit(p, sig)
	return nil
}

// tool commits the output of an external stage.
func (j *job) tool(kind string, run func(in, out string) error) error {
	p := j.next(kind)
	if err := run(j.cur, p); err != nil {
		return err
	}
	sig, err := audio.ReadRawFile(p, j.sig.Rate)
	if err != nil {
		return err
	}
	j.commit(p, sig)
	return nil
}

// open decodes path at the working rate, in-process when a decoder is
// registered for its extension and through the toolchain otherwise. Files the
// in-process decoder rejects (float or extensible WAV, for instance) are
// handed to the toolchain as well. raw is where a toolchain conversion is
// written.
func (e *Executor) open(ctx context.Context, path, raw string) (audio.Signal, error) {
	if _, ok := e.registry.Lookup(path); ok {
		sig, err := e.registry.Open(path, e.o.WorkingRate)
		if err == nil || e.tools == nil {
			return sig, err
		}
		astilog.Debugf("chain: decoding %s in-process failed, converting it with the toolchain: %v", path, err)
	}

	if e.tools == nil {
		return audio.Signal{}, errors.Wrapf(audio.ErrUnsupportedFormat, "chain: no toolchain to convert %s", path)
	}
	if err := e.tools.Convert(ctx, path, raw, e.o.WorkingRate); err != nil {
		return audio.Signal{}, errors.Wrapf(err, "chain: converting %s failed", path)
	}
	return audio.ReadRawFile(raw, e.o.WorkingRate)
}

// Apply runs r on in and writes the result to out. s supplies the
// stage-level draws (noise file and noise position); it may be nil for
// recipes without a Noise stage.
func (e *Executor) Apply(ctx context.Context, r recipe.Recipe, in, out string, s *randstream.Stream) (err error) {
	if _, err = os.Stat(in); err != nil {
		return errors.Wrapf(err, "chain: stat %s failed", in)
	}

	dir, err := os.MkdirTemp(e.o.TempDir, "acsim-")
	if err != nil {
		return errors.Wrap(err, "chain: creating temp dir failed")
	}
	if e.o.KeepIntermediates {
		astilog.Infof("chain: keeping intermediates of %s in %s", in, dir)
	} else {
		defer os.RemoveAll(dir)
	}

	j := &job{e: e, dir: dir, base: filepath.Base(in)}
	j.cur = filepath.Join(dir, j.base+".raw")

	if j.sig, err = e.open(ctx, in, j.cur); err != nil {
		return err
	}
	if _, serr := os.Stat(j.cur); serr != nil {
		if err = audio.WriteRawFile(j.cur, j.sig); err != nil {
			return err
		}
	}

	for _, st := range r {
		if err = ctx.Err(); err != nil {
			return errors.Wrapf(err, "chain: applying %s to %s interrupted", r, in)
		}

		astilog.Debugf("chain: applying %s to %s", recipe.Token(st), in)
		if err = e.apply(ctx, j, st, s); err != nil {
			return errors.Wrapf(err, "chain: applying %s to %s failed", recipe.Token(st), in)
		}
	}

	return e.export(ctx, j, out)
}

func (e *Executor) apply(ctx context.Context, j *job, st recipe.Stage, s *randstream.Stream) error {
	switch st := st.(type) {
	case recipe.Normalize:
		sig, err := e.normalize(ctx, j.sig, st.LevelDB)
		if err != nil {
			return err
		}
		return j.store(st.Kind(), sig)

	case recipe.Noise:
		sig, ok, err := e.noise(ctx, j, st, s)
		if err != nil || !ok {
			return err
		}
		return j.store(st.Kind(), sig)

	case recipe.Bandpass:
		if e.tools == nil {
			return errors.New("chain: bandpass needs a toolchain")
		}
		return j.tool(st.Kind(), func(in, out string) error {
			return e.tools.Bandpass(ctx, in, out, j.sig.Rate, st.Low, st.High)
		})

	case recipe.Codec:
		return e.codec(ctx, j, st)
	}

	return errors.Errorf("chain: unknown stage %T", st)
}

func (e *Executor) normalize(ctx context.Context, sig audio.Signal, level float64) (audio.Signal, error) {
	rms, err := speechRMS(ctx, e.trimmer, sig)
	if err != nil {
		return audio.Signal{}, err
	}
	if rms == 0 {
		astilog.Infof("chain: signal is silent, leaving level untouched")
		return sig, nil
	}

	gain := utils.DBToAmplitude(level) / rms
	astilog.Debugf("chain: speech rms %.6f, gain %.4f for %g dB", rms, gain, level)
	return sig.Scale(gain), nil
}

// noise mixes a drawn asset into the current signal. It reports false when
// no asset matches the filter, in which case the stage is skipped.
func (e *Executor) noise(ctx context.Context, j *job, n recipe.Noise, s *randstream.Stream) (audio.Signal, bool, error) {
	eligible := e.assets.Eligible(n.Filter)
	if len(eligible) == 0 {
		astilog.Infof("chain: no noise files available for filter %s, skipping noise stage", strings.Join(n.Filter, "|"))
		return audio.Signal{}, false, nil
	}
	if s == nil {
		return audio.Signal{}, false, ErrNoStream
	}

	path, err := randstream.Choice(s, eligible)
	if err != nil {
		return audio.Signal{}, false, err
	}

	noise, err := e.open(ctx, path, filepath.Join(j.dir, fmt.Sprintf("%s-%d-noise-asset.raw", j.base, j.step)))
	if err != nil {
		return audio.Signal{}, false, err
	}
	noiseRMS := noise.RMS()
	if noiseRMS == 0 {
		return audio.Signal{}, false, errors.Wrapf(ErrSilentNoise, "chain: noise %s", path)
	}

	speech, err := speechRMS(ctx, e.trimmer, j.sig)
	if err != nil {
		return audio.Signal{}, false, err
	}

	rate := float64(j.sig.Rate)
	span := int(math.Max(0, noise.Seconds()-j.sig.Seconds()) * rate)
	start := s.Bounded(span)

	scale := speech / noiseRMS / utils.DBToAmplitude(n.SNRDB)
	astilog.Debugf("chain: mixing %s from sample %d with scale %.6f at %g dB SNR", path, start, scale, n.SNRDB)

	out, err := audio.Mix(j.sig, noise.Segment(start, j.sig.Len()), scale)
	if err != nil {
		return audio.Signal{}, false, err
	}
	return out, true, nil
}

func (e *Executor) codec(ctx context.Context, j *job, c recipe.Codec) error {
	switch c.Name {
	case "opus", "silk", "silkwb":
		sig, err := opusRoundTrip(c, j.sig)
		if err != nil {
			return err
		}
		return j.store(c.Name, sig)
	}

	if e.tools != nil {
		p := j.next(c.Name)
		ok, err := e.tools.Codec(ctx, c, j.cur, p, j.sig.Rate)
		if err != nil {
			return err
		}
		if ok {
			sig, err := audio.ReadRawFile(p, j.sig.Rate)
			if err != nil {
				return err
			}
			j.commit(p, sig)
			return nil
		}
	}

	astilog.Infof("chain: no emulation for codec %s, passing audio through", recipe.Token(c))
	return j.store(c.Name, j.sig)
}

// partialName is where out is written before being renamed into place, so
// an interrupted run never leaves a truncated output under its final name.
func partialName(out string) string {
	dir, name := filepath.Split(out)
	ext := filepath.Ext(name)
	return filepath.Join(dir, "."+strings.TrimSuffix(name, ext)+".partial"+ext)
}

func (e *Executor) export(ctx context.Context, j *job, out string) (err error) {
	if err = os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return errors.Wrapf(err, "chain: creating %s failed", filepath.Dir(out))
	}

	tmp := partialName(out)
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if strings.EqualFold(filepath.Ext(out), ".wav") && e.o.OutputRate == j.sig.Rate {
		err = wav.WriteFile(tmp, j.sig)
	} else if e.tools != nil {
		err = e.tools.Export(ctx, j.cur, tmp, j.sig.Rate, e.o.OutputRate)
	} else {
		err = errors.Errorf("chain: exporting %s at %d Hz needs a toolchain", out, e.o.OutputRate)
	}
	if err != nil {
		return err
	}

	if err = os.Rename(tmp, out); err != nil {
		return errors.Wrapf(err, "chain: renaming %s to %s failed", tmp, out)
	}
	return nil
}
