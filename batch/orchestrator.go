// SPDX-License-Identifier: EPL-2.0

package batch

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/asticode/go-astilog"
	"github.com/ik5/acsim/chain"
	"github.com/ik5/acsim/randstream"
	"github.com/ik5/acsim/recipe"
	"github.com/pkg/errors"
)

// minOutputSize is the size an existing output must exceed to be skipped.
const minOutputSize = 2

// Options configures an Orchestrator.
type Options struct {
	ContinueOnError bool `toml:"continue_on_error"`
	Workers         int  `toml:"workers"`
}

// Stats counts what happened to the files of one run.
type Stats struct {
	Failed    int
	Processed int
	Skipped   int
}

// Orchestrator samples recipes for a file list and hands them to a runner.
type Orchestrator struct {
	o      Options
	runner chain.Runner
	stream *randstream.Stream

	mtx   sync.Mutex
	stats Stats
}

func New(o Options, r chain.Runner, s *randstream.Stream) *Orchestrator {
	if o.Workers <= 0 {
		o.Workers = 1
	}
	return &Orchestrator{o: o, runner: r, stream: s}
}

// Stats returns the counters of the last Run.
func (o *Orchestrator) Stats() Stats {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	return o.stats
}

type job struct {
	index  int
	in     string
	out    string
	recipe recipe.Recipe
	stream *randstream.Stream
}

type result struct {
	index int
	out   string
	err   error
}

// RunAll runs every concrete condition cond expands to, one after the other,
// and returns their manifests.
func (o *Orchestrator) RunAll(ctx context.Context, files []string, cond recipe.Condition, outDir string) (manifests []string, err error) {
	for _, c := range cond.Expand() {
		var m string
		if m, err = o.Run(ctx, files, c, outDir); err != nil {
			return
		}
		manifests = append(manifests, m)
	}
	return
}

// ManifestPath returns where Run writes the manifest for cond.
func ManifestPath(outDir string, cond recipe.Condition) string {
	return filepath.Join(outDir, cond.Dir()) + ".scp"
}

// Run degrades files under cond into <outDir>/<cond dir> and returns the
// manifest path. The manifest is truncated first and lists the outputs in
// the order of files.
func (o *Orchestrator) Run(ctx context.Context, files []string, cond recipe.Condition, outDir string) (path string, err error) {
	if cond.Family == recipe.FamilyAll {
		err = ErrFamilyAll
		return
	}
	if o.runner == nil {
		err = ErrNoRunner
		return
	}
	if o.stream == nil {
		err = ErrNoStream
		return
	}

	dir := filepath.Join(outDir, cond.Dir())
	if err = os.MkdirAll(dir, 0755); err != nil {
		err = errors.Wrapf(err, "batch: mkdirall %s failed", dir)
		return
	}

	path = ManifestPath(outDir, cond)
	var m *manifest
	if m, err = createManifest(path); err != nil {
		return
	}
	defer func() {
		if errClose := m.Close(); errClose != nil && err == nil {
			err = errors.Wrapf(errClose, "batch: closing %s failed", path)
		}
	}()

	o.mtx.Lock()
	o.stats = Stats{}
	o.mtx.Unlock()

	astilog.Infof("batch: running %d files under %s with %d workers", len(files), cond, o.o.Workers)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan job)
	results := make(chan result, len(files))

	var wg sync.WaitGroup
	for range o.o.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- o.work(runCtx, j)
			}
		}()
	}

	var produceErr error
	go func() {
		defer func() {
			close(jobs)
			wg.Wait()
			close(results)
		}()
		produceErr = o.produce(runCtx, files, cond, dir, jobs, results)
	}()

	var firstErr error
	for r := range results {
		// the manifest ends at the first fatal failure
		if firstErr != nil {
			continue
		}
		if r.err != nil && !o.isolated(r.err) {
			firstErr = r.err
			cancel()
			continue
		}
		if errAdd := m.add(r); errAdd != nil {
			firstErr = errAdd
			cancel()
		}
	}

	s := o.Stats()
	astilog.Infof("batch: %s done: %d processed, %d skipped, %d failed, %d listed in %s", cond, s.Processed, s.Skipped, s.Failed, m.written, path)

	switch {
	case ctx.Err() != nil:
		err = errors.Wrapf(ctx.Err(), "batch: running %s interrupted", cond)
	case firstErr != nil:
		err = errors.Wrapf(firstErr, "batch: running %s failed", cond)
	case produceErr != nil:
		err = produceErr
	}
	return
}

// produce samples a recipe per file, in order, on a single goroutine. Files
// whose output already exists are settled without a job.
func (o *Orchestrator) produce(ctx context.Context, files []string, cond recipe.Condition, dir string, jobs chan<- job, results chan<- result) error {
	for i, in := range files {
		if ctx.Err() != nil {
			return nil
		}

		r, err := recipe.Sample(cond, o.stream)
		if err != nil {
			return errors.Wrapf(err, "batch: sampling recipe for %s failed", in)
		}

		j := job{
			index:  i,
			in:     in,
			out:    filepath.Join(dir, recipe.FileName(in, r)),
			recipe: r,
			stream: o.stream.Fork(),
		}

		if exists(j.out) {
			astilog.Debugf("batch: skipping %s, %s exists", in, j.out)
			o.count(func(s *Stats) { s.Skipped++ })
			results <- result{index: i, out: j.out}
			continue
		}

		select {
		case jobs <- j:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

func exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular() && fi.Size() > minOutputSize
}

func (o *Orchestrator) count(fn func(s *Stats)) {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	fn(&o.stats)
}

// isolated reports whether a failure only costs its own file.
func (o *Orchestrator) isolated(err error) bool {
	return o.o.ContinueOnError || errors.Is(err, chain.ErrToolTimeout)
}

func (o *Orchestrator) work(ctx context.Context, j job) result {
	if ctx.Err() != nil {
		return result{index: j.index, out: j.out, err: ctx.Err()}
	}

	astilog.Debugf("batch: applying %s to %s", j.recipe, j.in)
	if err := o.runner.Apply(ctx, j.recipe, j.in, j.out, j.stream); err != nil {
		o.count(func(s *Stats) { s.Failed++ })
		err = errors.Wrapf(err, "batch: degrading %s failed", j.in)
		if ctx.Err() == nil && o.isolated(err) {
			astilog.Error(err)
		}
		return result{index: j.index, out: j.out, err: err}
	}

	o.count(func(s *Stats) { s.Processed++ })
	astilog.Infof("batch: wrote %s", j.out)
	return result{index: j.index, out: j.out}
}
