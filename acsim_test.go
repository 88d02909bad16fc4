// SPDX-License-Identifier: EPL-2.0

package acsim

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ik5/acsim/batch"
	"github.com/ik5/acsim/chain"
	"github.com/ik5/acsim/formats"
	"github.com/ik5/acsim/internal/audiotest"
	"github.com/ik5/acsim/randstream"
	"github.com/ik5/acsim/recipe"
	"github.com/ik5/acsim/utils"
)

func TestDegradeFile_Normalize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := audiotest.WriteFile(t, dir, "in.wav", audiotest.WAV16(16000, 1, audiotest.Sine(16000, 16000, 300, 0.05)))
	out := filepath.Join(dir, "out.wav")

	o := Options{Chain: chain.Options{TempDir: dir}}
	if err := DegradeFile(context.Background(), o, "norm[rms=-29]", in, out); err != nil {
		t.Fatalf("DegradeFile() error = %v", err)
	}

	s, err := formats.NewRegistry().Open(out, 16000)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := utils.AmplitudeToDB(s.RMS()); math.Abs(got+29) > 0.1 {
		t.Errorf("output level = %.2f dB, want -29", got)
	}
}

func TestDegradeFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := audiotest.WriteFile(t, dir, "in.wav", audiotest.WAV16(16000, 1, audiotest.Sine(16000, 1600, 300, 0.05)))

	tests := []struct {
		name     string
		o        Options
		chainStr string
		in       string
	}{
		{name: "bad chain", chainStr: "norm[rms=loud]", in: in},
		{name: "missing input", chainStr: "norm[rms=-26]", in: filepath.Join(dir, "nope.wav")},
		{name: "missing stream", o: Options{StreamFile: filepath.Join(dir, "random")}, chainStr: "norm[rms=-26]", in: in},
		{name: "unknown vad", o: Options{VAD: "webrtc"}, chainStr: "norm[rms=-26]", in: in},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tt.o.Chain.TempDir = dir
			err := DegradeFile(context.Background(), tt.o, tt.chainStr, tt.in, filepath.Join(dir, "out-"+strings.ReplaceAll(tt.name, " ", "-")+".wav"))
			if err == nil {
				t.Errorf("DegradeFile() error = nil, want error")
			}
		})
	}
}

func TestDegradeList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var files []string
	for _, name := range []string{"a.wav", "b.wav", "c.wav"} {
		files = append(files, audiotest.WriteFile(t, dir, name, audiotest.WAV16(16000, 1, audiotest.Sine(16000, 3200, 250, 0.2))))
	}

	o := Options{
		Batch:      batch.Options{Workers: 2},
		Chain:      chain.Options{TempDir: dir},
		StreamFile: audiotest.WriteStreamFile(t, dir, audiotest.StreamValues(64, 7)),
	}
	list := audiotest.WriteList(t, dir, "speech.list", files)
	outDir := filepath.Join(dir, "out")

	manifests, err := DegradeList(context.Background(), o, nil, recipe.Condition{Family: recipe.FamilyNoCodec}, list, outDir)
	if err != nil {
		t.Fatalf("DegradeList() error = %v", err)
	}
	if len(manifests) != 1 || manifests[0] != filepath.Join(outDir, "nocodec.scp") {
		t.Fatalf("DegradeList() manifests = %v", manifests)
	}

	lines, err := utils.ReadList(manifests[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != len(files) {
		t.Fatalf("manifest has %d lines, want %d", len(lines), len(files))
	}
	for i, l := range lines {
		base := strings.TrimSuffix(filepath.Base(files[i]), ".wav")
		if !strings.HasPrefix(filepath.Base(l), base+"-norm.rms") {
			t.Errorf("line %d = %s, want an output of %s", i, l, files[i])
		}
		if fi, err := os.Stat(l); err != nil || fi.Size() <= 44 {
			t.Errorf("output %s missing or empty", l)
		}
	}
}

func TestDegradeList_MissingList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	o := Options{StreamFile: audiotest.WriteStreamFile(t, dir, audiotest.StreamValues(8, 1))}
	if _, err := DegradeList(context.Background(), o, nil, recipe.Condition{Family: recipe.FamilyVoIP}, filepath.Join(dir, "none.list"), dir); err == nil {
		t.Error("DegradeList() error = nil, want error")
	}
}

func TestNewRunner(t *testing.T) {
	t.Parallel()

	r, err := NewRunner(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.(*chain.Executor); !ok {
		t.Errorf("NewRunner() = %T, want *chain.Executor", r)
	}

	o := Options{StreamFile: "random", VAD: VADSoX}
	o.Subprocess.Enabled = true
	o.Subprocess.Binary = "/opt/acsim/bin/acsim-chain"
	o.Subprocess.Timeout = 5 * time.Minute
	o.Chain.OutputRate = 8000
	o.Chain.TempDir = "/tmp/acsim-run-1"
	o.Tools.Timeout = time.Minute
	r, err = NewRunner(o)
	if err != nil {
		t.Fatal(err)
	}
	p, ok := r.(*chain.Subprocess)
	if !ok {
		t.Fatalf("NewRunner() = %T, want *chain.Subprocess", r)
	}
	if p.Binary != o.Subprocess.Binary || p.OutputRate != 8000 || p.StreamFile != "random" || p.Trimmer != VADSoX {
		t.Errorf("NewRunner() = %+v", p)
	}
	if p.TempDir != o.Chain.TempDir || p.Timeout != 5*time.Minute || p.ToolTimeout != time.Minute {
		t.Errorf("NewRunner() = %+v, want the run directory and both timeouts", p)
	}
}

func TestPreview(t *testing.T) {
	t.Parallel()

	values := audiotest.StreamValues(97, 3)
	files := []string{"a.wav", "b.wav", "c.wav"}
	cond := recipe.Condition{Family: recipe.FamilyAll, Noise: recipe.Noisy15}

	s, err := randstream.New(values, "11")
	if err != nil {
		t.Fatal(err)
	}
	got, err := Preview(files, cond, s)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(files)*len(recipe.Families) {
		t.Fatalf("Preview() returned %d recipes", len(got))
	}

	draws := 0
	for _, r := range got {
		draws += recipe.Draws(r)
	}
	if want := (11 + draws) % len(values); s.Cursor() != want {
		t.Errorf("cursor = %d, want %d", s.Cursor(), want)
	}

	again, _ := randstream.New(values, "11")
	second, err := Preview(files, cond, again)
	if err != nil {
		t.Fatal(err)
	}
	for i := range got {
		if got[i].String() != second[i].String() {
			t.Errorf("recipe %d = %s, then %s", i, got[i], second[i])
		}
	}
}
