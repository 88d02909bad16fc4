// SPDX-License-Identifier: EPL-2.0

package chain

import (
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ik5/acsim/audio"
	"github.com/ik5/acsim/formats"
	"github.com/ik5/acsim/internal/audiotest"
	"github.com/ik5/acsim/randstream"
	"github.com/ik5/acsim/recipe"
	"github.com/ik5/acsim/utils"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTools copies raw files around instead of running SoX.
type fakeTools struct {
	mtx     sync.Mutex
	calls   []string
	fail    map[string]error
	convert audio.Signal
}

func (f *fakeTools) record(op string) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	f.calls = append(f.calls, op)
	return f.fail[op]
}

func (f *fakeTools) Calls() []string {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	return append([]string(nil), f.calls...)
}

func copyFile(in, out string) error {
	src, err := os.Open(in)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		return err
	}
	if _, err = io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

func (f *fakeTools) Convert(_ context.Context, _, out string, _ int) error {
	if err := f.record("convert"); err != nil {
		return err
	}
	return audio.WriteRawFile(out, f.convert)
}

func (f *fakeTools) Bandpass(_ context.Context, in, out string, _, _, _ int) error {
	if err := f.record("bp"); err != nil {
		return err
	}
	return copyFile(in, out)
}

func (f *fakeTools) VoiceTrim(_ context.Context, in, out string, _ int) error {
	if err := f.record("vad"); err != nil {
		return err
	}
	return copyFile(in, out)
}

func (f *fakeTools) Codec(_ context.Context, c recipe.Codec, in, out string, _ int) (bool, error) {
	if err := f.record("codec:" + c.Name); err != nil {
		return false, err
	}
	if c.Name == "c2" {
		return false, nil
	}
	return true, copyFile(in, out)
}

func (f *fakeTools) Export(_ context.Context, _, out string, _, _ int) error {
	if err := f.record("export"); err != nil {
		return err
	}
	return os.WriteFile(out, []byte("exported"), 0o644)
}

func writeWAV(t *testing.T, dir, name string, rate int, samples []int16) string {
	t.Helper()
	return audiotest.WriteFile(t, dir, name, audiotest.WAV16(rate, 1, samples))
}

func readOutput(t *testing.T, path string) audio.Signal {
	t.Helper()

	s, err := formats.NewRegistry().Open(path, DefaultWorkingRate)
	require.NoError(t, err)
	return s
}

func newStream(t *testing.T, values ...uint64) *randstream.Stream {
	t.Helper()

	s, err := randstream.New(values, "")
	require.NoError(t, err)
	return s
}

func TestExecutor_Normalize(t *testing.T) {
	t.Parallel()

	for _, level := range recipe.Levels {
		dir := t.TempDir()
		in := writeWAV(t, dir, "in.wav", 16000, audiotest.Sine(16000, 16000, 300, 0.1))
		out := filepath.Join(dir, "out", "in-norm.wav")

		e := New(Options{TempDir: dir}, Assets{}, &fakeTools{})
		require.NoError(t, e.Apply(context.Background(), recipe.Recipe{recipe.Normalize{LevelDB: level}}, in, out, nil))

		got := utils.AmplitudeToDB(readOutput(t, out).RMS())
		assert.InDelta(t, level, got, 0.05, "level %g", level)
	}
}

func TestExecutor_NormalizeSilent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeWAV(t, dir, "in.wav", 16000, make([]int16, 1600))
	out := filepath.Join(dir, "out.wav")

	e := New(Options{TempDir: dir}, Assets{}, nil)
	require.NoError(t, e.Apply(context.Background(), recipe.Recipe{recipe.Normalize{LevelDB: -26}}, in, out, nil))
	assert.Equal(t, 0.0, readOutput(t, out).RMS())
}

func TestExecutor_NoiseSNR(t *testing.T) {
	t.Parallel()

	for _, snr := range []float64{8, 15, 25} {
		dir := t.TempDir()
		speech := audiotest.Sine(16000, 16000, 440, 0.3)
		in := writeWAV(t, dir, "in.wav", 16000, speech)
		noise := writeWAV(t, dir, "noise/ambience-public/n1.wav", 16000, audiotest.Sine(16000, 48000, 1000, 0.5))
		other := writeWAV(t, dir, "noise/ambience-impulsive/n2.wav", 16000, audiotest.Sine(16000, 48000, 50, 0.9))
		out := filepath.Join(dir, "out.wav")

		s := newStream(t, randstream.MaxInt/2, randstream.MaxInt/3)
		e := New(Options{TempDir: dir}, Assets{Noise: []string{other, noise}}, nil)

		r := recipe.Recipe{recipe.Noise{SNRDB: snr, Filter: []string{"ambience-public"}}}
		require.NoError(t, e.Apply(context.Background(), r, in, out, s))
		assert.Equal(t, 0, s.Cursor(), "asset and offset draws")

		mixed := readOutput(t, out)
		require.Equal(t, len(speech), mixed.Len())

		residual := audio.Signal{Rate: 16000, Samples: make([]int16, mixed.Len())}
		for i := range speech {
			residual.Samples[i] = mixed.Samples[i] - speech[i]
		}

		speechRMS := audio.Signal{Rate: 16000, Samples: speech}.RMS()
		got := utils.AmplitudeToDB(speechRMS / residual.RMS())
		assert.InDelta(t, snr, got, 0.1, "snr %g", snr)
	}
}

func TestExecutor_NoiseSkippedWithoutAssets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	speech := audiotest.Sine(16000, 8000, 440, 0.3)
	in := writeWAV(t, dir, "in.wav", 16000, speech)
	out := filepath.Join(dir, "out.wav")

	s := newStream(t, 1, 2, 3)
	e := New(Options{TempDir: dir, KeepIntermediates: true}, Assets{Noise: []string{"noise/ambience-impulsive/x.wav"}}, &fakeTools{})

	r := recipe.Recipe{recipe.Noise{SNRDB: 8, Filter: recipe.NoiseFilter}, recipe.Codec{Name: "g711"}}
	require.NoError(t, e.Apply(context.Background(), r, in, out, s))

	assert.Equal(t, 0, s.Cursor(), "skipped stage draws nothing")
	assert.Equal(t, speech, readOutput(t, out).Samples)

	// the skipped stage does not take a step number
	m, _ := filepath.Glob(filepath.Join(dir, "acsim-*", IntermediateName("in.wav", 0, "g711")))
	assert.Len(t, m, 1)
}

func TestExecutor_SilentNoiseAsset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeWAV(t, dir, "in.wav", 16000, audiotest.Sine(16000, 8000, 440, 0.3))
	noise := writeWAV(t, dir, "quiet.wav", 16000, make([]int16, 16000))

	e := New(Options{TempDir: dir}, Assets{Noise: []string{noise}}, nil)
	err := e.Apply(context.Background(), recipe.Recipe{recipe.Noise{SNRDB: 8}}, in, filepath.Join(dir, "out.wav"), newStream(t, 0))
	assert.ErrorIs(t, err, ErrSilentNoise)
	assert.Contains(t, err.Error(), noise)
}

func TestExecutor_NoiseWithoutStream(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeWAV(t, dir, "in.wav", 16000, audiotest.Sine(16000, 800, 440, 0.3))

	e := New(Options{TempDir: dir}, Assets{Noise: []string{in}}, nil)
	err := e.Apply(context.Background(), recipe.Recipe{recipe.Noise{SNRDB: 8}}, in, filepath.Join(dir, "out.wav"), nil)
	assert.ErrorIs(t, err, ErrNoStream)
}

func TestExecutor_ToolStages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeWAV(t, dir, "in.wav", 16000, audiotest.Sine(16000, 4000, 440, 0.3))
	out := filepath.Join(dir, "out.wav")

	tools := &fakeTools{}
	e := New(Options{TempDir: dir, KeepIntermediates: true}, Assets{}, tools)

	r, err := recipe.Parse("norm[rms=-26]:bp[cutoff=300-3400]:g711[law=u]:c2")
	require.NoError(t, err)
	require.NoError(t, e.Apply(context.Background(), r, in, out, nil))

	assert.Equal(t, []string{"bp", "codec:g711", "codec:c2"}, tools.Calls())

	for i, kind := range []string{"norm", "bp", "g711", "c2"} {
		m, _ := filepath.Glob(filepath.Join(dir, "acsim-*", IntermediateName("in.wav", i, kind)))
		assert.Len(t, m, 1, kind)
	}
	assert.FileExists(t, out)
}

func TestExecutor_RemovesIntermediates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tmp := filepath.Join(dir, "tmp")
	require.NoError(t, os.Mkdir(tmp, 0o755))
	in := writeWAV(t, dir, "in.wav", 16000, audiotest.Sine(16000, 4000, 440, 0.3))

	e := New(Options{TempDir: tmp}, Assets{}, &fakeTools{})
	require.NoError(t, e.Apply(context.Background(), recipe.Recipe{recipe.Bandpass{Low: 300, High: 3400}}, in, filepath.Join(dir, "out.wav"), nil))

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExecutor_ToolFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeWAV(t, dir, "in.wav", 16000, audiotest.Sine(16000, 4000, 440, 0.3))
	out := filepath.Join(dir, "out.wav")

	boom := errors.New("sox exploded")
	e := New(Options{TempDir: dir}, Assets{}, &fakeTools{fail: map[string]error{"bp": boom}})

	err := e.Apply(context.Background(), recipe.Recipe{recipe.Bandpass{Low: 300, High: 3400}}, in, out, nil)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "bp[cutoff=300-3400]")
	assert.NoFileExists(t, out)
}

func TestExecutor_ExportThroughToolchain(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeWAV(t, dir, "in.wav", 16000, audiotest.Sine(16000, 4000, 440, 0.3))
	out := filepath.Join(dir, "out.wav")

	tools := &fakeTools{}
	e := New(Options{TempDir: dir, OutputRate: 8000}, Assets{}, tools)
	require.NoError(t, e.Apply(context.Background(), nil, in, out, nil))

	assert.Equal(t, []string{"export"}, tools.Calls())
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "exported", string(b))
	assert.NoFileExists(t, partialName(out))
}

func TestExecutor_ConvertsUnknownInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := audiotest.WriteFile(t, dir, "utt.sph", []byte("NIST_1A"))
	out := filepath.Join(dir, "utt.wav")

	samples := audiotest.Sine(16000, 1600, 440, 0.3)
	tools := &fakeTools{convert: audio.Signal{Rate: 16000, Samples: samples}}
	e := New(Options{TempDir: dir}, Assets{}, tools)

	require.NoError(t, e.Apply(context.Background(), nil, in, out, nil))
	assert.Equal(t, []string{"convert"}, tools.Calls())
	assert.Equal(t, samples, readOutput(t, out).Samples)
}

func TestExecutor_FloatWAVFallsBackToToolchain(t *testing.T) {
	t.Parallel()

	pcm := make([]float32, 1600)
	for i := range pcm {
		pcm[i] = float32(0.3 * math.Sin(2*math.Pi*440*float64(i)/16000))
	}

	t.Run("input", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := audiotest.WriteFile(t, dir, "in.wav", audiotest.WAVFloat32(16000, pcm))
		out := filepath.Join(dir, "out.wav")

		samples := audiotest.Sine(16000, 1600, 440, 0.3)
		tools := &fakeTools{convert: audio.Signal{Rate: 16000, Samples: samples}}
		e := New(Options{TempDir: dir}, Assets{}, tools)

		require.NoError(t, e.Apply(context.Background(), nil, in, out, nil))
		assert.Equal(t, []string{"convert"}, tools.Calls())
		assert.Equal(t, samples, readOutput(t, out).Samples)
	})

	t.Run("noise asset", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeWAV(t, dir, "in.wav", 16000, audiotest.Sine(16000, 1600, 300, 0.3))
		noise := audiotest.WriteFile(t, dir, "ambience-babble.wav", audiotest.WAVFloat32(16000, pcm))
		out := filepath.Join(dir, "out.wav")

		tools := &fakeTools{convert: audio.Signal{Rate: 16000, Samples: audiotest.Sine(16000, 3200, 440, 0.3)}}
		e := New(Options{TempDir: dir}, Assets{Noise: []string{noise}}, tools)

		r := recipe.Recipe{recipe.Noise{SNRDB: 15}}
		require.NoError(t, e.Apply(context.Background(), r, in, out, newStream(t, 0)))
		assert.Equal(t, []string{"convert"}, tools.Calls())
		assert.FileExists(t, out)
	})

	t.Run("no toolchain", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := audiotest.WriteFile(t, dir, "in.wav", audiotest.WAVFloat32(16000, pcm))

		err := New(Options{TempDir: dir}, Assets{}, nil).Apply(context.Background(), nil, in, filepath.Join(dir, "out.wav"), nil)
		assert.Error(t, err)
	})
}

func TestExecutor_MissingInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	e := New(Options{TempDir: dir}, Assets{}, nil)

	err := e.Apply(context.Background(), nil, filepath.Join(dir, "nope.wav"), filepath.Join(dir, "out.wav"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.wav")
}

func TestExecutor_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeWAV(t, dir, "in.wav", 16000, audiotest.Sine(16000, 1600, 440, 0.3))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New(Options{TempDir: dir}, Assets{}, nil)
	err := e.Apply(ctx, recipe.Recipe{recipe.Normalize{LevelDB: -26}}, in, filepath.Join(dir, "out.wav"), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecutor_Opus(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	speech := audiotest.Sine(16000, 16000, 440, 0.3)
	in := writeWAV(t, dir, "in.wav", 16000, speech)
	out := filepath.Join(dir, "out.wav")

	e := New(Options{TempDir: dir}, Assets{}, nil)
	r := recipe.Recipe{recipe.Codec{Name: "opus", Params: []recipe.Param{{Key: "bitrate", Value: "24"}}}}
	require.NoError(t, e.Apply(context.Background(), r, in, out, nil))

	got := readOutput(t, out)
	require.Equal(t, len(speech), got.Len())

	ratio := got.RMS() / audio.Signal{Rate: 16000, Samples: speech}.RMS()
	assert.True(t, math.Abs(utils.AmplitudeToDB(ratio)) < 3, "level changed by %.2f dB", utils.AmplitudeToDB(ratio))
}

func TestExecutor_SILK(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		bitrate string
	}{
		{name: "silk", bitrate: "5"},
		{name: "silk", bitrate: "20"},
		{name: "silkwb", bitrate: "10"},
		{name: "silkwb", bitrate: "40"},
	}

	for _, tt := range tests {
		t.Run(tt.name+"-"+tt.bitrate, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			speech := audiotest.Sine(16000, 16000, 440, 0.3)
			in := writeWAV(t, dir, "in.wav", 16000, speech)
			out := filepath.Join(dir, "out.wav")

			tools := &fakeTools{}
			e := New(Options{TempDir: dir}, Assets{}, tools)
			r := recipe.Recipe{recipe.Codec{Name: tt.name, Params: []recipe.Param{{Key: "bitrate", Value: tt.bitrate}}}}
			require.NoError(t, e.Apply(context.Background(), r, in, out, nil))

			assert.Empty(t, tools.Calls(), "silk is encoded in-process")
			got := readOutput(t, out)
			require.Equal(t, len(speech), got.Len())
			assert.Greater(t, got.RMS(), 0.05, "decoded audio is silent")
		})
	}
}

func TestIntermediateName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "foo.wav-2-g711.raw", IntermediateName("foo.wav", 2, "g711"))
	assert.Equal(t, filepath.Join("d", ".foo.partial.wav"), partialName(filepath.Join("d", "foo.wav")))
}
