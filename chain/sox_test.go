// SPDX-License-Identifier: EPL-2.0

package chain

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/ik5/acsim/recipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder writes a shell script that appends its arguments to a log, one
// invocation per line, and returns the script and log paths.
func recorder(t *testing.T) (string, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}

	dir := t.TempDir()
	log := filepath.Join(dir, "calls.log")
	script := filepath.Join(dir, "tool")
	body := "#!/bin/sh\necho \"$(basename \"$0\") $*\" >> " + log + "\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))

	return script, log
}

func calls(t *testing.T, log string) []string {
	t.Helper()

	b, err := os.ReadFile(log)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(b)), "\n")
}

func TestSoX_Commands(t *testing.T) {
	t.Parallel()

	bin, log := recorder(t)
	tools := NewSoX(SoXOptions{SoxPath: bin, FFmpegPath: bin, Sph2PipePath: bin})
	ctx := context.Background()

	require.NoError(t, tools.Bandpass(ctx, "in.raw", "out.raw", 16000, 300, 3400))
	require.NoError(t, tools.VoiceTrim(ctx, "in.raw", "vad.raw", 16000))
	require.NoError(t, tools.Export(ctx, "in.raw", "final.flac", 16000, 8000))
	require.NoError(t, tools.Convert(ctx, "utt.sph", "/tmp/x/utt.sph.raw", 16000))

	raw := "-t raw -e signed-integer -b 16 -c 1 -r 16000"
	assert.Equal(t, []string{
		"tool -V1 " + raw + " in.raw " + raw + " out.raw sinc 300-3400",
		"tool -V1 " + raw + " in.raw " + raw + " vad.raw vad",
		"tool -V1 " + raw + " in.raw -t flac -b 16 -r 8000 final.flac",
		"tool -p -f rif -c 1 utt.sph /tmp/x/utt.sph-tmp.wav",
		"tool -V1 -G /tmp/x/utt.sph-tmp.wav " + raw + " /tmp/x/utt.sph.raw rate -h",
	}, calls(t, log))
}

func TestSoX_Codec(t *testing.T) {
	t.Parallel()

	raw := "-t raw -e signed-integer -b 16 -c 1 -r 16000"
	ff := "-f s16le -ar 16000 -ac 1"

	tests := []struct {
		chain string
		want  []string
	}{
		{"g711[law=a]", []string{
			"tool -V1 " + raw + " in.raw -t wav -e a-law -b 8 -c 1 -r 8000 out-enc.wav",
			"tool -V1 -t wav -e a-law -b 8 -c 1 -r 8000 out-enc.wav " + raw + " out.raw",
		}},
		{"gsmfr", []string{
			"tool -V1 " + raw + " in.raw -t gsm -c 1 -r 8000 out-enc.gsm",
			"tool -V1 -t gsm -c 1 -r 8000 out-enc.gsm " + raw + " out.raw",
		}},
		{"amr[mode=7]", []string{
			"tool -y -loglevel error " + ff + " -i in.raw -ar 8000 -c:a libopencore_amrnb -b:a 12.2k out-enc.amr",
			"tool -y -loglevel error -i out-enc.amr " + ff + " out.raw",
		}},
		{"amrwb[mode=0]", []string{
			"tool -y -loglevel error " + ff + " -i in.raw -ar 16000 -c:a libvo_amrwbenc -b:a 6.6k out-enc.amr",
			"tool -y -loglevel error -i out-enc.amr " + ff + " out.raw",
		}},
		{"mp3[bitrate=24]", []string{
			"tool -y -loglevel error " + ff + " -i in.raw -c:a libmp3lame -b:a 24k out-enc.mp3",
			"tool -y -loglevel error -i out-enc.mp3 " + ff + " out.raw",
		}},
		{"g726[bitrate=40]", []string{
			"tool -y -loglevel error " + ff + " -i in.raw -ar 8000 -c:a g726 -b:a 40k out-enc.wav",
			"tool -y -loglevel error -i out-enc.wav " + ff + " out.raw",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.chain, func(t *testing.T) {
			t.Parallel()

			bin, log := recorder(t)
			tools := NewSoX(SoXOptions{SoxPath: bin, FFmpegPath: bin})

			r, err := recipe.Parse(tt.chain)
			require.NoError(t, err)

			ok, err := tools.Codec(context.Background(), r[0].(recipe.Codec), "in.raw", "out.raw", 16000)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.want, calls(t, log))
		})
	}
}

func TestSoX_CodecUnsupported(t *testing.T) {
	t.Parallel()

	bin, log := recorder(t)
	tools := NewSoX(SoXOptions{SoxPath: bin, FFmpegPath: bin})

	for _, name := range []string{"silk", "silkwb", "g729a", "g728", "c2"} {
		ok, err := tools.Codec(context.Background(), recipe.Codec{Name: name}, "in.raw", "out.raw", 16000)
		require.NoError(t, err)
		assert.False(t, ok, name)
	}
	assert.Empty(t, calls(t, log))
}

func TestSoX_CodecInvalidParams(t *testing.T) {
	t.Parallel()

	bin, _ := recorder(t)
	tools := NewSoX(SoXOptions{SoxPath: bin, FFmpegPath: bin})

	for _, chain := range []string{"g711[law=x]", "amr[mode=8]", "amrwb[mode=-1]", "mp3[bitrate=fast]"} {
		r, err := recipe.Parse(chain)
		require.NoError(t, err)

		_, err = tools.Codec(context.Background(), r[0].(recipe.Codec), "in.raw", "out.raw", 16000)
		assert.ErrorIs(t, err, ErrInvalidCodecParam, chain)
	}
}

func TestRunTool_Failure(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}

	err := runTool(context.Background(), 0, "sh", "-c", "echo broken pipe >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sh -c")
	assert.Contains(t, err.Error(), "broken pipe")
}

func TestRunTool_Timeout(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}

	err := runTool(context.Background(), 50*time.Millisecond, "sleep", "5")
	assert.ErrorIs(t, err, ErrToolTimeout)
}

func TestRunTool_Cancelled(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := runTool(ctx, time.Minute, "sleep", "5")
	assert.ErrorIs(t, err, context.Canceled)
}
