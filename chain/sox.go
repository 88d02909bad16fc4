// SPDX-License-Identifier: EPL-2.0

package chain

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ik5/acsim/recipe"
	"github.com/pkg/errors"
)

// SoXOptions locates the external programs and bounds their run time.
type SoXOptions struct {
	FFmpegPath   string        `toml:"ffmpeg_path"`
	SoxPath      string        `toml:"sox_path"`
	Sph2PipePath string        `toml:"sph2pipe_path"`
	Timeout      time.Duration `toml:"timeout"`
}

// SoX is the default Toolchain: SoX for filtering, conversion and the
// codecs it supports, ffmpeg for the others and sph2pipe for NIST SPHERE
// input.
type SoX struct {
	o SoXOptions
}

func NewSoX(o SoXOptions) *SoX {
	if o.SoxPath == "" {
		o.SoxPath = "sox"
	}
	if o.FFmpegPath == "" {
		o.FFmpegPath = "ffmpeg"
	}
	if o.Sph2PipePath == "" {
		o.Sph2PipePath = "sph2pipe"
	}
	return &SoX{o: o}
}

func (t *SoX) sox(ctx context.Context, args ...string) error {
	return runTool(ctx, t.o.Timeout, t.o.SoxPath, append([]string{"-V1"}, args...)...)
}

func (t *SoX) ffmpeg(ctx context.Context, args ...string) error {
	return runTool(ctx, t.o.Timeout, t.o.FFmpegPath, append([]string{"-y", "-loglevel", "error"}, args...)...)
}

// raw describes a raw PCM file to SoX.
func raw(rate int) []string {
	return []string{"-t", "raw", "-e", "signed-integer", "-b", "16", "-c", "1", "-r", strconv.Itoa(rate)}
}

// rawFF describes a raw PCM file to ffmpeg.
func rawFF(rate int) []string {
	return []string{"-f", "s16le", "-ar", strconv.Itoa(rate), "-ac", "1"}
}

func (t *SoX) Convert(ctx context.Context, in, out string, rate int) error {
	src := in
	if strings.EqualFold(filepath.Ext(in), ".sph") {
		src = strings.TrimSuffix(out, filepath.Ext(out)) + "-tmp.wav"
		if err := runTool(ctx, t.o.Timeout, t.o.Sph2PipePath, "-p", "-f", "rif", "-c", "1", in, src); err != nil {
			return err
		}
		defer os.Remove(src)
	}

	args := []string{"-G", src}
	args = append(args, raw(rate)...)
	return t.sox(ctx, append(args, out, "rate", "-h")...)
}

func (t *SoX) Bandpass(ctx context.Context, in, out string, rate, lo, hi int) error {
	args := append(raw(rate), in)
	args = append(args, raw(rate)...)
	return t.sox(ctx, append(args, out, "sinc", strconv.Itoa(lo)+"-"+strconv.Itoa(hi))...)
}

func (t *SoX) VoiceTrim(ctx context.Context, in, out string, rate int) error {
	args := append(raw(rate), in)
	args = append(args, raw(rate)...)
	return t.sox(ctx, append(args, out, "vad")...)
}

func (t *SoX) Export(ctx context.Context, in, out string, inRate, outRate int) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
	if ext == "" {
		ext = "wav"
	}

	args := append(raw(inRate), in)
	return t.sox(ctx, append(args, "-t", ext, "-b", "16", "-r", strconv.Itoa(outRate), out)...)
}

var (
	amrNBRates = []string{"4.75k", "5.15k", "5.9k", "6.7k", "7.4k", "7.95k", "10.2k", "12.2k"}
	amrWBRates = []string{"6.6k", "8.85k", "12.65k", "14.25k", "15.85k", "18.25k", "19.85k", "23.05k", "23.85k"}
)

func intParam(c recipe.Codec, key string, def int) (int, error) {
	v, ok := c.Param(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.Wrapf(ErrInvalidCodecParam, "chain: %s %s=%q", c.Name, key, v)
	}
	return n, nil
}

func indexParam(c recipe.Codec, key string, table []string) (string, error) {
	n, err := intParam(c, key, len(table)-1)
	if err != nil {
		return "", err
	}
	if n >= len(table) {
		return "", errors.Wrapf(ErrInvalidCodecParam, "chain: %s %s=%d out of range", c.Name, key, n)
	}
	return table[n], nil
}

// ffmpegRoundTrip encodes with the given codec arguments into tmp and
// decodes back to raw PCM.
func (t *SoX) ffmpegRoundTrip(ctx context.Context, in, tmp, out string, rate int, codec ...string) error {
	enc := append(rawFF(rate), "-i", in)
	if err := t.ffmpeg(ctx, append(enc, append(codec, tmp)...)...); err != nil {
		return err
	}

	dec := append([]string{"-i", tmp}, rawFF(rate)...)
	return t.ffmpeg(ctx, append(dec, out)...)
}

// soxRoundTrip encodes into tmp described by format and decodes back.
func (t *SoX) soxRoundTrip(ctx context.Context, in, tmp, out string, rate int, format ...string) error {
	enc := append(raw(rate), in)
	enc = append(enc, format...)
	if err := t.sox(ctx, append(enc, tmp)...); err != nil {
		return err
	}

	dec := append(append([]string(nil), format...), tmp)
	dec = append(dec, raw(rate)...)
	return t.sox(ctx, append(dec, out)...)
}

func (t *SoX) Codec(ctx context.Context, c recipe.Codec, in, out string, rate int) (bool, error) {
	tmp := strings.TrimSuffix(out, filepath.Ext(out)) + "-enc"
	defer func() {
		matches, _ := filepath.Glob(tmp + ".*")
		for _, m := range matches {
			os.Remove(m)
		}
	}()

	var err error
	switch c.Name {
	case "g711":
		law, _ := c.Param("law")
		enc := map[string]string{"u": "u-law", "a": "a-law", "": "u-law"}[law]
		if enc == "" {
			return false, errors.Wrapf(ErrInvalidCodecParam, "chain: g711 law=%q", law)
		}
		err = t.soxRoundTrip(ctx, in, tmp+".wav", out, rate, "-t", "wav", "-e", enc, "-b", "8", "-c", "1", "-r", "8000")

	case "gsmfr":
		err = t.soxRoundTrip(ctx, in, tmp+".gsm", out, rate, "-t", "gsm", "-c", "1", "-r", "8000")

	case "cvsd":
		err = t.soxRoundTrip(ctx, in, tmp+".cvsd", out, rate, "-t", "cvsd", "-c", "1", "-r", "8000")

	case "amr", "amrwb":
		table, encoder, ar := amrNBRates, "libopencore_amrnb", "8000"
		if c.Name == "amrwb" {
			table, encoder, ar = amrWBRates, "libvo_amrwbenc", "16000"
		}
		var br string
		if br, err = indexParam(c, "mode", table); err != nil {
			return false, err
		}
		err = t.ffmpegRoundTrip(ctx, in, tmp+".amr", out, rate, "-ar", ar, "-c:a", encoder, "-b:a", br)

	case "g726":
		var kbps int
		if kbps, err = intParam(c, "bitrate", 32); err != nil {
			return false, err
		}
		err = t.ffmpegRoundTrip(ctx, in, tmp+".wav", out, rate, "-ar", "8000", "-c:a", "g726", "-b:a", strconv.Itoa(kbps)+"k")

	case "g722":
		err = t.ffmpegRoundTrip(ctx, in, tmp+".wav", out, rate, "-ar", "16000", "-c:a", "g722")

	case "mp3", "aac":
		var kbps int
		if kbps, err = intParam(c, "bitrate", 32); err != nil {
			return false, err
		}
		codec, ext := "libmp3lame", ".mp3"
		if c.Name == "aac" {
			codec, ext = "aac", ".m4a"
		}
		err = t.ffmpegRoundTrip(ctx, in, tmp+ext, out, rate, "-c:a", codec, "-b:a", strconv.Itoa(kbps)+"k")

	default:
		return false, nil
	}

	if err != nil {
		return false, errors.Wrapf(err, "chain: %s round trip of %s failed", recipe.Token(c), in)
	}
	return true, nil
}
