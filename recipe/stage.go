// SPDX-License-Identifier: EPL-2.0

package recipe

import (
	"strconv"
	"strings"
)

// Param is one key=value option of a stage.
type Param struct {
	Key   string
	Value string
}

// Stage is one degradation step. The set of implementations is closed:
// Normalize, Noise, Bandpass and Codec.
type Stage interface {
	// Kind is the stage name as it appears in a chain string.
	Kind() string
	// Options returns the stage options in canonical order.
	Options() []Param

	stage()
}

const (
	KindNormalize = "norm"
	KindNoise     = "noise"
	KindBandpass  = "bp"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Normalize scales the signal so its voice-active RMS sits at LevelDB dBFS.
type Normalize struct {
	LevelDB float64
}

func (Normalize) Kind() string { return KindNormalize }
func (n Normalize) Options() []Param {
	return []Param{{Key: "rms", Value: formatFloat(n.LevelDB)}}
}
func (Normalize) stage() {}

// Noise mixes in a noise asset at SNRDB. Filter restricts the eligible
// assets to paths containing one of the tags; empty means any asset.
type Noise struct {
	SNRDB  float64
	Filter []string
}

func (Noise) Kind() string { return KindNoise }
func (n Noise) Options() []Param {
	var out []Param
	if len(n.Filter) > 0 {
		out = append(out, Param{Key: "filter", Value: strings.Join(n.Filter, "|")})
	}
	return append(out, Param{Key: "snr", Value: formatFloat(n.SNRDB)})
}
func (Noise) stage() {}

// Bandpass band-limits the signal to [Low, High] Hz.
type Bandpass struct {
	Low  int
	High int
}

func (Bandpass) Kind() string { return KindBandpass }
func (b Bandpass) Options() []Param {
	return []Param{{Key: "cutoff", Value: strconv.Itoa(b.Low) + "-" + strconv.Itoa(b.High)}}
}
func (Bandpass) stage() {}

// Codec runs the signal through an encode/decode round trip.
type Codec struct {
	Name   string
	Params []Param
}

func (c Codec) Kind() string { return c.Name }
func (c Codec) Options() []Param {
	return append([]Param(nil), c.Params...)
}
func (Codec) stage() {}

// Param returns the value of key, if set.
func (c Codec) Param(key string) (string, bool) {
	for _, p := range c.Params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Token renders s the way it appears in a chain string, e.g. g711[law=u].
func Token(s Stage) string {
	return render(s.Kind(), s.Options())
}

func render(kind string, opts []Param) string {
	if len(opts) == 0 {
		return kind
	}

	var b strings.Builder
	b.WriteString(kind)
	b.WriteByte('[')
	for i, p := range opts {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	b.WriteByte(']')

	return b.String()
}

// Recipe is the ordered list of stages applied to one file.
type Recipe []Stage

// Tokens renders every stage with Token.
func (r Recipe) Tokens() []string {
	out := make([]string, len(r))
	for i, s := range r {
		out[i] = Token(s)
	}
	return out
}

func (r Recipe) String() string {
	return strings.Join(r.Tokens(), ":")
}
