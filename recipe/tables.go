// SPDX-License-Identifier: EPL-2.0

package recipe

import "strconv"

// Levels are the normalization targets in dBFS.
var Levels = []float64{-26, -29, -32, -35}

// NoiseFilter is the ambience allow-list attached to every noisy recipe.
var NoiseFilter = []string{
	"ambience-public",
	"ambience-private",
	"ambience-outdoors",
	"ambience-babble",
	"ambience-transportation",
	"ambience-music",
}

// Bandpasses are the cutoff pairs drawn for narrowband codecs.
var Bandpasses = []Bandpass{
	{Low: 300, High: 3400},
	{Low: 200, High: 3600},
	{Low: 100, High: 3800},
}

var familyCodecs = map[Family][]string{
	FamilyLandline:  {"g711", "g726"},
	FamilyCellular:  {"amr", "amrwb", "gsmfr"},
	FamilySatellite: {"g728", "c2", "cvsd"},
	FamilyVoIP:      {"silk", "silkwb", "g729a", "g722"},
	FamilyInterview: {"mp3", "aac"},
	FamilyPlayback:  {"mp3", "aac"},
}

var needsBandpass = map[string]bool{
	"g711":  true,
	"g726":  true,
	"amr":   true,
	"gsmfr": true,
	"g728":  true,
}

func variants(codec, key string, values ...string) []Codec {
	out := make([]Codec, len(values))
	for i, v := range values {
		out[i] = Codec{Name: codec, Params: []Param{{Key: key, Value: v}}}
	}
	return out
}

func intRange(from, to, step int) []string {
	var out []string
	for v := from; v <= to; v += step {
		out = append(out, strconv.Itoa(v))
	}
	return out
}

var codecVariants = map[string][]Codec{
	"amr":    variants("amr", "mode", intRange(0, 7, 1)...),
	"amrwb":  variants("amrwb", "mode", intRange(0, 8, 1)...),
	"g711":   variants("g711", "law", "u", "a"),
	"g726":   variants("g726", "bitrate", "16", "24", "32", "40"),
	"silk":   variants("silk", "bitrate", "5", "10", "15", "20"),
	"silkwb": variants("silkwb", "bitrate", "10", "20", "30", "40"),
	"mp3":    variants("mp3", "bitrate", intRange(8, 64, 8)...),
	"aac":    variants("aac", "bitrate", intRange(8, 64, 8)...),
	"g729a":  {{Name: "g729a"}},
	"g722":   {{Name: "g722"}},
	"g728":   {{Name: "g728"}},
	"c2":     {{Name: "c2"}},
	"cvsd":   {{Name: "cvsd"}},
	"gsmfr":  {{Name: "gsmfr"}},
}

// FamilyCodecs returns the codec pool of f; nil for nocodec and all.
func FamilyCodecs(f Family) []string {
	return append([]string(nil), familyCodecs[f]...)
}

// NeedsBandpass reports whether codec is preceded by a Bandpass stage.
func NeedsBandpass(codec string) bool { return needsBandpass[codec] }

// Variants returns the parameter variants a codec is sampled from.
func Variants(codec string) []Codec {
	return append([]Codec(nil), codecVariants[codec]...)
}
