// SPDX-License-Identifier: EPL-2.0

package recipe

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Family is a codec family. It decides which codec pool a recipe draws from.
type Family string

const (
	FamilyNoCodec   Family = "nocodec"
	FamilyLandline  Family = "landline"
	FamilyCellular  Family = "cellular"
	FamilySatellite Family = "satellite"
	FamilyVoIP      Family = "voip"
	FamilyInterview Family = "interview"
	FamilyPlayback  Family = "playback"
	FamilyAll       Family = "all"
)

// Families lists the concrete families in the order "all" expands to.
var Families = []Family{
	FamilyNoCodec,
	FamilyLandline,
	FamilyCellular,
	FamilySatellite,
	FamilyVoIP,
	FamilyInterview,
	FamilyPlayback,
}

func (f Family) valid() bool {
	if f == FamilyAll {
		return true
	}
	for _, v := range Families {
		if f == v {
			return true
		}
	}
	return false
}

// NoiseCondition is either Clean or one of the noisy presets.
type NoiseCondition string

const (
	Clean   NoiseCondition = ""
	Noisy08 NoiseCondition = "noisy08"
	Noisy15 NoiseCondition = "noisy15"
	Noisy25 NoiseCondition = "noisy25"
)

// Label is "noisy" for the noisy presets and empty for Clean.
func (n NoiseCondition) Label() string {
	if n == Clean {
		return ""
	}
	return string(n[:len(n)-2])
}

// Suffix is the two digit SNR suffix, e.g. "08".
func (n NoiseCondition) Suffix() string {
	if n == Clean {
		return ""
	}
	return string(n[len(n)-2:])
}

// SNR is the target SNR in dB; 0 for Clean.
func (n NoiseCondition) SNR() float64 {
	v, _ := strconv.Atoi(n.Suffix())
	return float64(v)
}

// Condition is an acoustic condition: codec family plus noise preset.
type Condition struct {
	Family Family
	Noise  NoiseCondition
}

// ParseCondition reads "<family>[.<noise>]" where noise is clean, empty or
// one of noisy08/noisy15/noisy25. A lone "-" means every family, clean.
func ParseCondition(s string) (Condition, error) {
	if s == "-" {
		return Condition{Family: FamilyAll}, nil
	}

	family, noise, _ := strings.Cut(s, ".")
	c := Condition{Family: Family(family)}
	if !c.Family.valid() {
		return Condition{}, errors.Wrapf(ErrUnknownFamily, "recipe: condition %q", s)
	}

	switch NoiseCondition(noise) {
	case "clean", Clean:
	case Noisy08, Noisy15, Noisy25:
		c.Noise = NoiseCondition(noise)
	default:
		return Condition{}, errors.Wrapf(ErrInvalidNoiseCondition, "recipe: condition %q", s)
	}

	return c, nil
}

// Noisy reports whether recipes for c carry a Noise stage.
func (c Condition) Noisy() bool { return c.Noise != Clean }

// Dir is the directory name outputs for c are written to, e.g.
// "landline" or "landline.noisy08".
func (c Condition) Dir() string {
	if !c.Noisy() {
		return string(c.Family)
	}
	return string(c.Family) + "." + c.Noise.Label() + c.Noise.Suffix()
}

func (c Condition) String() string {
	if !c.Noisy() {
		return string(c.Family) + ".clean"
	}
	return string(c.Family) + "." + string(c.Noise)
}

// Expand returns c for a concrete family, or one condition per concrete
// family with the same noise preset when c.Family is FamilyAll.
func (c Condition) Expand() []Condition {
	if c.Family != FamilyAll {
		return []Condition{c}
	}

	out := make([]Condition, len(Families))
	for i, f := range Families {
		out[i] = Condition{Family: f, Noise: c.Noise}
	}
	return out
}
