// SPDX-License-Identifier: EPL-2.0

package recipe

import (
	"github.com/ik5/acsim/randstream"
	"github.com/pkg/errors"
)

// Sample draws the recipe for one file under cond. Draws happen in a fixed
// order, one value per choice:
//
//	level, codec name, bandpass (narrowband codecs only), codec variant
//
// The codec name is drawn before the bandpass because the name decides
// whether a bandpass is drawn at all. Changing the order changes every
// recipe that follows for a given stream.
func Sample(cond Condition, s *randstream.Stream) (Recipe, error) {
	level, err := randstream.Choice(s, Levels)
	if err != nil {
		return nil, errors.Wrap(err, "recipe: drawing level failed")
	}

	r := Recipe{Normalize{LevelDB: level}}

	if cond.Noisy() {
		r = append(r, Noise{
			SNRDB:  cond.Noise.SNR(),
			Filter: append([]string(nil), NoiseFilter...),
		})
	}

	pool := familyCodecs[cond.Family]
	if len(pool) == 0 {
		return r, nil
	}

	name, err := randstream.Choice(s, pool)
	if err != nil {
		return nil, errors.Wrapf(err, "recipe: drawing %s codec failed", cond.Family)
	}

	if NeedsBandpass(name) {
		bp, err := randstream.Choice(s, Bandpasses)
		if err != nil {
			return nil, errors.Wrap(err, "recipe: drawing bandpass failed")
		}
		r = append(r, bp)
	}

	codec, err := randstream.Choice(s, codecVariants[name])
	if err != nil {
		return nil, errors.Wrapf(err, "recipe: drawing %s variant failed", name)
	}

	return append(r, Codec{Name: codec.Name, Params: codec.Options()}), nil
}

// Draws returns how many stream values Sample consumes for a recipe it
// produced.
func Draws(r Recipe) int {
	n := 0
	for _, s := range r {
		switch s.(type) {
		case Normalize, Bandpass:
			n++
		case Codec:
			// name and variant
			n += 2
		}
	}
	return n
}
