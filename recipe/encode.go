// SPDX-License-Identifier: EPL-2.0

package recipe

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// reserved may not appear in stage names, option keys or option values.
const reserved = "[],:="

func checkPart(what, v string) error {
	if v == "" {
		return errors.Wrapf(ErrMalformedStage, "recipe: empty %s", what)
	}
	if strings.ContainsAny(v, reserved) {
		return errors.Wrapf(ErrReservedChar, "recipe: %s %q", what, v)
	}
	return nil
}

// Encode renders r as a chain string: stage[k=v,...]:stage2[...].
// Names, keys and values must be non-empty and free of "[],:=".
func Encode(r Recipe) (string, error) {
	for _, s := range r {
		if err := checkPart("stage name", s.Kind()); err != nil {
			return "", err
		}
		if n, ok := s.(Noise); ok {
			for _, tag := range n.Filter {
				if tag == "" || strings.ContainsAny(tag, reserved+"|") {
					return "", errors.Wrapf(ErrReservedChar, "recipe: noise filter tag %q", tag)
				}
			}
		}
		for _, p := range s.Options() {
			if err := checkPart("option key", p.Key); err != nil {
				return "", err
			}
			if err := checkPart("option value", p.Value); err != nil {
				return "", err
			}
		}
	}

	return r.String(), nil
}

// splitToken breaks "name[k=v,...]" into its name and options.
func splitToken(tok string) (string, []Param, error) {
	open := strings.IndexByte(tok, '[')
	if open < 0 {
		if err := checkPart("stage name", tok); err != nil {
			return "", nil, err
		}
		return tok, nil, nil
	}

	if !strings.HasSuffix(tok, "]") {
		return "", nil, errors.Wrapf(ErrMalformedStage, "recipe: %q is missing ]", tok)
	}
	name, body := tok[:open], tok[open+1:len(tok)-1]
	if err := checkPart("stage name", name); err != nil {
		return "", nil, err
	}
	if body == "" {
		return name, nil, nil
	}

	var params []Param
	for _, kv := range strings.Split(body, ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return "", nil, errors.Wrapf(ErrMalformedStage, "recipe: option %q in %q has no =", kv, tok)
		}
		if err := checkPart("option key", k); err != nil {
			return "", nil, errors.Wrapf(err, "recipe: parsing %q failed", tok)
		}
		if err := checkPart("option value", v); err != nil {
			return "", nil, errors.Wrapf(err, "recipe: parsing %q failed", tok)
		}
		params = append(params, Param{Key: k, Value: v})
	}

	return name, params, nil
}

func lookup(params []Param, key string) (string, bool) {
	for _, p := range params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

func parseFloat(tok, key, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidOption, "recipe: %s=%q in %q", key, v, tok)
	}
	return f, nil
}

func parseStage(tok string) (Stage, error) {
	name, params, err := splitToken(tok)
	if err != nil {
		return nil, err
	}

	switch name {
	case KindNormalize:
		v, ok := lookup(params, "rms")
		if !ok {
			return nil, errors.Wrapf(ErrMissingOption, "recipe: rms in %q", tok)
		}
		level, err := parseFloat(tok, "rms", v)
		if err != nil {
			return nil, err
		}
		return Normalize{LevelDB: level}, nil

	case KindNoise:
		n := Noise{SNRDB: 15}
		if v, ok := lookup(params, "snr"); ok {
			if n.SNRDB, err = parseFloat(tok, "snr", v); err != nil {
				return nil, err
			}
		}
		if v, ok := lookup(params, "filter"); ok {
			n.Filter = strings.Split(v, "|")
		}
		return n, nil

	case KindBandpass:
		v, ok := lookup(params, "cutoff")
		if !ok {
			return nil, errors.Wrapf(ErrMissingOption, "recipe: cutoff in %q", tok)
		}
		lo, hi, ok := strings.Cut(v, "-")
		b := Bandpass{}
		if ok {
			b.Low, err = strconv.Atoi(lo)
			if err == nil {
				b.High, err = strconv.Atoi(hi)
			}
		}
		if !ok || err != nil || b.Low < 0 || b.High <= b.Low {
			return nil, errors.Wrapf(ErrInvalidOption, "recipe: cutoff=%q in %q", v, tok)
		}
		return b, nil
	}

	return Codec{Name: name, Params: params}, nil
}

// Parse is the inverse of Encode. Codec names outside the sampling tables
// are accepted; it is up to the executor to emulate them or not. noise
// defaults to snr=15 when the option is absent.
func Parse(chain string) (Recipe, error) {
	chain = strings.TrimSpace(chain)
	if chain == "" {
		return Recipe{}, nil
	}

	toks := strings.Split(chain, ":")
	r := make(Recipe, 0, len(toks))
	for _, tok := range toks {
		s, err := parseStage(tok)
		if err != nil {
			return nil, err
		}
		r = append(r, s)
	}

	return r, nil
}
