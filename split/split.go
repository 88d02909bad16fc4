// SPDX-License-Identifier: EPL-2.0

// Package split partitions an asset list into train, test and dev lists so
// that no asset is shared between the three.
package split

import (
	"path/filepath"
	"strings"

	"github.com/ik5/acsim/randstream"
	"github.com/ik5/acsim/utils"
	"github.com/pkg/errors"
)

// Split shuffles items and takes up to nTrain items for train, then up to
// nTest for test; whatever is left goes to dev.
//
// Each set is filled from the head of the shuffled list. When the head is
// already in the set being filled, filling stops for that set and the head
// stays in place for the next one.
func Split(items []string, nTrain, nTest int, s *randstream.Stream) (train, test, dev []string) {
	rest := randstream.Shuffle(s, items, randstream.RoundingInclusiveMax)

	train, rest = take(rest, nTrain)
	test, rest = take(rest, nTest)
	dev = rest
	return
}

func take(rest []string, n int) (set, left []string) {
	seen := make(map[string]bool)
	for _i := 0; _i < n; _i++ {
		if len(rest) == 0 || seen[rest[0]] {
			break
		}
		seen[rest[0]] = true
		set = append(set, rest[0])
		rest = rest[1:]
	}
	return set, rest
}

// Names returns the train, test and dev list paths for base:
// noise.list gives noise-trn.list, noise-tst.list and noise-dev.list.
func Names(base string) (train, test, dev string) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return stem + "-trn" + ext, stem + "-tst" + ext, stem + "-dev" + ext
}

// WriteLists writes the three sets next to base.
func WriteLists(base string, train, test, dev []string) error {
	trn, tst, dv := Names(base)
	for _, l := range []struct {
		path    string
		entries []string
	}{
		{trn, train},
		{tst, test},
		{dv, dev},
	} {
		if err := utils.WriteList(l.path, l.entries); err != nil {
			return errors.Wrap(err, "split: writing lists failed")
		}
	}
	return nil
}
