// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ReadList reads a plain-text list, one entry per line. Lines are trimmed
// and blank lines are skipped.
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "utils: opening list %s failed", path)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if l := strings.TrimSpace(sc.Text()); l != "" {
			out = append(out, l)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "utils: reading list %s failed", path)
	}

	return out, nil
}

// WriteList writes entries one per line, replacing any existing file.
func WriteList(path string, entries []string) (err error) {
	var f *os.File
	if f, err = os.Create(path); err != nil {
		return errors.Wrapf(err, "utils: creating list %s failed", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "utils: closing list %s failed", path)
		}
	}()

	w := bufio.NewWriter(f)
	for _, e := range entries {
		if _, err = w.WriteString(e + "\n"); err != nil {
			return errors.Wrapf(err, "utils: writing list %s failed", path)
		}
	}
	if err = w.Flush(); err != nil {
		return errors.Wrapf(err, "utils: flushing list %s failed", path)
	}

	return nil
}
