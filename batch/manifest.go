// SPDX-License-Identifier: EPL-2.0

package batch

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
)

// manifest writes output paths in input order. Results may arrive in any
// order; lines are held back until every earlier index is settled.
type manifest struct {
	f       *os.File
	w       *bufio.Writer
	next    int
	pending map[int]result
	written int
}

func createManifest(path string) (m *manifest, err error) {
	m = &manifest{pending: make(map[int]result)}
	if m.f, err = os.Create(path); err != nil {
		err = errors.Wrapf(err, "batch: creating %s failed", path)
		return
	}
	m.w = bufio.NewWriter(m.f)
	return
}

// add settles a result and writes every line that became contiguous.
func (m *manifest) add(r result) error {
	m.pending[r.index] = r
	for {
		p, ok := m.pending[m.next]
		if !ok {
			return nil
		}
		delete(m.pending, m.next)
		m.next++

		if p.err != nil {
			continue
		}
		if _, err := m.w.WriteString(p.out + "\n"); err != nil {
			return errors.Wrapf(err, "batch: writing manifest line for %s failed", p.out)
		}
		if err := m.w.Flush(); err != nil {
			return errors.Wrap(err, "batch: flushing manifest failed")
		}
		m.written++
	}
}

func (m *manifest) Close() error {
	if err := m.w.Flush(); err != nil {
		m.f.Close()
		return errors.Wrap(err, "batch: flushing manifest failed")
	}
	return m.f.Close()
}
