// SPDX-License-Identifier: EPL-2.0

package recipe

import (
	"path/filepath"
	"strings"
)

var fileNameStripper = strings.NewReplacer(
	"|", "",
	`\`, "",
	"[", "",
	"]", "",
	",", "",
	"/", "",
	"=", "",
)

// fileToken shortens a stage token for use in a file name: the noise filter
// value is dropped, the first [ becomes a dot and |\[],/= are removed.
func fileToken(s Stage) string {
	opts := s.Options()
	if _, ok := s.(Noise); ok {
		for i := range opts {
			if opts[i].Key == "filter" {
				opts[i].Value = ""
			}
		}
	}

	return fileNameStripper.Replace(strings.Replace(render(s.Kind(), opts), "[", ".", 1))
}

// FileName derives the output file name for input under r:
// <base>-<token>-<token>....wav, or <base>.wav for an empty recipe.
//
//	FileName("in/foo.flac", norm[rms=-26]:noise[filter=a|b,snr=8]:g711[law=u])
//	  == "foo-norm.rms-26-noise.filtersnr8-g711.lawu.wav"
func FileName(input string, r Recipe) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if len(r) == 0 {
		return base + ".wav"
	}

	parts := make([]string, len(r))
	for i, s := range r {
		parts[i] = fileToken(s)
	}

	return base + "-" + strings.Join(parts, "-") + ".wav"
}
