// SPDX-License-Identifier: EPL-2.0

// Package formats wires every in-process decoder into one registry.
package formats

import (
	"github.com/ik5/acsim/audio"
	"github.com/ik5/acsim/formats/aiff"
	"github.com/ik5/acsim/formats/mp3"
	"github.com/ik5/acsim/formats/vorbis"
	"github.com/ik5/acsim/formats/wav"
)

// NewRegistry returns a registry that knows wav, mp3, ogg/oga and aif/aiff.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register(wav.Decoder{}, "wav", "wave")
	r.Register(mp3.Decoder{}, "mp3")
	r.Register(vorbis.Decoder{}, "ogg", "oga")
	r.Register(aiff.Decoder{}, "aif", "aiff")
	return r
}
