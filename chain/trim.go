// SPDX-License-Identifier: EPL-2.0

package chain

import (
	"context"
	"os"

	"github.com/ik5/acsim/audio"
	"github.com/pkg/errors"
)

// VoiceTrimmer returns the voice-active part of a signal. An empty result
// means no speech was found.
type VoiceTrimmer interface {
	VoiceActive(ctx context.Context, s audio.Signal) (audio.Signal, error)
}

// EnergyTrimmer trims in-process with an energy detector.
type EnergyTrimmer struct {
	VAD *audio.EnergyVAD
}

func NewEnergyTrimmer() EnergyTrimmer {
	return EnergyTrimmer{VAD: audio.NewEnergyVAD()}
}

func (t EnergyTrimmer) VoiceActive(_ context.Context, s audio.Signal) (audio.Signal, error) {
	return t.VAD.VoiceActive(s), nil
}

// ToolTrimmer trims through the toolchain (SoX "vad"), using scratch files
// in Dir.
type ToolTrimmer struct {
	Tools Toolchain
	Dir   string
}

func (t ToolTrimmer) VoiceActive(ctx context.Context, s audio.Signal) (_ audio.Signal, err error) {
	in, err := os.CreateTemp(t.Dir, "vad-in-*.raw")
	if err != nil {
		return audio.Signal{}, errors.Wrap(err, "chain: creating vad scratch file failed")
	}
	in.Close()
	out := in.Name() + ".out.raw"
	defer os.Remove(in.Name())
	defer os.Remove(out)

	if err = audio.WriteRawFile(in.Name(), s); err != nil {
		return audio.Signal{}, err
	}
	if err = t.Tools.VoiceTrim(ctx, in.Name(), out, s.Rate); err != nil {
		return audio.Signal{}, err
	}

	return audio.ReadRawFile(out, s.Rate)
}

// speechRMS is the RMS of the voice-active part of s, or of all of s when
// nothing was detected.
func speechRMS(ctx context.Context, v VoiceTrimmer, s audio.Signal) (float64, error) {
	active, err := v.VoiceActive(ctx, s)
	if err != nil {
		return 0, errors.Wrap(err, "chain: trimming voice failed")
	}
	if active.Len() > 0 {
		return active.RMS(), nil
	}
	return s.RMS(), nil
}
