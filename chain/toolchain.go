// SPDX-License-Identifier: EPL-2.0

package chain

import (
	"context"

	"github.com/ik5/acsim/recipe"
)

// Toolchain realizes the stages that are delegated to external programs.
// Every raw file is headerless mono signed 16-bit little endian PCM.
type Toolchain interface {
	// Convert decodes any input the tool understands into raw PCM at rate.
	Convert(ctx context.Context, in, out string, rate int) error
	// Bandpass band-limits raw PCM to [lo, hi] Hz.
	Bandpass(ctx context.Context, in, out string, rate, lo, hi int) error
	// VoiceTrim keeps the voice-active part of raw PCM.
	VoiceTrim(ctx context.Context, in, out string, rate int) error
	// Codec runs raw PCM through an encode/decode round trip of c. It
	// reports false, without touching out, when it has no emulation for c.
	Codec(ctx context.Context, c recipe.Codec, in, out string, rate int) (bool, error)
	// Export writes raw PCM at inRate to out at outRate, in the format
	// implied by the extension of out.
	Export(ctx context.Context, in, out string, inRate, outRate int) error
}
