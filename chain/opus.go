// SPDX-License-Identifier: EPL-2.0

package chain

import (
	"github.com/ik5/acsim/audio"
	"github.com/ik5/acsim/recipe"
	"github.com/pkg/errors"
	"gopkg.in/hraban/opus.v2"
)

const (
	opusDefaultKbps = 16
	// 20 ms frames
	opusFramesPerSecond = 50
	opusMaxPacket       = 4000
)

// SILK is the speech layer of Opus, so the silk codecs run through the same
// encoder with the audio bandwidth capped.
var opusMaxBandwidth = map[string]opus.Bandwidth{
	"silk":   opus.Narrowband,
	"silkwb": opus.Wideband,
}

// opusRoundTrip encodes s with libopus at the bitrate option (kbps) and
// decodes it again. The result has the length of s. It serves "opus",
// "silk" and "silkwb".
func opusRoundTrip(c recipe.Codec, s audio.Signal) (audio.Signal, error) {
	kbps, err := intParam(c, "bitrate", opusDefaultKbps)
	if err != nil {
		return audio.Signal{}, err
	}

	enc, err := opus.NewEncoder(s.Rate, 1, opus.AppVoIP)
	if err != nil {
		return audio.Signal{}, errors.Wrapf(err, "chain: creating opus encoder at %d Hz failed", s.Rate)
	}
	if err = enc.SetBitrate(kbps * 1000); err != nil {
		return audio.Signal{}, errors.Wrapf(err, "chain: setting opus bitrate %d kbps failed", kbps)
	}
	if bw, ok := opusMaxBandwidth[c.Name]; ok {
		if err = enc.SetMaxBandwidth(bw); err != nil {
			return audio.Signal{}, errors.Wrapf(err, "chain: limiting %s bandwidth failed", c.Name)
		}
	}

	dec, err := opus.NewDecoder(s.Rate, 1)
	if err != nil {
		return audio.Signal{}, errors.Wrapf(err, "chain: creating opus decoder at %d Hz failed", s.Rate)
	}

	size := s.Rate / opusFramesPerSecond
	frame := make([]int16, size)
	pcm := make([]int16, size)
	packet := make([]byte, opusMaxPacket)

	out := audio.Signal{Rate: s.Rate, Samples: make([]int16, 0, s.Len()+size)}
	for start := 0; start < s.Len(); start += size {
		n := copy(frame, s.Samples[start:])
		clear(frame[n:])

		p, err := enc.Encode(frame, packet)
		if err != nil {
			return audio.Signal{}, errors.Wrapf(err, "chain: opus encoding at sample %d failed", start)
		}
		d, err := dec.Decode(packet[:p], pcm)
		if err != nil {
			return audio.Signal{}, errors.Wrapf(err, "chain: opus decoding at sample %d failed", start)
		}
		out.Samples = append(out.Samples, pcm[:d]...)
	}

	out.Samples = out.Samples[:min(len(out.Samples), s.Len())]
	return out, nil
}
