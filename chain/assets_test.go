// SPDX-License-Identifier: EPL-2.0

package chain

import (
	"path/filepath"
	"testing"

	"github.com/ik5/acsim/internal/audiotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAssets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	noise := audiotest.WriteList(t, dir, "noise.txt", []string{"n/ambience-public/a.wav", "", "n/ambience-music/b.ogg"})

	a, err := LoadAssets(AssetLists{
		Noise:    noise,
		DeviceIR: filepath.Join(dir, "missing-device.txt"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"n/ambience-public/a.wav", "n/ambience-music/b.ogg"}, a.Noise)
	assert.Empty(t, a.DeviceIR)
	assert.Empty(t, a.SpaceIR)
}

func TestAssets_Eligible(t *testing.T) {
	t.Parallel()

	a := Assets{Noise: []string{
		"noise/ambience-public/1.wav",
		"noise/ambience-impulsive/2.wav",
		"noise/ambience-music/3.wav",
		"noise/ambience-public-music/4.wav",
	}}

	assert.Equal(t, []string{
		"noise/ambience-public/1.wav",
		"noise/ambience-music/3.wav",
		"noise/ambience-public-music/4.wav",
	}, a.Eligible([]string{"ambience-music", "ambience-public"}))

	assert.Len(t, a.Eligible(nil), 4)
	assert.Empty(t, a.Eligible([]string{"ambience-nature"}))
	assert.Empty(t, Assets{}.Eligible(nil))
}
