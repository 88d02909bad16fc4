// SPDX-License-Identifier: EPL-2.0

package chain

import (
	"os"
	"strings"

	"github.com/asticode/go-astilog"
	"github.com/ik5/acsim/utils"
)

// Assets are the lists of external recordings stages may draw from.
type Assets struct {
	Noise    []string
	DeviceIR []string
	SpaceIR  []string
}

// AssetLists are the paths of the list files behind Assets.
type AssetLists struct {
	DeviceIR string `toml:"device_ir_list"`
	Noise    string `toml:"noise_list"`
	SpaceIR  string `toml:"space_ir_list"`
}

func loadOptional(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		astilog.Debugf("chain: list %s does not exist, using an empty list", path)
		return nil, nil
	}
	return utils.ReadList(path)
}

// LoadAssets reads the three lists. A list file that does not exist yields
// an empty list; any other read error is returned.
func LoadAssets(l AssetLists) (a Assets, err error) {
	if a.Noise, err = loadOptional(l.Noise); err != nil {
		return
	}
	if a.DeviceIR, err = loadOptional(l.DeviceIR); err != nil {
		return
	}
	a.SpaceIR, err = loadOptional(l.SpaceIR)
	return
}

// Eligible returns the noise assets whose path contains one of the tags,
// in list order. No tags means every asset.
func (a Assets) Eligible(tags []string) []string {
	if len(tags) == 0 {
		return append([]string(nil), a.Noise...)
	}

	var out []string
	for _, p := range a.Noise {
		for _, t := range tags {
			if strings.Contains(p, t) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
