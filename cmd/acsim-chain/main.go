// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/asticode/go-astilog"
	"github.com/asticode/go-astitools/config"
	"github.com/ik5/acsim"
	"github.com/ik5/acsim/chain"
	"github.com/pkg/errors"
)

// Flags
var (
	chainSpec    = flag.String("c", "", "the chain to apply, e.g. norm[rms=-26]:g711[law=u]")
	config       = flag.String("config", "", "the config path")
	ctx, cancel  = context.WithCancel(context.Background())
	debug        = flag.Bool("d", false, "keeps intermediate files")
	deviceIRList = flag.String("D", "", "the device impulse response list")
	noiseList    = flag.String("N", "", "the noise list")
	outputRate   = flag.Int("r", 0, "the output sample rate")
	seed         = flag.String("s", "", "the random stream seed")
	spaceIRList  = flag.String("P", "", "the space impulse response list")
	streamFile   = flag.String("R", "", "the random stream file")
	tempDir      = flag.String("t", "", "the temporary directory")
	timeout      = flag.Duration("timeout", 0, "the timeout of every external tool run")
	vad          = flag.String("vad", "", "the voice activity detector (energy or sox)")
)

func main() {
	// Parse flags
	flag.Parse()
	astilog.FlagInit()

	if flag.NArg() != 2 || *chainSpec == "" {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s -c chain [flags] input output\n", os.Args[0])
		flag.PrintDefaults()
		return
	}

	// Init configuration
	c := newConfiguration()

	// Handle signals
	handleSignals()

	// Degrade
	if err := acsim.DegradeFile(ctx, c.Acsim, *chainSpec, flag.Arg(0), flag.Arg(1)); err != nil {
		astilog.Fatal(errors.Wrapf(err, "main: degrading %s failed", flag.Arg(0)))
	}
}

// Configuration represents a configuration
type Configuration struct {
	Acsim acsim.Options `toml:"acsim"`
}

// newConfiguration creates a new configuration
func newConfiguration() *Configuration {
	// Global config
	gc := &Configuration{
		Acsim: acsim.Options{
			Chain: chain.Options{
				WorkingRate: chain.DefaultWorkingRate,
			},
			StreamFile: "random",
			VAD:        acsim.VADEnergy,
		},
	}

	// Flag config
	fc := &Configuration{
		Acsim: acsim.Options{
			Chain: chain.Options{
				KeepIntermediates: *debug,
				OutputRate:        *outputRate,
				TempDir:           *tempDir,
			},
			Lists: chain.AssetLists{
				DeviceIR: *deviceIRList,
				Noise:    *noiseList,
				SpaceIR:  *spaceIRList,
			},
			Seed:       *seed,
			StreamFile: *streamFile,
			Tools: chain.SoXOptions{
				Timeout: *timeout,
			},
			VAD: *vad,
		},
	}

	// Build configuration
	c, err := asticonfig.New(gc, *config, fc)
	if err != nil {
		astilog.Fatal(err)
	}
	return c.(*Configuration)
}

func handleSignals() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGABRT, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	go func() {
		for s := range ch {
			astilog.Infof("main: received signal %s, stopping", s)
			cancel()
		}
	}()
}
