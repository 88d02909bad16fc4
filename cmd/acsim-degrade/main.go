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
	"github.com/ik5/acsim/batch"
	"github.com/ik5/acsim/chain"
	"github.com/ik5/acsim/recipe"
	"github.com/pkg/errors"
)

// Flags
var (
	config          = flag.String("c", "", "the config path")
	continueOnError = flag.Bool("e", false, "keeps going when a file fails")
	ctx, cancel     = context.WithCancel(context.Background())
	deviceIRList    = flag.String("D", "", "the device impulse response list")
	keep            = flag.Bool("k", false, "keeps intermediate files")
	noiseList       = flag.String("N", "", "the noise list")
	outputRate      = flag.Int("r", 0, "the output sample rate")
	seed            = flag.String("s", "", "the random stream seed")
	spaceIRList     = flag.String("P", "", "the space impulse response list")
	streamFile      = flag.String("R", "", "the random stream file")
	subprocess      = flag.Bool("sub", false, "runs each file in a separate acsim-chain process")
	tempDir         = flag.String("t", "", "the temporary directory")
	timeout         = flag.Duration("timeout", 0, "the timeout of every external tool run and of every acsim-chain process")
	tool            = flag.String("tool", "", "the acsim-chain binary path")
	vad             = flag.String("vad", "", "the voice activity detector (energy or sox)")
	workers         = flag.Int("w", 0, "the number of files processed in parallel")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] condition file.list outdir\n\n", os.Args[0])
	fmt.Fprintln(flag.CommandLine.Output(), "condition is <family>[.<noise>] or - for every family, with")
	fmt.Fprintln(flag.CommandLine.Output(), "  family: nocodec landline cellular satellite voip interview playback")
	fmt.Fprintln(flag.CommandLine.Output(), "  noise:  clean noisy08 noisy15 noisy25")
	fmt.Fprintln(flag.CommandLine.Output())
	flag.PrintDefaults()
}

func main() {
	// Parse flags
	flag.Usage = usage
	flag.Parse()
	astilog.FlagInit()

	if flag.NArg() != 3 {
		flag.Usage()
		return
	}

	// Parse condition
	cond, err := recipe.ParseCondition(flag.Arg(0))
	if err != nil {
		if errors.Is(err, recipe.ErrInvalidNoiseCondition) {
			fmt.Println("invalid noise condition:", flag.Arg(0))
			return
		}
		astilog.Fatal(errors.Wrap(err, "main: parsing condition failed"))
	}

	list := flag.Arg(1)
	if _, err = os.Stat(list); err != nil {
		fmt.Println("file list not found:", list)
		return
	}

	// Init configuration
	c := newConfiguration()

	// Handle signals
	handleSignals()

	// Run temp dir
	runDir, err := os.MkdirTemp(c.Acsim.Chain.TempDir, "acsim-run-")
	if err != nil {
		astilog.Fatal(errors.Wrap(err, "main: creating run temp dir failed"))
	}
	c.Acsim.Chain.TempDir = runDir

	// Degrade
	manifests, err := acsim.DegradeList(ctx, c.Acsim, nil, cond, list, flag.Arg(2))
	if !c.Acsim.Chain.KeepIntermediates {
		os.RemoveAll(runDir)
	}
	if err != nil {
		astilog.Fatal(errors.Wrap(err, "main: degrading failed"))
	}

	for _, m := range manifests {
		astilog.Infof("main: manifest written to %s", m)
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
			Batch: batch.Options{
				Workers: 1,
			},
			Chain: chain.Options{
				WorkingRate: chain.DefaultWorkingRate,
			},
			StreamFile: "random",
			Tools: chain.SoXOptions{
				FFmpegPath:   "ffmpeg",
				SoxPath:      "sox",
				Sph2PipePath: "sph2pipe",
			},
			VAD: acsim.VADEnergy,
		},
	}

	// Flag config
	fc := &Configuration{
		Acsim: acsim.Options{
			Batch: batch.Options{
				ContinueOnError: *continueOnError,
				Workers:         *workers,
			},
			Chain: chain.Options{
				KeepIntermediates: *keep,
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
			Subprocess: acsim.SubprocessOptions{
				Binary:  *tool,
				Debug:   *keep,
				Enabled: *subprocess,
				Timeout: *timeout,
			},
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
