// SPDX-License-Identifier: EPL-2.0

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/asticode/go-astilog"
	"github.com/ik5/acsim/randstream"
	"github.com/ik5/acsim/split"
	"github.com/ik5/acsim/utils"
	"github.com/pkg/errors"
)

// Flags
var (
	seed       = flag.String("s", "", "the random stream seed")
	streamFile = flag.String("R", "random", "the random stream file")
)

func main() {
	// Parse flags
	flag.Parse()
	astilog.FlagInit()

	if flag.NArg() != 3 {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] asset.list train.list test.list\n", os.Args[0])
		flag.PrintDefaults()
		return
	}

	// Sizes come from the speech lists
	train, err := utils.ReadList(flag.Arg(1))
	if err != nil {
		astilog.Fatal(errors.Wrap(err, "main: reading train list failed"))
	}
	test, err := utils.ReadList(flag.Arg(2))
	if err != nil {
		astilog.Fatal(errors.Wrap(err, "main: reading test list failed"))
	}

	items, err := utils.ReadList(flag.Arg(0))
	if err != nil {
		astilog.Fatal(errors.Wrap(err, "main: reading asset list failed"))
	}

	s, err := randstream.Load(*streamFile, *seed)
	if err != nil {
		astilog.Fatal(errors.Wrap(err, "main: loading random stream failed"))
	}

	trn, tst, dev := split.Split(items, len(train), len(test), s)
	if err = split.WriteLists(flag.Arg(0), trn, tst, dev); err != nil {
		astilog.Fatal(errors.Wrap(err, "main: writing lists failed"))
	}

	astilog.Infof("main: %d files to train set", len(trn))
	astilog.Infof("main: %d files to test set", len(tst))
	astilog.Infof("main: %d files to dev set", len(dev))
}
