//
// main.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/markkurossi/lutmap/lutmap"
	"github.com/markkurossi/lutmap/rtl"
	"github.com/sirupsen/logrus"
)

func main() {
	output := flag.String("o", "", "output netlist file")
	k := flag.Int("k", 6, "maximum cut size")
	p := flag.Int("p", 20, "maximum cuts per signal")
	iterations := flag.Int("iter", 10, "area-flow iteration limit")
	noDual := flag.Bool("no-dual", false, "disable dual-output mapping")
	stats := flag.Bool("stats", false, "print mapping statistics")
	verbose := flag.Bool("v", false, "verbose output")
	debug := flag.Bool("vv", false, "debug output")
	flag.Parse()

	log := logrus.New()
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	} else if *verbose {
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: lutmap [options] netlist\n")
		os.Exit(1)
	}

	module, err := rtl.Parse(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	sigmap := rtl.NewSigMap(module)

	cfg := lutmap.NewConfig()
	cfg.MaxCutSize = *k
	cfg.MaxCuts = *p
	cfg.AreaFlowMaxIterations = *iterations
	cfg.EnableDualOutput = !*noDual
	cfg.Logger = log

	mapper, err := lutmap.NewMapper(module, sigmap, cfg)
	if err != nil {
		log.Fatal(err)
	}
	result, err := mapper.Run()
	if err != nil {
		log.Fatal(err)
	}
	if err := mapper.Emitter().Emit(result); err != nil {
		log.Fatal(err)
	}

	if *stats {
		result.Report(os.Stdout)
	}

	if len(*output) > 0 {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		if err := module.Marshal(f); err != nil {
			log.Fatal(err)
		}
	}
}
