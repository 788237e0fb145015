//
// main.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/markkurossi/mpcnet/circuit"
)

func main() {
	dot := flag.Bool("dot", false, "print Graphviz DOT output")
	dump := flag.Bool("dump", false, "dump circuit gates")
	levels := flag.Bool("levels", false, "print AND-depth schedule")
	flag.Parse()

	log.SetFlags(0)

	if len(flag.Args()) == 0 {
		fmt.Printf("no files specified\n")
		os.Exit(1)
	}
	for _, file := range flag.Args() {
		c, err := circuit.ParseFile(file)
		if err != nil {
			log.Fatalf("%s: %s\n", file, err)
		}
		switch {
		case *dot:
			c.Dot(os.Stdout)

		case *dump:
			c.Dump()

		case *levels:
			for idx, level := range c.Schedule() {
				fmt.Printf("%d\tnonlinear=%d\tlinear=%d\n",
					idx, len(level.Nonlinear), len(level.Linear))
			}

		default:
			fmt.Printf("%s: %s\n", file, c)
			c.PrintSummary(os.Stdout)
		}
	}
}
