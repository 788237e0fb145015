//
// main.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/markkurossi/mpcnet/circuit"
	"github.com/markkurossi/mpcnet/compiler"
	"github.com/markkurossi/mpcnet/compiler/utils"
	"github.com/markkurossi/mpcnet/programs"
)

func main() {
	outDir := flag.String("o", "target", "output directory")
	stats := flag.Bool("stats", false, "print circuit statistics")
	dot := flag.Bool("dot", false, "create Graphviz DOT output")
	eval := flag.String("eval", "",
		"evaluate circuit with inputs `name=value,...`")
	list := flag.Bool("l", false, "list programs")
	verbose := flag.Bool("v", false, "verbose output")
	flag.Parse()

	log.SetFlags(0)

	if *list {
		for _, name := range programs.Names() {
			fmt.Println(name)
		}
		return
	}

	names := flag.Args()
	if len(names) == 0 {
		names = programs.Names()
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}
	for _, name := range names {
		params := utils.NewParams()
		params.Verbose = *verbose

		circ, err := build(name, *outDir, *dot, params)
		if err != nil {
			log.Fatalf("%s: %s\n", name, err)
		}
		if *stats {
			circ.PrintSummary(os.Stdout)
		}
		if len(*eval) > 0 {
			if err := evaluate(circ, *eval); err != nil {
				log.Fatalf("%s: %s\n", name, err)
			}
		}
	}
}

func build(name, dir string, dot bool, params *utils.Params) (
	*circuit.Circuit, error) {

	defer params.Close()

	p, err := programs.Lookup(name)
	if err != nil {
		return nil, err
	}
	out := filepath.Join(dir, name+".mpc.bin")
	f, err := os.Create(out)
	if err != nil {
		return nil, err
	}
	params.CircOut = f

	if dot {
		f, err := os.Create(filepath.Join(dir, name+".dot"))
		if err != nil {
			return nil, err
		}
		params.CircDotOut = f
	}
	circ, err := compiler.Compile(p, params)
	if err != nil {
		os.Remove(out)
		return nil, err
	}
	fmt.Printf("%s: %s\n", out, circ)
	return circ, nil
}

func evaluate(circ *circuit.Circuit, arg string) error {
	values := make(map[string]string)
	for _, kv := range strings.Split(arg, ",") {
		idx := strings.IndexByte(kv, '=')
		if idx < 0 {
			return fmt.Errorf("invalid input '%s'", kv)
		}
		values[strings.TrimSpace(kv[:idx])] = strings.TrimSpace(kv[idx+1:])
	}

	var inputs []*big.Int
	for _, arg := range circ.Inputs {
		v, ok := values[arg.Name]
		if !ok {
			return fmt.Errorf("input %s not set", arg.Name)
		}
		input := new(big.Int)
		switch {
		case arg.Type.Boolean() && v == "true":
			input.SetInt64(1)
		case arg.Type.Boolean() && v == "false":
		default:
			if _, ok := input.SetString(v, 0); !ok {
				return fmt.Errorf("input %s: invalid value '%s'", arg.Name, v)
			}
		}
		inputs = append(inputs, input)
	}
	outputs, err := circ.Compute(inputs)
	if err != nil {
		return err
	}
	for idx, arg := range circ.Outputs {
		party := circ.Parties[arg.Party]
		if arg.Type.Boolean() {
			fmt.Printf("%s@%s: %v\n", arg.Name, party, outputs[idx].Sign() != 0)
		} else {
			fmt.Printf("%s@%s: %v\n", arg.Name, party, outputs[idx])
		}
	}
	return nil
}
