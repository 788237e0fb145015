//
// main.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/markkurossi/mpcnet/config"
	"github.com/markkurossi/mpcnet/devnet"
	"github.com/markkurossi/mpcnet/env"
)

func main() {
	nodes := flag.Int("nodes", devnet.DefaultNodes, "number of compute nodes")
	addr := flag.String("addr", "127.0.0.1:8900",
		"chain service address, nodes use the following ports")
	wallets := flag.Int("wallets", 2, "number of genesis wallets")
	envFile := flag.String("env", "", "network env file")
	storeDir := flag.String("store", "", "program store directory")
	verbose := flag.Bool("v", false, "verbose output")
	debug := flag.Bool("d", false, "debug output")
	flag.Parse()

	log.SetFlags(0)

	if len(*envFile) == 0 {
		path, err := config.Path(devnet.DefaultName)
		if err != nil {
			log.Fatal(err)
		}
		*envFile = path
	}
	cfg := &env.Config{
		Verbose: *verbose,
		Debug:   *debug,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt,
		syscall.SIGTERM)
	defer stop()

	d, err := devnet.Start(ctx, devnet.Options{
		Nodes:    *nodes,
		Listen:   true,
		BaseAddr: *addr,
		Wallets:  *wallets,
		StoreDir: *storeDir,
		Config:   cfg,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer d.Stop()

	network := d.Network()
	if err := config.WriteEnvFile(*envFile, network, d.Wallets()); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("devnet running:\n")
	fmt.Printf(" - chain : %s\n", network.Chain)
	for idx, n := range network.Nodes {
		fmt.Printf(" - node%d : %s\n", idx, n)
	}
	fmt.Printf(" - env   : %s\n", *envFile)

	<-ctx.Done()
	fmt.Printf("devnet stopping\n")
}
