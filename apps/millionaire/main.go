//
// main.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// The millionaire command solves the millionaire's problem on an MPC
// network: Alice and Bob learn if Alice is richer than Bob without
// revealing their wealth.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/mpcnet/client"
	"github.com/markkurossi/mpcnet/config"
	"github.com/markkurossi/mpcnet/keys"
	"github.com/markkurossi/mpcnet/vm"
)

const (
	programName = "millionaire_problem"
	fundsAmount = 3000000
	gasLimit    = 10000000
	aliceWealth = 1000000
	bobWealth   = 800000
)

func main() {
	programPath := flag.String("program",
		"target/millionaire_problem.mpc.bin", "compiled program")
	networkName := flag.String("network", "devnet", "network name")
	flag.Parse()

	log.SetFlags(0)

	network, err := config.NetworkFromConfig(*networkName)
	if err != nil {
		log.Fatal(err)
	}
	walletKey, err := network.WalletKey(0)
	if err != nil {
		log.Fatal(err)
	}
	payer := client.NewPayer(network, walletKey, gasLimit)

	_, err = run(context.Background(), os.Stdout, network, payer, *programPath)
	if err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, out io.Writer, network *config.Network,
	payer *client.Payer, programPath string) (map[string]vm.Secret, error) {

	// Create identities for Alice and Bob.
	aliceKey, err := keys.GeneratePrivateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	bobKey, err := keys.GeneratePrivateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	alice, err := client.Create(ctx, aliceKey, network, payer)
	if err != nil {
		return nil, err
	}
	defer alice.Close()

	bob, err := client.Create(ctx, bobKey, network, payer)
	if err != nil {
		return nil, err
	}
	defer bob.Close()

	fmt.Fprintf(out, "💰  Adding funds to Alice's client balance: %d\n",
		fundsAmount)
	if _, err := alice.AddFunds(ctx, fundsAmount); err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "💰  Adding funds to Bob's client balance: %d\n",
		fundsAmount)
	if _, err := bob.AddFunds(ctx, fundsAmount); err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "-----STORE PROGRAM\n")
	binary, err := os.ReadFile(programPath)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(out, "ERROR: Could not find compiled program at %s\n",
			programPath)
		fmt.Fprintf(out,
			"Make sure to compile the program first with: mpcbuild %s\n",
			programName)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	programID, err := alice.StoreProgram(ctx, programName, binary)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Stored program_id: %s\n", programID)

	fmt.Fprintf(out, "-----STORE ALICE'S SECRET\n")
	perms := vm.DefaultsForUser(alice.UserID()).
		AllowCompute(alice.UserID(), programID).
		AllowCompute(bob.UserID(), programID)

	valuesID, err := alice.StoreValues(ctx, vm.NamedValues{
		"alice_wealth": vm.SecretInteger(aliceWealth),
	}, 5, perms)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Stored Alice's wealth with values_id: %s\n", valuesID)

	fmt.Fprintf(out, "-----COMPUTE\n")
	inputBindings := []vm.InputPartyBinding{
		{Party: "Alice", User: alice.UserID()},
		{Party: "Bob", User: bob.UserID()},
	}
	outputBindings := []vm.OutputPartyBinding{
		{Party: "Alice", Users: []vm.UserID{alice.UserID()}},
		{Party: "Bob", Users: []vm.UserID{bob.UserID()}},
	}
	fmt.Fprintf(out,
		"Invoking computation using program %s and Alice's values id %s\n",
		programID, valuesID)

	computeID, err := bob.Compute(ctx, programID, inputBindings,
		outputBindings, vm.NamedValues{
			"bob_wealth": vm.SecretInteger(bobWealth),
		}, []vm.ValueID{valuesID})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out,
		"The computation was sent to the network. compute_id: %s\n",
		computeID)

	aliceResult, err := alice.RetrieveComputeResults(ctx, computeID)
	if err != nil {
		return nil, err
	}
	bobResult, err := bob.RetrieveComputeResults(ctx, computeID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "\n----- RESULTS -----\n")
	fmt.Fprintf(out, "Alice's wealth: $%d\n", aliceWealth)
	fmt.Fprintf(out, "Bob's wealth: $%d\n", bobWealth)

	answer := "No"
	if aliceResult["comparison_result"].Bool() {
		answer = "Yes"
	}
	fmt.Fprintf(out, "\nIs Alice richer than Bob? %s\n", answer)
	fmt.Fprintf(out, "Alice's view of the result: %s\n",
		vm.NamedValues(aliceResult))
	fmt.Fprintf(out, "Bob's view of the result: %s\n",
		vm.NamedValues(bobResult))

	return aliceResult, nil
}
