//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/markkurossi/mpcnet/client"
	"github.com/markkurossi/mpcnet/compiler"
	"github.com/markkurossi/mpcnet/devnet"
	"github.com/markkurossi/mpcnet/programs"
	"github.com/stretchr/testify/require"
)

func TestMillionaire(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	d, err := devnet.Start(ctx, devnet.Options{})
	require.NoError(t, err)
	defer d.Stop()

	p, err := programs.Lookup(programName)
	require.NoError(t, err)
	circ, err := compiler.Compile(p, nil)
	require.NoError(t, err)
	data, err := circ.Bytes()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), programName+".mpc.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	payer := client.NewPayer(d.Network(), d.Wallets()[0], gasLimit)

	var out bytes.Buffer
	result, err := run(ctx, &out, d.Network(), payer, path)
	require.NoError(t, err)
	require.True(t, result["comparison_result"].Bool())
	require.Contains(t, out.String(), "Is Alice richer than Bob? Yes")
}

func TestMissingProgram(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	d, err := devnet.Start(ctx, devnet.Options{})
	require.NoError(t, err)
	defer d.Stop()

	payer := client.NewPayer(d.Network(), d.Wallets()[0], gasLimit)

	var out bytes.Buffer
	result, err := run(ctx, &out, d.Network(), payer,
		filepath.Join(t.TempDir(), "missing.mpc.bin"))
	require.NoError(t, err)
	require.Nil(t, result)
	require.Contains(t, out.String(), "ERROR: Could not find compiled program")
}

func TestUnreadableProgram(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	d, err := devnet.Start(ctx, devnet.Options{})
	require.NoError(t, err)
	defer d.Stop()

	payer := client.NewPayer(d.Network(), d.Wallets()[0], gasLimit)

	// Reading a directory fails with an error other than a missing
	// file.
	var out bytes.Buffer
	result, err := run(ctx, &out, d.Network(), payer, t.TempDir())
	require.Error(t, err)
	require.Nil(t, result)
	require.NotContains(t, out.String(), "Could not find compiled program")
}
