//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package devnet

import (
	"context"
	"crypto/rand"
	"testing"
	"time"

	"github.com/markkurossi/mpcnet/chain"
	"github.com/markkurossi/mpcnet/keys"
	"github.com/markkurossi/mpcnet/rpc"
	"github.com/markkurossi/mpcnet/vm"
	"github.com/stretchr/testify/require"
)

func testNetwork(t *testing.T, opts Options) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	d, err := Start(ctx, opts)
	require.NoError(t, err)
	defer d.Stop()

	network := d.Network()
	require.Len(t, network.Nodes, 3)
	require.Len(t, d.Wallets(), 2)

	dialOpts := rpc.DialOptions{
		Dialer: network.Dialer,
	}
	cc, err := rpc.Dial(network.Chain, dialOpts)
	require.NoError(t, err)
	defer cc.Close()
	chainClient := rpc.NewChainClient(cc)

	user, err := keys.GeneratePrivateKey(rand.Reader)
	require.NoError(t, err)
	nonce, err := chain.NewNonce(rand.Reader)
	require.NoError(t, err)
	tr := &chain.Transfer{
		To:     vm.UserID(user.UserID()),
		Amount: 5000,
		Nonce:  nonce,
	}
	tr.Sign(d.Wallets()[1])
	balance, err := chainClient.AddFunds(ctx, tr)
	require.NoError(t, err)
	require.Equal(t, uint64(5000), balance)

	for idx, addr := range network.Nodes {
		cc, err := rpc.Dial(addr, dialOpts)
		require.NoError(t, err)
		defer cc.Close()

		info, err := rpc.NewNodeClient(cc, user).Info(ctx, &rpc.InfoRequest{})
		require.NoError(t, err)
		require.Equal(t, idx, info.ID)
		require.Equal(t, 3, info.Nodes)
		require.Equal(t, network.ChainPublicKey, info.ChainPublicKey)
	}
}

func TestInMemory(t *testing.T) {
	testNetwork(t, Options{
		Nodes:   3,
		Wallets: 2,
	})
}

func TestTCP(t *testing.T) {
	testNetwork(t, Options{
		Nodes:    3,
		Wallets:  2,
		Listen:   true,
		StoreDir: t.TempDir(),
	})
}
