//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package client

import (
	"context"
	"crypto/rand"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/mpcnet/chain"
	"github.com/markkurossi/mpcnet/config"
	"github.com/markkurossi/mpcnet/keys"
	"github.com/markkurossi/mpcnet/rpc"
	"github.com/markkurossi/mpcnet/vm"
)

// ErrGasLimit is returned when a funding request exceeds the payer's
// gas limit.
var ErrGasLimit = errors.New("client: gas limit exceeded")

// Payer funds user balances from a network wallet.
type Payer struct {
	Network   *config.Network
	WalletKey *keys.PrivateKey

	// GasLimit caps a single funding request. Zero means no limit.
	GasLimit uint64
}

// NewPayer creates a payer for the network wallet.
func NewPayer(network *config.Network, walletKey *keys.PrivateKey,
	gasLimit uint64) *Payer {

	return &Payer{
		Network:   network,
		WalletKey: walletKey,
		GasLimit:  gasLimit,
	}
}

// Fund moves amount from the payer's wallet to the user balance. It
// returns the new user balance.
func (p *Payer) Fund(ctx context.Context, c *rpc.ChainClient, user vm.UserID,
	amount uint64) (uint64, error) {

	if p == nil || p.WalletKey == nil {
		return 0, errors.New("client: no payer wallet")
	}
	if p.GasLimit > 0 && amount > p.GasLimit {
		return 0, errors.Wrapf(ErrGasLimit, "%d > %d", amount, p.GasLimit)
	}
	nonce, err := chain.NewNonce(rand.Reader)
	if err != nil {
		return 0, err
	}
	t := &chain.Transfer{
		To:     user,
		Amount: amount,
		Nonce:  nonce,
	}
	t.Sign(p.WalletKey)

	return c.AddFunds(ctx, t)
}
