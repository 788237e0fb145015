//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package chain

import (
	"crypto/rand"
	"io"
	"math"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/mpcnet/keys"
	"github.com/markkurossi/mpcnet/vm"
)

// Prices define the operation prices. The price of an operation is
// Base[op] + PerUnit[op]*units.
type Prices struct {
	Base    map[vm.Operation]uint64 `json:"base"`
	PerUnit map[vm.Operation]uint64 `json:"per_unit"`
}

// DefaultPrices returns the default operation prices.
func DefaultPrices() Prices {
	return Prices{
		Base: map[vm.Operation]uint64{
			vm.OpStoreProgram:      1000,
			vm.OpStoreValues:       1000,
			vm.OpRetrieveValues:    500,
			vm.OpUpdatePermissions: 500,
			vm.OpDeleteValues:      100,
			vm.OpCompute:           5000,
			vm.OpRetrieveResults:   500,
		},
		PerUnit: map[vm.Operation]uint64{
			vm.OpStoreProgram:      100,
			vm.OpStoreValues:       10,
			vm.OpRetrieveValues:    0,
			vm.OpUpdatePermissions: 0,
			vm.OpDeleteValues:      0,
			vm.OpCompute:           100,
			vm.OpRetrieveResults:   0,
		},
	}
}

// Quote returns the price of the operation.
func (p Prices) Quote(op vm.Operation, units uint64) (uint64, error) {
	if !op.Valid() {
		return 0, errors.Wrapf(ErrInvalidOperation, "%q", op)
	}
	perUnit := p.PerUnit[op]
	if perUnit != 0 && units > math.MaxUint64/perUnit {
		return 0, errors.Wrapf(ErrInvalidAmount, "%s: %d units", op, units)
	}
	amount := perUnit * units
	if amount > math.MaxUint64-p.Base[op] {
		return 0, errors.Wrapf(ErrInvalidAmount, "%s: %d units", op, units)
	}
	return p.Base[op] + amount, nil
}

// Options define ledger options.
type Options struct {
	Prices Prices
	Rand   io.Reader
	Now    func() time.Time
}

// Ledger implements the payments ledger.
type Ledger struct {
	key      *keys.ChainKey
	prices   Prices
	rand     io.Reader
	now      func() time.Time
	m        sync.Mutex
	wallets  map[string]uint64
	balances map[vm.UserID]uint64
	nonces   map[string]struct{}
}

// NewLedger creates a new ledger with the genesis wallet balances.
func NewLedger(key *keys.ChainKey, wallets map[string]uint64,
	opts Options) *Ledger {

	if opts.Prices.Base == nil {
		opts.Prices = DefaultPrices()
	}
	if opts.Rand == nil {
		opts.Rand = rand.Reader
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	l := &Ledger{
		key:      key,
		prices:   opts.Prices,
		rand:     opts.Rand,
		now:      opts.Now,
		wallets:  make(map[string]uint64),
		balances: make(map[vm.UserID]uint64),
		nonces:   make(map[string]struct{}),
	}
	for addr, balance := range wallets {
		l.wallets[addr] = balance
	}
	return l
}

// PublicKey returns the chain public key.
func (l *Ledger) PublicKey() keys.ChainPublicKey {
	return l.key.Public()
}

// Prices returns the ledger prices.
func (l *Ledger) Prices() Prices {
	return l.prices
}

// Quote returns the price of the operation.
func (l *Ledger) Quote(op vm.Operation, units uint64) (uint64, error) {
	return l.prices.Quote(op, units)
}

// Balance returns the user balance.
func (l *Ledger) Balance(user vm.UserID) uint64 {
	l.m.Lock()
	defer l.m.Unlock()
	return l.balances[user]
}

// WalletBalance returns the wallet balance.
func (l *Ledger) WalletBalance(address string) (uint64, error) {
	l.m.Lock()
	defer l.m.Unlock()

	balance, ok := l.wallets[address]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownWallet, "%s", address)
	}
	return balance, nil
}

func (l *Ledger) checkNonce(nonce string) error {
	if len(nonce) == 0 {
		return errors.Wrap(ErrReplay, "empty nonce")
	}
	if _, ok := l.nonces[nonce]; ok {
		return errors.Wrapf(ErrReplay, "%s", nonce)
	}
	return nil
}

// AddFunds moves funds from a wallet to a user balance. It returns
// the new user balance.
func (l *Ledger) AddFunds(t *Transfer) (uint64, error) {
	if err := t.Verify(); err != nil {
		return 0, errors.Wrap(err, "transfer")
	}
	if len(t.To) == 0 {
		return 0, errors.New("chain: transfer without recipient")
	}

	l.m.Lock()
	defer l.m.Unlock()

	balance, ok := l.wallets[t.From]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownWallet, "%s", t.From)
	}
	if err := l.checkNonce(t.Nonce); err != nil {
		return 0, err
	}
	if balance < t.Amount {
		return 0, errors.Wrapf(ErrInsufficientFunds,
			"wallet %s: balance %d < %d", t.From, balance, t.Amount)
	}
	if math.MaxUint64-l.balances[t.To] < t.Amount {
		return 0, errors.Wrapf(ErrInvalidAmount, "user %s: balance overflow",
			t.To)
	}
	l.nonces[t.Nonce] = struct{}{}
	l.wallets[t.From] -= t.Amount
	l.balances[t.To] += t.Amount

	return l.balances[t.To], nil
}

// Pay deducts the operation price from the user balance and returns
// a signed receipt.
func (l *Ledger) Pay(p *Payment) (*Receipt, error) {
	if err := p.Verify(); err != nil {
		return nil, errors.Wrap(err, "payment")
	}
	amount, err := l.Quote(p.Op, p.Units)
	if err != nil {
		return nil, err
	}
	receiptNonce, err := NewNonce(l.rand)
	if err != nil {
		return nil, err
	}

	l.m.Lock()
	defer l.m.Unlock()

	if err := l.checkNonce(p.Nonce); err != nil {
		return nil, err
	}
	balance := l.balances[p.User]
	if balance < amount {
		return nil, errors.Wrapf(ErrInsufficientFunds,
			"user %s: balance %d < %d", p.User, balance, amount)
	}
	l.nonces[p.Nonce] = struct{}{}
	l.balances[p.User] -= amount

	receipt := &Receipt{
		Nonce:  receiptNonce,
		User:   p.User,
		Op:     p.Op,
		Units:  p.Units,
		Amount: amount,
		Issued: l.now().UTC(),
	}
	receipt.Signature = l.key.Sign(receipt.Message())

	return receipt, nil
}
