//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package chain implements the payments ledger of the network. Wallets
// fund user balances, users pay for network operations, and the
// ledger issues signed receipts that the compute nodes verify.
package chain

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/mpcnet/keys"
	"github.com/markkurossi/mpcnet/vm"
)

// Chain errors.
var (
	ErrInsufficientFunds = errors.New("chain: insufficient funds")
	ErrUnknownWallet     = errors.New("chain: unknown wallet")
	ErrReplay            = errors.New("chain: nonce already used")
	ErrInvalidReceipt    = errors.New("chain: invalid receipt")
	ErrInvalidOperation  = errors.New("chain: invalid operation")
	ErrInvalidAmount     = errors.New("chain: invalid amount")
)

// NewNonce creates a new random nonce.
func NewNonce(rand io.Reader) (string, error) {
	var buf [16]byte
	if _, err := io.ReadFull(rand, buf[:]); err != nil {
		return "", errors.Wrap(err, "generate nonce")
	}
	return hex.EncodeToString(buf[:]), nil
}

// Transfer moves funds from a wallet to a user balance. It is signed
// with the wallet key.
type Transfer struct {
	From      string         `json:"from"`
	To        vm.UserID      `json:"to"`
	Amount    uint64         `json:"amount"`
	Nonce     string         `json:"nonce"`
	PublicKey keys.PublicKey `json:"public_key"`
	Signature []byte         `json:"signature,omitempty"`
}

// Message returns the signed message of the transfer.
func (t *Transfer) Message() []byte {
	data, _ := json.Marshal(&struct {
		From      string         `json:"from"`
		To        vm.UserID      `json:"to"`
		Amount    uint64         `json:"amount"`
		Nonce     string         `json:"nonce"`
		PublicKey keys.PublicKey `json:"public_key"`
	}{
		From:      t.From,
		To:        t.To,
		Amount:    t.Amount,
		Nonce:     t.Nonce,
		PublicKey: t.PublicKey,
	})
	return data
}

// Sign signs the transfer with the wallet key.
func (t *Transfer) Sign(key *keys.PrivateKey) {
	t.From = key.Address()
	t.PublicKey = key.Public()
	t.Signature = key.Sign(t.Message())
}

// Verify verifies the transfer signature.
func (t *Transfer) Verify() error {
	if t.PublicKey.Address() != t.From {
		return errors.Wrapf(keys.ErrInvalidKey, "key does not match wallet %s",
			t.From)
	}
	return keys.Verify(t.PublicKey, t.Message(), t.Signature)
}

// Payment pays for a network operation from the user balance. It is
// signed with the user's identity key.
type Payment struct {
	User      vm.UserID      `json:"user"`
	Op        vm.Operation   `json:"op"`
	Units     uint64         `json:"units"`
	Nonce     string         `json:"nonce"`
	PublicKey keys.PublicKey `json:"public_key"`
	Signature []byte         `json:"signature,omitempty"`
}

// Message returns the signed message of the payment.
func (p *Payment) Message() []byte {
	data, _ := json.Marshal(&struct {
		User      vm.UserID      `json:"user"`
		Op        vm.Operation   `json:"op"`
		Units     uint64         `json:"units"`
		Nonce     string         `json:"nonce"`
		PublicKey keys.PublicKey `json:"public_key"`
	}{
		User:      p.User,
		Op:        p.Op,
		Units:     p.Units,
		Nonce:     p.Nonce,
		PublicKey: p.PublicKey,
	})
	return data
}

// Sign signs the payment with the user key.
func (p *Payment) Sign(key *keys.PrivateKey) {
	p.User = vm.UserID(key.UserID())
	p.PublicKey = key.Public()
	p.Signature = key.Sign(p.Message())
}

// Verify verifies the payment signature.
func (p *Payment) Verify() error {
	if vm.UserID(p.PublicKey.UserID()) != p.User {
		return errors.Wrapf(keys.ErrInvalidKey, "key does not match user %s",
			p.User)
	}
	return keys.Verify(p.PublicKey, p.Message(), p.Signature)
}

// Receipt proves that the user has paid for an operation. It is
// signed with the chain key.
type Receipt struct {
	Nonce     string       `json:"nonce"`
	User      vm.UserID    `json:"user"`
	Op        vm.Operation `json:"op"`
	Units     uint64       `json:"units"`
	Amount    uint64       `json:"amount"`
	Issued    time.Time    `json:"issued"`
	Signature []byte       `json:"signature,omitempty"`
}

// Message returns the signed message of the receipt.
func (r *Receipt) Message() []byte {
	data, _ := json.Marshal(&struct {
		Nonce  string       `json:"nonce"`
		User   vm.UserID    `json:"user"`
		Op     vm.Operation `json:"op"`
		Units  uint64       `json:"units"`
		Amount uint64       `json:"amount"`
		Issued int64        `json:"issued"`
	}{
		Nonce:  r.Nonce,
		User:   r.User,
		Op:     r.Op,
		Units:  r.Units,
		Amount: r.Amount,
		Issued: r.Issued.UnixNano(),
	})
	return data
}

// VerifyReceipt verifies the receipt's chain signature.
func VerifyReceipt(pub keys.ChainPublicKey, r *Receipt) error {
	if r == nil {
		return errors.Wrap(ErrInvalidReceipt, "missing receipt")
	}
	if err := pub.Verify(r.Message(), r.Signature); err != nil {
		return errors.Wrap(ErrInvalidReceipt, err.Error())
	}
	return nil
}

// Check verifies the receipt and checks that it pays for the
// operation op of units units by user.
func (r *Receipt) Check(pub keys.ChainPublicKey, user vm.UserID,
	op vm.Operation, units uint64) error {

	if err := VerifyReceipt(pub, r); err != nil {
		return err
	}
	if r.User != user {
		return errors.Wrapf(ErrInvalidReceipt, "receipt for user %s", r.User)
	}
	if r.Op != op {
		return errors.Wrapf(ErrInvalidReceipt, "receipt for operation %s",
			r.Op)
	}
	if r.Units != units {
		return errors.Wrapf(ErrInvalidReceipt,
			"receipt for %d units, expected %d", r.Units, units)
	}
	return nil
}
