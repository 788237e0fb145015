//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package rpc

import (
	"context"

	"github.com/markkurossi/mpcnet/chain"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var _ ChainServer = &ChainService{}

// ChainService implements the chain gRPC service on top of a ledger.
type ChainService struct {
	UnimplementedChainServer

	Ledger *chain.Ledger
}

func reply(msg interface{}) (*wrapperspb.BytesValue, error) {
	out, err := Encode(msg)
	if err != nil {
		return nil, Status(err)
	}
	return out, nil
}

// Balance implements ChainServer.Balance.
func (s *ChainService) Balance(ctx context.Context,
	in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {

	var req BalanceRequest
	if err := Decode(in, &req); err != nil {
		return nil, Status(err)
	}
	return reply(&BalanceResponse{
		Balance: s.Ledger.Balance(req.User),
	})
}

// AddFunds implements ChainServer.AddFunds.
func (s *ChainService) AddFunds(ctx context.Context,
	in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {

	var req chain.Transfer
	if err := Decode(in, &req); err != nil {
		return nil, Status(err)
	}
	balance, err := s.Ledger.AddFunds(&req)
	if err != nil {
		return nil, Status(err)
	}
	return reply(&BalanceResponse{
		Balance: balance,
	})
}

// Quote implements ChainServer.Quote.
func (s *ChainService) Quote(ctx context.Context,
	in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {

	var req QuoteRequest
	if err := Decode(in, &req); err != nil {
		return nil, Status(err)
	}
	amount, err := s.Ledger.Quote(req.Op, req.Units)
	if err != nil {
		return nil, Status(err)
	}
	return reply(&QuoteResponse{
		Amount: amount,
	})
}

// Pay implements ChainServer.Pay.
func (s *ChainService) Pay(ctx context.Context,
	in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {

	var req chain.Payment
	if err := Decode(in, &req); err != nil {
		return nil, Status(err)
	}
	receipt, err := s.Ledger.Pay(&req)
	if err != nil {
		return nil, Status(err)
	}
	return reply(receipt)
}
