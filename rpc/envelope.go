//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package rpc implements the gRPC services of the compute nodes and
// the chain. The services use protobuf wrapper types as their
// messages so that no protoc code generation is needed: the request
// and response structures are JSON encoded inside
// wrapperspb.BytesValue payloads.
package rpc

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/mpcnet/keys"
	"github.com/markkurossi/mpcnet/vm"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ErrInvalidMessage is returned for malformed messages.
var ErrInvalidMessage = errors.New("rpc: invalid message")

// Envelope holds a signed request. The requester is identified by
// the user ID of the public key.
type Envelope struct {
	Payload   []byte         `json:"payload"`
	PublicKey keys.PublicKey `json:"public_key"`
	Signature []byte         `json:"signature"`
}

// Encode encodes the message into a wrapper value.
func Encode(msg interface{}) (*wrapperspb.BytesValue, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(err, "rpc: encode")
	}
	return wrapperspb.Bytes(data), nil
}

// Decode decodes the wrapper value into the message.
func Decode(in *wrapperspb.BytesValue, msg interface{}) error {
	if in == nil {
		return errors.Wrap(ErrInvalidMessage, "missing message")
	}
	if err := json.Unmarshal(in.GetValue(), msg); err != nil {
		return errors.Wrap(ErrInvalidMessage, err.Error())
	}
	return nil
}

// Seal encodes the message and signs it with the key.
func Seal(key *keys.PrivateKey, msg interface{}) (*wrapperspb.BytesValue,
	error) {

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(err, "rpc: encode")
	}
	return Encode(&Envelope{
		Payload:   payload,
		PublicKey: key.Public(),
		Signature: key.Sign(payload),
	})
}

// Open verifies the signed envelope and decodes its payload into the
// message. It returns the user ID of the signer.
func Open(in *wrapperspb.BytesValue, msg interface{}) (vm.UserID, error) {
	var env Envelope
	if err := Decode(in, &env); err != nil {
		return "", err
	}
	if err := keys.Verify(env.PublicKey, env.Payload, env.Signature); err != nil {
		return "", errors.Wrap(err, "rpc: envelope")
	}
	if err := json.Unmarshal(env.Payload, msg); err != nil {
		return "", errors.Wrap(ErrInvalidMessage, err.Error())
	}
	return vm.UserID(env.PublicKey.UserID()), nil
}
