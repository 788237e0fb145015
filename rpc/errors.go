//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package rpc

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/mpcnet/chain"
	"github.com/markkurossi/mpcnet/keys"
	"github.com/markkurossi/mpcnet/store"
	"github.com/markkurossi/mpcnet/vm"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Request errors.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAborted         = errors.New("computation aborted")
)

// codeErrors maps sentinel errors to gRPC codes. The first error of
// each code is the generic error of the code.
var codeErrors = []struct {
	code codes.Code
	errs []error
}{
	{codes.NotFound, []error{store.ErrNotFound, chain.ErrUnknownWallet}},
	{codes.PermissionDenied, []error{store.ErrPermissionDenied}},
	{codes.AlreadyExists, []error{store.ErrExists, store.ErrImmutable}},
	{codes.FailedPrecondition, []error{chain.ErrInsufficientFunds}},
	{codes.InvalidArgument, []error{
		ErrInvalidArgument,
		chain.ErrInvalidReceipt,
		chain.ErrReplay,
		chain.ErrInvalidOperation,
		chain.ErrInvalidAmount,
		keys.ErrInvalidSignature,
		keys.ErrInvalidKey,
		vm.ErrInvalidID,
		vm.ErrInvalidValue,
		store.ErrInvalidCID,
		store.ErrCIDMismatch,
		ErrInvalidMessage,
	}},
	{codes.Aborted, []error{ErrAborted}},
	{codes.DeadlineExceeded, []error{context.DeadlineExceeded}},
	{codes.Canceled, []error{context.Canceled}},
}

// Status converts the error into a gRPC status error. The status
// carries the matched sentinel error as its detail.
func Status(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, ce := range codeErrors {
		// Match specific sentinels before the generic one.
		for i := len(ce.errs) - 1; i >= 0; i-- {
			e := ce.errs[i]
			if !errors.Is(err, e) {
				continue
			}
			st := status.New(ce.code, err.Error())
			withDetails, derr := st.WithDetails(wrapperspb.String(e.Error()))
			if derr == nil {
				st = withDetails
			}
			return st.Err()
		}
	}
	return status.Error(codes.Internal, err.Error())
}

// FromStatus converts the gRPC status error into an error that
// matches the corresponding sentinel error with errors.Is.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	msg := st.Message()
	var sentinel string
	for _, d := range st.Details() {
		if sv, ok := d.(*wrapperspb.StringValue); ok {
			sentinel = sv.GetValue()
			break
		}
	}
	for _, ce := range codeErrors {
		if ce.code != st.Code() {
			continue
		}
		for _, e := range ce.errs {
			if e.Error() == sentinel {
				return &remoteError{msg: msg, cause: e}
			}
		}
		return &remoteError{msg: msg, cause: ce.errs[0]}
	}
	return err
}

// remoteError holds a server error message and the local sentinel
// error it maps to.
type remoteError struct {
	msg   string
	cause error
}

func (e *remoteError) Error() string {
	return e.msg
}

func (e *remoteError) Unwrap() error {
	return e.cause
}
