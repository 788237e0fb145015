//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package vm

import (
	"fmt"
	"io"
	"math/big"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/mpcnet/types"
)

// ErrInvalidValue is returned for malformed values and shares.
var ErrInvalidValue = errors.New("invalid value")

// Secret holds a secret value in the clear. Secrets exist only on
// the clients: they are split into shares before leaving the client
// and combined from shares after retrieval.
type Secret struct {
	Type  types.Info
	Value *big.Int
}

// SecretInteger creates a secret signed integer.
func SecretInteger(v int64) Secret {
	return Secret{
		Type:  types.SecretInteger,
		Value: big.NewInt(v),
	}
}

// SecretUnsignedInteger creates a secret unsigned integer.
func SecretUnsignedInteger(v uint64) Secret {
	return Secret{
		Type:  types.SecretUnsignedInteger,
		Value: new(big.Int).SetUint64(v),
	}
}

// SecretBoolean creates a secret boolean.
func SecretBoolean(v bool) Secret {
	var i int64
	if v {
		i = 1
	}
	return Secret{
		Type:  types.SecretBoolean,
		Value: big.NewInt(i),
	}
}

// Int64 returns the secret as a signed integer.
func (s Secret) Int64() int64 {
	return s.Value.Int64()
}

// Uint64 returns the secret as an unsigned integer.
func (s Secret) Uint64() uint64 {
	return s.Value.Uint64()
}

// Bool returns the secret as a boolean.
func (s Secret) Bool() bool {
	return s.Value.Sign() != 0
}

func (s Secret) String() string {
	if s.Type.Boolean() {
		return fmt.Sprintf("%s(%v)", s.Type.Type, s.Bool())
	}
	return fmt.Sprintf("%s(%s)", s.Type.Type, s.Value)
}

// NamedValues maps value names to secrets.
type NamedValues map[string]Secret

// Names returns the sorted value names.
func (v NamedValues) Names() []string {
	var result []string
	for name := range v {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

func (v NamedValues) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for idx, name := range v.Names() {
		if idx > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %s", name, v[name])
	}
	sb.WriteString("}")
	return sb.String()
}

// Share holds one XOR share of a secret. The data is the share of
// the value's little-endian bit vector.
type Share struct {
	Type types.Info `json:"type"`
	Data []byte     `json:"data"`
}

// Validate checks that the share data matches its type.
func (s Share) Validate() error {
	if !s.Type.Secret() || s.Type.Bits <= 0 {
		return errors.Wrapf(ErrInvalidValue, "share type %v", s.Type)
	}
	if len(s.Data) != s.Type.Bytes() {
		return errors.Wrapf(ErrInvalidValue, "share length %d for %v",
			len(s.Data), s.Type)
	}
	return nil
}

// NamedShares maps value names to shares.
type NamedShares map[string]Share

// Split splits the secret into n XOR shares.
func Split(s Secret, n int, rand io.Reader) ([]Share, error) {
	if n <= 0 {
		return nil, errors.Newf("invalid share count %d", n)
	}
	if !s.Type.Secret() {
		return nil, errors.Wrapf(ErrInvalidValue, "type %v is not secret",
			s.Type)
	}
	data, err := types.Encode(s.Type, s.Value)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidValue, err.Error())
	}
	result := make([]Share, n)
	for i := 1; i < n; i++ {
		r := make([]byte, len(data))
		if _, err := io.ReadFull(rand, r); err != nil {
			return nil, errors.Wrap(err, "split secret")
		}
		clearPadding(s.Type, r)
		for j := range data {
			data[j] ^= r[j]
		}
		result[i] = Share{
			Type: s.Type,
			Data: r,
		}
	}
	result[0] = Share{
		Type: s.Type,
		Data: data,
	}
	return result, nil
}

// clearPadding clears the unused high bits of the last byte.
func clearPadding(t types.Info, data []byte) {
	if rem := int(t.Bits) % 8; rem != 0 && len(data) > 0 {
		data[len(data)-1] &= byte(1<<rem) - 1
	}
}

// Combine combines the shares into the secret value.
func Combine(shares []Share) (Secret, error) {
	if len(shares) == 0 {
		return Secret{}, errors.Wrap(ErrInvalidValue, "no shares")
	}
	t := shares[0].Type
	data := make([]byte, t.Bytes())
	for _, share := range shares {
		if !share.Type.Equal(t) {
			return Secret{}, errors.Wrapf(ErrInvalidValue,
				"share type mismatch: %v != %v", share.Type, t)
		}
		if err := share.Validate(); err != nil {
			return Secret{}, err
		}
		for i := range data {
			data[i] ^= share.Data[i]
		}
	}
	return Secret{
		Type:  t,
		Value: types.Decode(t, data),
	}, nil
}

// SplitValues splits the named values into n sets of named shares.
func SplitValues(values NamedValues, n int, rand io.Reader) (
	[]NamedShares, error) {

	result := make([]NamedShares, n)
	for i := range result {
		result[i] = make(NamedShares)
	}
	for _, name := range values.Names() {
		shares, err := Split(values[name], n, rand)
		if err != nil {
			return nil, errors.Wrapf(err, "value %s", name)
		}
		for i, share := range shares {
			result[i][name] = share
		}
	}
	return result, nil
}

// CombineValues combines the named shares from all nodes into named
// values.
func CombineValues(shares []NamedShares) (NamedValues, error) {
	if len(shares) == 0 {
		return nil, errors.Wrap(ErrInvalidValue, "no shares")
	}
	result := make(NamedValues)
	for name := range shares[0] {
		var arr []Share
		for idx, s := range shares {
			share, ok := s[name]
			if !ok {
				return nil, errors.Wrapf(ErrInvalidValue,
					"value %s missing from node %d", name, idx)
			}
			arr = append(arr, share)
		}
		secret, err := Combine(arr)
		if err != nil {
			return nil, errors.Wrapf(err, "value %s", name)
		}
		result[name] = secret
	}
	for idx, s := range shares {
		if len(s) != len(shares[0]) {
			return nil, errors.Wrapf(ErrInvalidValue,
				"node %d returned %d values, expected %d",
				idx, len(s), len(shares[0]))
		}
	}
	return result, nil
}
