//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package vm

import (
	"crypto/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/mpcnet/types"
	"github.com/stretchr/testify/require"
)

func TestSplitCombine(t *testing.T) {
	secrets := []Secret{
		SecretInteger(1000000),
		SecretInteger(-42),
		SecretUnsignedInteger(1<<63 + 5),
		SecretBoolean(true),
		SecretBoolean(false),
	}
	for _, s := range secrets {
		for n := 1; n <= 4; n++ {
			shares, err := Split(s, n, rand.Reader)
			require.NoError(t, err)
			require.Len(t, shares, n)
			for _, share := range shares {
				require.NoError(t, share.Validate())
			}
			result, err := Combine(shares)
			require.NoError(t, err)
			require.True(t, result.Type.Equal(s.Type))
			require.Zero(t, result.Value.Cmp(s.Value), "%v != %v", result, s)
		}
	}

	_, err := Split(SecretBoolean(true), 0, rand.Reader)
	require.Error(t, err)

	_, err = Split(Secret{Type: types.Integer}, 2, rand.Reader)
	require.True(t, errors.Is(err, ErrInvalidValue))
}

func TestCombineMismatch(t *testing.T) {
	a, err := Split(SecretInteger(1), 2, rand.Reader)
	require.NoError(t, err)
	b, err := Split(SecretBoolean(true), 2, rand.Reader)
	require.NoError(t, err)

	_, err = Combine([]Share{a[0], b[1]})
	require.True(t, errors.Is(err, ErrInvalidValue))

	_, err = Combine(nil)
	require.True(t, errors.Is(err, ErrInvalidValue))
}

func TestSplitValues(t *testing.T) {
	values := NamedValues{
		"alice_wealth": SecretInteger(1000000),
		"flag":         SecretBoolean(true),
	}
	shares, err := SplitValues(values, 3, rand.Reader)
	require.NoError(t, err)
	require.Len(t, shares, 3)

	result, err := CombineValues(shares)
	require.NoError(t, err)
	require.Equal(t, int64(1000000), result["alice_wealth"].Int64())
	require.True(t, result["flag"].Bool())
	require.Equal(t, []string{"alice_wealth", "flag"}, result.Names())

	delete(shares[2], "flag")
	_, err = CombineValues(shares)
	require.True(t, errors.Is(err, ErrInvalidValue))
}

func TestIDs(t *testing.T) {
	id, err := NewValueID(rand.Reader)
	require.NoError(t, err)
	parsed, err := ParseValueID(string(id))
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	_, err = ParseComputeID("not-an-id")
	require.True(t, errors.Is(err, ErrInvalidID))

	pid := NewProgramID("alice", "millionaire_problem", "bafkrei")
	user, name, cid, err := pid.Parse()
	require.NoError(t, err)
	require.Equal(t, UserID("alice"), user)
	require.Equal(t, "millionaire_problem", name)
	require.Equal(t, "bafkrei", cid)

	_, _, _, err = ProgramID("alice//x").Parse()
	require.True(t, errors.Is(err, ErrInvalidID))
}

func TestPermissions(t *testing.T) {
	prog := NewProgramID("alice", "millionaire_problem", "bafkrei")
	other := NewProgramID("alice", "other", "bafkrei")

	p := DefaultsForUser("alice").
		AllowCompute("alice", prog).
		AllowCompute("bob", prog).
		AllowCompute("bob", prog)
	require.NoError(t, p.Validate())

	require.True(t, p.CanRetrieve("alice"))
	require.False(t, p.CanRetrieve("bob"))
	require.True(t, p.CanCompute("bob", prog))
	require.False(t, p.CanCompute("bob", other))
	require.True(t, p.CanCompute("alice", other))
	require.Len(t, p.Compute["bob"], 1)

	c := p.Clone().AllowRetrieve("bob").AllowDelete("bob").AllowUpdate("bob")
	require.True(t, c.CanRetrieve("bob"))
	require.True(t, c.CanDelete("bob"))
	require.True(t, c.CanUpdate("bob"))
	require.False(t, p.CanRetrieve("bob"))

	require.True(t, errors.Is((&Permissions{}).Validate(), ErrInvalidValue))
	var missing *Permissions
	require.True(t, errors.Is(missing.Validate(), ErrInvalidValue))
	bad := DefaultsForUser("alice").AllowCompute("bob", "invalid")
	require.Error(t, bad.Validate())
}

func TestBindings(t *testing.T) {
	in, err := InputBindings([]InputPartyBinding{
		{Party: "Alice", User: "alice"},
		{Party: "Bob", User: "bob"},
	})
	require.NoError(t, err)
	require.Equal(t, UserID("bob"), in["Bob"])

	_, err = InputBindings([]InputPartyBinding{
		{Party: "Alice", User: "alice"},
		{Party: "Alice", User: "bob"},
	})
	require.Error(t, err)

	_, err = OutputBindings([]OutputPartyBinding{{Party: "Alice"}})
	require.Error(t, err)
}

func TestUnits(t *testing.T) {
	require.Equal(t, uint64(1), StoreProgramUnits(0))
	require.Equal(t, uint64(1), StoreProgramUnits(1024))
	require.Equal(t, uint64(2), StoreProgramUnits(1025))
	require.Equal(t, uint64(5), StoreValuesUnits(1, 5))
	require.Equal(t, uint64(1), ComputeUnits(63))
	require.Equal(t, uint64(3), ComputeUnits(128))
	require.True(t, OpCompute.Valid())
	require.False(t, Operation("mint").Valid())

	require.NoError(t, CheckTTL(1))
	require.NoError(t, CheckTTL(MaxTTLDays))
	for _, days := range []int{0, -1, MaxTTLDays + 1, 213504} {
		require.True(t, errors.Is(CheckTTL(days), ErrInvalidValue), "%d", days)
	}
}
