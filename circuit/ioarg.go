//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"fmt"
	"math/big"

	"github.com/markkurossi/mpcnet/types"
)

// IOArg describes a circuit input or output argument. The Party
// field is an index to the circuit's Parties: for inputs it is the
// party providing the value and for outputs the party receiving it.
type IOArg struct {
	Name  string
	Party int
	Type  types.Info
}

func (io IOArg) String() string {
	return fmt.Sprintf("%s@%d:%s", io.Name, io.Party, io.Type)
}

// IO specifies circuit input and output arguments.
type IO []IOArg

// Size computes the size of the circuit input and output arguments in
// bits.
func (io IO) Size() int {
	var sum int
	for _, a := range io {
		sum += int(a.Type.Bits)
	}
	return sum
}

func (io IO) String() string {
	var str = ""
	for i, a := range io {
		if i > 0 {
			str += ", "
		}
		str += a.String()
	}
	return str
}

// Offset returns the bit offset of the idx'th argument.
func (io IO) Offset(idx int) int {
	var ofs int
	for i := 0; i < idx; i++ {
		ofs += int(io[i].Type.Bits)
	}
	return ofs
}

// Find finds the argument by its name and party. It returns the
// argument index or -1 if the argument is not found.
func (io IO) Find(name string, party int) int {
	for idx, a := range io {
		if a.Name == name && a.Party == party {
			return idx
		}
	}
	return -1
}

// Lookup finds the argument by its name. It returns the argument
// index or -1 if the argument is not found.
func (io IO) Lookup(name string) int {
	for idx, a := range io {
		if a.Name == name {
			return idx
		}
	}
	return -1
}

// Split splits the value into separate I/O arguments.
func (io IO) Split(in *big.Int) []*big.Int {
	var result []*big.Int
	var bit int
	for _, arg := range io {
		r := big.NewInt(0)
		for i := 0; i < int(arg.Type.Bits); i++ {
			if in.Bit(bit) == 1 {
				r.SetBit(r, i, 1)
			}
			bit++
		}
		if arg.Type.Signed() && r.Bit(int(arg.Type.Bits)-1) == 1 {
			r.Sub(r, new(big.Int).Lsh(big.NewInt(1), uint(arg.Type.Bits)))
		}
		result = append(result, r)
	}
	return result
}

func (io IO) validate(kind string, numParties int) error {
	seen := make(map[string]bool)
	for idx, a := range io {
		if len(a.Name) == 0 {
			return fmt.Errorf("%s %d: missing name", kind, idx)
		}
		if a.Party < 0 || a.Party >= numParties {
			return fmt.Errorf("%s %s: invalid party %d", kind, a.Name, a.Party)
		}
		if a.Type.Bits <= 0 || !a.Type.Secret() {
			return fmt.Errorf("%s %s: invalid type %v", kind, a.Name, a.Type)
		}
		key := fmt.Sprintf("%s@%d", a.Name, a.Party)
		if kind == "input" {
			key = a.Name
		}
		if seen[key] {
			return fmt.Errorf("%s %s: defined multiple times", kind, a.Name)
		}
		seen[key] = true
	}
	return nil
}
