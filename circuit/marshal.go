//
// Copyright (c) 2020-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/markkurossi/mpcnet/types"
)

const (
	// MAGIC is a magic number for the compiled program format.
	MAGIC = 0x6d70636e // mpcn

	// Version is the current version of the compiled program format.
	Version = 1

	maxString = 64 * 1024
	maxCount  = 1 << 26
	maxBits   = 4096

	// gateAlloc caps the initial gate capacity of parsed circuits.
	gateAlloc = 4096
)

var (
	bo = binary.BigEndian
)

// Marshal marshals circuit in the compiled program format.
func (c *Circuit) Marshal(out io.Writer) error {
	w := bufio.NewWriter(out)

	if err := marshalValues(w, uint32(MAGIC), uint32(Version)); err != nil {
		return err
	}
	if err := marshalString(w, c.Name); err != nil {
		return err
	}
	if err := marshalValues(w, uint32(len(c.Parties))); err != nil {
		return err
	}
	for _, p := range c.Parties {
		if err := marshalString(w, p); err != nil {
			return err
		}
	}
	err := marshalValues(w,
		uint32(c.NumGates),
		uint32(c.NumWires),
		uint32(len(c.Inputs)),
		uint32(len(c.Outputs)))
	if err != nil {
		return err
	}
	for _, input := range c.Inputs {
		if err := marshalIOArg(w, input); err != nil {
			return err
		}
	}
	for _, output := range c.Outputs {
		if err := marshalIOArg(w, output); err != nil {
			return err
		}
	}

	for _, g := range c.Gates {
		switch g.Op {
		case XOR, XNOR, AND, OR:
			err = marshalValues(w, byte(g.Op),
				uint32(g.Input0), uint32(g.Input1), uint32(g.Output))

		case INV:
			err = marshalValues(w, byte(g.Op),
				uint32(g.Input0), uint32(g.Output))

		default:
			return fmt.Errorf("unsupported gate type %s", g.Op)
		}
		if err != nil {
			return err
		}
	}
	return w.Flush()
}

// Bytes returns the circuit in the compiled program format.
func (c *Circuit) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Marshal(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalValues(out io.Writer, values ...interface{}) error {
	for _, v := range values {
		if err := binary.Write(out, bo, v); err != nil {
			return err
		}
	}
	return nil
}

func marshalIOArg(out io.Writer, arg IOArg) error {
	if err := marshalString(out, arg.Name); err != nil {
		return err
	}
	return marshalValues(out,
		uint32(arg.Party), byte(arg.Type.Type), uint32(arg.Type.Bits))
}

func marshalString(out io.Writer, val string) error {
	bytes := []byte(val)
	if err := binary.Write(out, bo, uint32(len(bytes))); err != nil {
		return err
	}
	_, err := out.Write(bytes)
	return err
}

// ParseFile parses the compiled program file.
func ParseFile(file string) (*Circuit, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// ParseBytes parses the compiled program from the data.
func ParseBytes(data []byte) (*Circuit, error) {
	return Parse(bytes.NewReader(data))
}

// Parse parses the compiled program from the reader. The parsed
// circuit is validated before it is returned.
func Parse(in io.Reader) (*Circuit, error) {
	r := bufio.NewReader(in)

	var magic, version uint32
	if err := binary.Read(r, bo, &magic); err != nil {
		return nil, err
	}
	if magic != MAGIC {
		return nil, fmt.Errorf("invalid magic number 0x%08x", magic)
	}
	if err := binary.Read(r, bo, &version); err != nil {
		return nil, err
	}
	if version != Version {
		return nil, fmt.Errorf("unsupported format version %d", version)
	}

	name, err := parseString(r)
	if err != nil {
		return nil, err
	}
	numParties, err := parseCount(r)
	if err != nil {
		return nil, err
	}
	circ := &Circuit{
		Name: name,
	}
	for i := 0; i < numParties; i++ {
		p, err := parseString(r)
		if err != nil {
			return nil, err
		}
		circ.Parties = append(circ.Parties, p)
	}

	var counts [4]int
	for i := range counts {
		counts[i], err = parseCount(r)
		if err != nil {
			return nil, err
		}
	}
	circ.NumGates = counts[0]
	circ.NumWires = counts[1]

	for i := 0; i < counts[2]; i++ {
		arg, err := parseIOArg(r)
		if err != nil {
			return nil, err
		}
		circ.Inputs = append(circ.Inputs, arg)
	}
	for i := 0; i < counts[3]; i++ {
		arg, err := parseIOArg(r)
		if err != nil {
			return nil, err
		}
		circ.Outputs = append(circ.Outputs, arg)
	}

	circ.Gates = make([]Gate, 0, min(circ.NumGates, gateAlloc))
	for i := 0; i < circ.NumGates; i++ {
		op, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		var wires []uint32
		switch Operation(op) {
		case XOR, XNOR, AND, OR:
			wires = make([]uint32, 3)
		case INV:
			wires = make([]uint32, 2)
		default:
			return nil, fmt.Errorf("invalid operation %d", op)
		}
		if err := binary.Read(r, bo, wires); err != nil {
			return nil, err
		}
		g := Gate{
			Op:     Operation(op),
			Input0: Wire(wires[0]),
			Output: Wire(wires[len(wires)-1]),
		}
		if len(wires) == 3 {
			g.Input1 = Wire(wires[1])
		}
		circ.Gates = append(circ.Gates, g)
	}
	if _, err := r.ReadByte(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after gates")
	}
	circ.ComputeStats()

	if err := circ.Validate(); err != nil {
		return nil, err
	}
	return circ, nil
}

func parseCount(r io.Reader) (int, error) {
	var v uint32
	if err := binary.Read(r, bo, &v); err != nil {
		return 0, err
	}
	if v > maxCount {
		return 0, fmt.Errorf("count %d too big", v)
	}
	return int(v), nil
}

func parseString(r io.Reader) (string, error) {
	var l uint32
	if err := binary.Read(r, bo, &l); err != nil {
		return "", err
	}
	if l > maxString {
		return "", fmt.Errorf("string length %d too big", l)
	}
	buf := make([]byte, l)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func parseIOArg(r io.Reader) (IOArg, error) {
	var arg IOArg
	var err error

	arg.Name, err = parseString(r)
	if err != nil {
		return arg, err
	}
	var party, bits uint32
	var t byte
	if err := marshalRead(r, &party, &t, &bits); err != nil {
		return arg, err
	}
	arg.Party = int(party)
	arg.Type = types.Info{
		Type: types.Type(t),
		Bits: types.Size(bits),
	}
	if arg.Type.Undefined() || bits == 0 || bits > maxBits ||
		(arg.Type.Boolean() && bits != 1) {
		return arg, fmt.Errorf("invalid type %v%d for %s",
			types.Type(t), bits, arg.Name)
	}
	return arg, nil
}

func marshalRead(r io.Reader, values ...interface{}) error {
	for _, v := range values {
		if err := binary.Read(r, bo, v); err != nil {
			return err
		}
	}
	return nil
}
