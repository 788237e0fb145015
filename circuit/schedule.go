//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package circuit

// Level defines one evaluation round of the circuit. The Nonlinear
// gates depend only on wires computed in earlier levels and they can
// be evaluated in one batch. The Linear gates are evaluated after the
// nonlinear gates, in circuit order.
type Level struct {
	Nonlinear []int
	Linear    []int
}

// Schedule groups the circuit gates into levels by their nonlinear
// depth. Evaluating the levels in order, nonlinear gates before
// linear gates, yields the same result as evaluating the gates in
// circuit order.
func (c *Circuit) Schedule() []Level {
	depth := make([]int, c.NumWires)
	var levels []Level

	for idx, g := range c.Gates {
		var d int
		for _, w := range g.Inputs() {
			if depth[w] > d {
				d = depth[w]
			}
		}
		if g.Op.Nonlinear() {
			d++
		}
		depth[g.Output] = d

		for len(levels) <= d {
			levels = append(levels, Level{})
		}
		if g.Op.Nonlinear() {
			levels[d].Nonlinear = append(levels[d].Nonlinear, idx)
		} else {
			levels[d].Linear = append(levels[d].Linear, idx)
		}
	}
	return levels
}

// Depth returns the nonlinear depth of the circuit.
func (c *Circuit) Depth() int {
	levels := c.Schedule()
	if len(levels) == 0 {
		return 0
	}
	return len(levels) - 1
}
