//
// Copyright (c) 2020-2026 Markku Rossi
//
// All rights reserved.
//

package utils

import (
	"io"
)

// Params specify compiler parameters.
type Params struct {
	Verbose     bool
	Diagnostics bool

	CircOut    io.WriteCloser
	CircDotOut io.WriteCloser

	OptPruneGates bool
}

// NewParams returns new compiler params object, initialized with the
// default values.
func NewParams() *Params {
	return &Params{
		OptPruneGates: true,
	}
}

// Close closes all open resources.
func (p *Params) Close() {
	if p.CircOut != nil {
		p.CircOut.Close()
		p.CircOut = nil
	}
	if p.CircDotOut != nil {
		p.CircDotOut.Close()
		p.CircDotOut = nil
	}
}
