//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package programs implements a registry of MPC programs.
package programs

import (
	"fmt"
	"sort"
	"sync"

	"github.com/markkurossi/mpcnet/program"
)

var (
	m        sync.Mutex
	registry = make(map[string]program.Definer)
)

// Register registers the program definer with the name. The function
// panics if the name is already registered.
func Register(name string, definer program.Definer) {
	m.Lock()
	defer m.Unlock()

	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("program %s already registered", name))
	}
	registry[name] = definer
}

// Lookup finds the named program and builds it.
func Lookup(name string) (*program.Program, error) {
	m.Lock()
	definer, ok := registry[name]
	m.Unlock()

	if !ok {
		return nil, fmt.Errorf("unknown program: %s", name)
	}
	return program.Build(name, definer)
}

// Names returns the names of the registered programs in sorted order.
func Names() []string {
	m.Lock()
	defer m.Unlock()

	var result []string
	for name := range registry {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}
