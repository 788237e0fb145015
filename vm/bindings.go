//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package vm

import (
	"github.com/cockroachdb/errors"
)

// InputPartyBinding binds a program input party to the user
// providing its inputs.
type InputPartyBinding struct {
	Party string `json:"party"`
	User  UserID `json:"user"`
}

// OutputPartyBinding binds a program output party to the users
// receiving its outputs.
type OutputPartyBinding struct {
	Party string   `json:"party"`
	Users []UserID `json:"users"`
}

// InputBindings maps party names to their bound users. Each party may
// be bound only once.
func InputBindings(bindings []InputPartyBinding) (map[string]UserID, error) {
	result := make(map[string]UserID)
	for _, b := range bindings {
		if len(b.Party) == 0 || len(b.User) == 0 {
			return nil, errors.Newf("incomplete input binding %v", b)
		}
		if _, ok := result[b.Party]; ok {
			return nil, errors.Newf("party %s bound multiple times", b.Party)
		}
		result[b.Party] = b.User
	}
	return result, nil
}

// OutputBindings maps party names to their bound users.
func OutputBindings(bindings []OutputPartyBinding) (
	map[string][]UserID, error) {

	result := make(map[string][]UserID)
	for _, b := range bindings {
		if len(b.Party) == 0 || len(b.Users) == 0 {
			return nil, errors.Newf("incomplete output binding %v", b)
		}
		if _, ok := result[b.Party]; ok {
			return nil, errors.Newf("party %s bound multiple times", b.Party)
		}
		result[b.Party] = b.Users
	}
	return result, nil
}
