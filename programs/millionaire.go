//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package programs

import (
	"github.com/markkurossi/mpcnet/program"
)

func init() {
	Register("millionaire_problem", program.DefinerFunc(Millionaire))
	Register("richest_of_three", program.DefinerFunc(RichestOfThree))
}

// Millionaire defines the millionaire's problem: Alice and Bob learn
// if Alice is richer than Bob without revealing their wealth.
func Millionaire(p *program.Program) error {
	alice := p.Party("Alice")
	bob := p.Party("Bob")

	aliceWealth := p.SecretInteger("alice_wealth", alice)
	bobWealth := p.SecretInteger("bob_wealth", bob)

	result := aliceWealth.Gt(bobWealth)

	p.Output(result, "comparison_result", alice)
	p.Output(result, "comparison_result", bob)

	return p.Err()
}

// RichestOfThree defines a three party variant of the millionaire's
// problem. All parties learn which of them are the richest.
func RichestOfThree(p *program.Program) error {
	names := []string{"Alice", "Bob", "Carol"}

	var parties []*program.Party
	var wealth []*program.Value
	for _, name := range names {
		party := p.Party(name)
		parties = append(parties, party)
		wealth = append(wealth, p.SecretInteger(name+"_wealth", party))
	}
	for i, name := range names {
		var richest *program.Value
		for j := range names {
			if i == j {
				continue
			}
			ge := wealth[i].Ge(wealth[j])
			if richest == nil {
				richest = ge
			} else {
				richest = richest.And(ge)
			}
		}
		for _, party := range parties {
			p.Output(richest, name+"_richest", party)
		}
	}
	return p.Err()
}
