// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package compose

import (
	"fmt"
	"strings"
)

// Strategy identifies one of the fixed ways in which the terms of a rule's
// children can be combined into a term for the rule itself.
type Strategy uint8

// FORWARD_APPLICATION applies the left child (a function) to the right child.
const FORWARD_APPLICATION Strategy = 0

// BACKWARD_APPLICATION applies the right child (a function) to the left child.
const BACKWARD_APPLICATION Strategy = 1

// PREDICATE_MODIFICATION intersects two terms of the same type (e.g. "distorted
// guitar").
const PREDICATE_MODIFICATION Strategy = 2

// COORDINATION joins terms using a junction ("and", "or", "but").
const COORDINATION Strategy = 3

// MODIFIER_ATTACHMENT attaches a modifier to a head, recording whether it came
// before or after.
const MODIFIER_ATTACHMENT Strategy = 4

// SCOPE_RESTRICTION attaches a scope to a goal.
const SCOPE_RESTRICTION Strategy = 5

// IDENTITY passes a single child through unchanged.
const IDENTITY Strategy = 6

// LEXICAL_INSERTION passes a lexical term through unchanged.
const LEXICAL_INSERTION Strategy = 7

var strategyNames = []string{
	"forward-application",
	"backward-application",
	"predicate-modification",
	"coordination",
	"modifier-attachment",
	"scope-restriction",
	"identity",
	"lexical-insertion",
}

func (p Strategy) String() string {
	if int(p) < len(strategyNames) {
		return strategyNames[p]
	}
	//
	return fmt.Sprintf("strategy#%d", p)
}

// ParseStrategy converts a strategy name (e.g. "forward-application") into a
// strategy.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	//
	for i, n := range strategyNames {
		if n == name {
			return Strategy(i), nil
		}
	}
	//
	return 0, fmt.Errorf("unknown composition strategy \"%s\"", name)
}

// StrategyTable associates grammar rules with composition strategies.  This is
// supplied by the grammar.
type StrategyTable interface {
	// Strategy returns the strategy for a given rule, or false if there is none.
	Strategy(rule string) (Strategy, bool)
}

// StrategyMap is a simple StrategyTable backed by a map.
type StrategyMap map[string]Strategy

// Strategy returns the strategy registered for a given rule.
func (p StrategyMap) Strategy(rule string) (Strategy, bool) {
	s, ok := p[rule]
	return s, ok
}
