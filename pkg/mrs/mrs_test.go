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
package mrs

import (
	"strings"
	"testing"

	"github.com/consensys/go-cpl/pkg/semantic/term"
	"github.com/consensys/go-cpl/pkg/semantic/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// At most one scopal predication
func Test_Resolve_01(t *testing.T) {
	goal := term.NewEvent("make", types.CHANGE, true,
		term.Role{Name: term.PATIENT, Filler: quantifier("all", "x", "tracks")},
		term.Role{Name: "axis", Filler: term.NewConstant("warmer", types.Axis)})
	m := Build(term.NewArena(), goal)
	//
	require.Len(t, m.Scopal(), 1)
	resolution := Resolve(m, DefaultConfig())
	require.Len(t, resolution.Readings, 1)
	assert.Equal(t, 1.0, resolution.Readings[0].Score)
	assert.True(t, resolution.Readings[0].Preferred)
	assert.False(t, resolution.NeedsClarification)
	// Nothing at all
	resolution = Resolve(Build(term.NewArena(), nil), DefaultConfig())
	assert.Len(t, resolution.Readings, 1)
}

// In every verse, make all tracks warmer
func Test_Resolve_02(t *testing.T) {
	m := Build(term.NewArena(), scenarioB())
	scopal := m.Scopal()
	require.Len(t, scopal, 2)
	assert.Equal(t, "every", scopal[0].Determiner)
	assert.Equal(t, "all", scopal[1].Determiner)
	//
	resolution := Resolve(m, DefaultConfig())
	require.Len(t, resolution.Readings, 2)
	assert.Equal(t, []Handle{scopal[0].Handle, scopal[1].Handle}, resolution.Readings[0].Order)
	assert.Equal(t, []Handle{scopal[1].Handle, scopal[0].Handle}, resolution.Readings[1].Order)
	assert.True(t, strings.HasPrefix(resolution.Readings[0].Form, "every(ARG0=y, RSTR=verse, all("))
	// Preferred iff the gap is large enough
	gap := resolution.Readings[0].Score - resolution.Readings[1].Score
	_, preferred := resolution.PreferredReading()
	assert.Equal(t, gap >= DefaultPreferenceGap, preferred)
	assert.Equal(t, !preferred, resolution.NeedsClarification)
}

// Preference gap not met
func Test_Resolve_03(t *testing.T) {
	config := DefaultConfig()
	config.PreferenceGap = 0.5
	resolution := Resolve(Build(term.NewArena(), scenarioB()), config)
	//
	require.Len(t, resolution.Readings, 2)
	_, preferred := resolution.PreferredReading()
	assert.False(t, preferred)
	assert.True(t, resolution.NeedsClarification)
	for _, r := range resolution.Readings {
		assert.False(t, r.Preferred)
	}
}

// Permutation bound
func Test_Resolve_04(t *testing.T) {
	m := quantifiers("every", "all", "each", "some", "a", "every")
	resolution := Resolve(m, DefaultConfig())
	//
	require.Len(t, resolution.Readings, 1)
	assert.Equal(t, []Handle{1, 2, 3, 4, 5, 6}, resolution.Readings[0].Order)
	assert.True(t, resolution.Readings[0].Preferred)
	assert.True(t, resolution.Truncated)
	assert.Len(t, resolution.Warnings, 1)
	// Within the bound, everything is enumerated
	resolution = Resolve(quantifiers("every", "all", "each", "some", "a"), DefaultConfig())
	assert.Len(t, resolution.Readings, 120)
	assert.False(t, resolution.Truncated)
}

// Outscopes constraint
func Test_Resolve_05(t *testing.T) {
	m := quantifiers("every", "all")
	m.Constraints = append(m.Constraints, HandleConstraint{2, 1, OUTSCOPES})
	resolution := Resolve(m, DefaultConfig())
	//
	require.Len(t, resolution.Readings, 1)
	assert.Equal(t, []Handle{2, 1}, resolution.Readings[0].Order)
	assert.True(t, resolution.Readings[0].Preferred)
}

// Unsatisfiable constraints
func Test_Resolve_06(t *testing.T) {
	m := quantifiers("every", "all")
	m.Constraints = append(m.Constraints, HandleConstraint{2, 1, OUTSCOPES}, HandleConstraint{1, 2, QEQ})
	resolution := Resolve(m, DefaultConfig())
	//
	assert.Empty(t, resolution.Readings)
	assert.True(t, resolution.NeedsClarification)
	assert.Len(t, resolution.Warnings, 1)
	// Equals between distinct scopal predications
	m = quantifiers("every", "all")
	m.Constraints = append(m.Constraints, HandleConstraint{1, 2, EQUALS})
	assert.Empty(t, Resolve(m, DefaultConfig()).Readings)
}

// Surface order scores at least as well as any scrambled order
func Test_Resolve_07(t *testing.T) {
	resolution := Resolve(quantifiers("every", "all", "each"), DefaultConfig())
	//
	require.Len(t, resolution.Readings, 6)
	assert.Equal(t, []Handle{1, 2, 3}, resolution.Readings[0].Order)
	//
	for _, r := range resolution.Readings[1:] {
		assert.LessOrEqual(t, r.Score, resolution.Readings[0].Score)
		assert.GreaterOrEqual(t, r.Score, BaseScore)
		assert.LessOrEqual(t, r.Score, 1.0)
	}
}

// Definites prefer wide scope
func Test_Resolve_08(t *testing.T) {
	m := quantifiers("every", "the")
	with := Resolve(m, DefaultConfig())
	config := DefaultConfig()
	config.DefinitenessWeight = 0
	without := Resolve(m, config)
	//
	require.Len(t, with.Readings, 2)
	require.Len(t, without.Readings, 2)
	assert.Greater(t, findReading(t, with, 2, 1).Score, findReading(t, without, 2, 1).Score)
	assert.Equal(t, findReading(t, with, 1, 2).Score, findReading(t, without, 1, 2).Score)
}

// Negations prefer wide scope
func Test_Resolve_09(t *testing.T) {
	goal := term.NewEvent("make", types.CHANGE, true,
		term.Role{Name: term.PATIENT, Filler: quantifier("all", "x", "tracks")})
	m := Build(term.NewArena(), term.NewNegation(goal))
	//
	neg, ok := m.Lookup(m.Top)
	require.True(t, ok)
	assert.True(t, neg.Negation)
	// Negation is qeq its event, but not the quantifier
	assert.Equal(t, []HandleConstraint{{neg.Handle, 2, QEQ}}, m.Constraints)
	//
	resolution := Resolve(m, DefaultConfig())
	require.Len(t, resolution.Readings, 2)
	assert.Equal(t, neg.Handle, resolution.Readings[0].Order[0])
	assert.True(t, strings.HasPrefix(resolution.Readings[0].Form, "¬(all("))
}

// Binders outscope quantifiers whose restriction mentions them
func Test_Resolve_10(t *testing.T) {
	x := term.NewVariable("x", types.Entity)
	every := quantifier("every", "x", "verse")
	some := term.NewQuantifier("some", "y", types.Entity, term.NewScope("in", x), nil)
	m := Build(term.NewArena(), term.NewList(some, every))
	//
	// list=h1, some=h2, in=h3, every=h4
	assert.Equal(t, []HandleConstraint{{4, 2, OUTSCOPES}}, m.Constraints)
	resolution := Resolve(m, DefaultConfig())
	require.Len(t, resolution.Readings, 1)
	assert.Equal(t, []Handle{4, 2}, resolution.Readings[0].Order)
}

// Backward applications number their argument first
func Test_Resolve_11(t *testing.T) {
	fn := term.NewAbstraction("x", types.Entity, quantifier("every", "y", "verse"))
	//
	forward, err := term.NewApplication(fn, quantifier("the", "z", "bass"))
	require.NoError(t, err)
	backward, err := term.NewBackwardApplication(fn, quantifier("the", "z", "bass"))
	require.NoError(t, err)
	//
	m := Build(term.NewArena(), forward)
	assert.Less(t, surfacePosition(t, m, "every"), surfacePosition(t, m, "the"))
	//
	m = Build(term.NewArena(), backward)
	assert.Less(t, surfacePosition(t, m, "the"), surfacePosition(t, m, "every"))
	// Surface order is preferred
	resolution := Resolve(m, DefaultConfig())
	require.Len(t, resolution.Readings, 2)
	assert.True(t, strings.HasPrefix(resolution.Readings[0].Form, "the("))
}

// ============================================================================
// Framework
// ============================================================================

func quantifier(determiner string, variable string, restriction string) term.Term {
	return term.NewQuantifier(determiner, variable, types.Entity, term.NewConstant(restriction, types.Entity), nil)
}

// In every verse, make all tracks warmer
func scenarioB() term.Term {
	goal := term.NewEvent("make", types.CHANGE, true,
		term.Role{Name: term.PATIENT, Filler: quantifier("all", "x", "tracks")},
		term.Role{Name: "axis", Filler: term.NewConstant("warmer", types.Axis)})
	//
	return goal.WithScope(term.NewScope("in", quantifier("every", "y", "verse")), true)
}

// Construct an MRS with one quantifier for each determiner, with handles and
// positions numbered in order from 1.
func quantifiers(determiners ...string) *MRS {
	var m MRS
	//
	for i, d := range determiners {
		h := Handle(i + 1)
		m.EPs = append(m.EPs, EP{Handle: h, Predicate: d, Quantifier: true, Determiner: d, Position: uint(i),
			Args: []Arg{NewVariableArg("ARG0", string(rune('a'+i)))}})
	}
	//
	return &m
}

func findReading(t *testing.T, resolution Resolution, order ...Handle) Reading {
	t.Helper()
	//
	for _, r := range resolution.Readings {
		if slicesEqual(r.Order, order) {
			return r
		}
	}
	//
	t.Fatalf("no reading with order %v", order)
	//
	return Reading{}
}

func slicesEqual(lhs []Handle, rhs []Handle) bool {
	if len(lhs) != len(rhs) {
		return false
	}
	//
	for i := range lhs {
		if lhs[i] != rhs[i] {
			return false
		}
	}
	//
	return true
}

func surfacePosition(t *testing.T, m *MRS, predicate string) uint {
	t.Helper()
	//
	for _, ep := range m.EPs {
		if ep.Predicate == predicate {
			return ep.Position
		}
	}
	//
	t.Fatalf("no predication %s", predicate)
	//
	return 0
}
