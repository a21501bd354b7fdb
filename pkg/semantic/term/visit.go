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
package term

import (
	"fmt"
	"slices"

	"github.com/consensys/go-cpl/pkg/semantic/types"
)

// Children returns the immediate subterms of a given term, in left-to-right
// order.  For events, the scope is visited before or after the roles depending
// on where it appeared in the surface string.
func Children(t Term) []Term {
	switch e := t.(type) {
	case *Variable, *Constant, *Degree, *Hole:
		return nil
	case *Application:
		return []Term{e.Func, e.Arg}
	case *Abstraction:
		return []Term{e.Body}
	case *Conjunction:
		return e.Conjuncts
	case *Disjunction:
		return e.Disjuncts
	case *Negation:
		return []Term{e.Body}
	case *Quantifier:
		if e.Body == nil {
			return []Term{e.Restriction}
		}
		//
		return []Term{e.Restriction, e.Body}
	case *Event:
		children := make([]Term, 0, len(e.Roles)+1)
		//
		if e.Scope != nil && e.ScopeFirst {
			children = append(children, e.Scope)
		}
		//
		for _, r := range e.Roles {
			children = append(children, r.Filler)
		}
		//
		if e.Scope != nil && !e.ScopeFirst {
			children = append(children, e.Scope)
		}
		//
		return children
	case *Scope:
		return []Term{e.Region}
	case *Constraint:
		return []Term{e.Target}
	case *List:
		return e.Items
	case *Let:
		return []Term{e.Value, e.Body}
	case *Modification:
		if e.Position == PRE {
			return []Term{e.Modifier, e.Head}
		}
		//
		return []Term{e.Head, e.Modifier}
	default:
		panic(fmt.Sprintf("unknown term %s", t.String()))
	}
}

// Walk visits a term and all its subterms in pre-order (left-to-right).  The
// visitor returns false to prevent visiting the subterms of the given term.
func Walk(t Term, visitor func(Term) bool) {
	if !visitor(t) {
		return
	}
	//
	for _, child := range Children(t) {
		Walk(child, visitor)
	}
}

// Holes returns all holes contained within a given term, in left-to-right
// order.
func Holes(t Term) []*Hole {
	var holes []*Hole
	//
	Walk(t, func(sub Term) bool {
		if h, ok := sub.(*Hole); ok {
			holes = append(holes, h)
		}
		//
		return true
	})
	//
	return holes
}

// FreeVariables returns the names of all variables which occur free in a given
// term, in order of first occurrence.
func FreeVariables(t Term) []string {
	var names []string
	//
	collectFree(t, nil, &names)
	//
	return names
}

// Occurs checks whether a given variable occurs free in a given term.
func Occurs(name string, t Term) bool {
	return slices.Contains(FreeVariables(t), name)
}

func collectFree(t Term, bound []string, names *[]string) {
	switch e := t.(type) {
	case *Variable:
		if !slices.Contains(bound, e.Name) && !slices.Contains(*names, e.Name) {
			*names = append(*names, e.Name)
		}
	case *Abstraction:
		collectFree(e.Body, append(slices.Clone(bound), e.Param), names)
	case *Quantifier:
		inner := append(slices.Clone(bound), e.Variable)
		//
		for _, child := range Children(e) {
			collectFree(child, inner, names)
		}
	case *Let:
		collectFree(e.Value, bound, names)
		collectFree(e.Body, append(slices.Clone(bound), e.Name), names)
	default:
		for _, child := range Children(t) {
			collectFree(child, bound, names)
		}
	}
}

// IsModifier determines whether a term acts as a modifier, i.e. whether it
// maps some type onto itself (e.g. an adjective of type <e,e>), or is a degree,
// scope or constraint which qualifies whatever it attaches to.
func IsModifier(t Term) bool {
	switch t.(type) {
	case *Degree, *Scope, *Constraint:
		return true
	}
	//
	if fn, ok := t.Type().(*types.FunctionType); ok {
		return types.Equal(fn.Param, fn.Result)
	}
	//
	return false
}
