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
package grammar

import (
	"errors"

	"github.com/consensys/go-cpl/pkg/semantic/term"
	"github.com/consensys/go-cpl/pkg/semantic/types"
)

// Parse the types mentioned by a lexeme's term, and check at most one kind of
// term is given.
func (p *lexeme) compileTerm() error {
	if p.term == nil {
		return nil
	}
	//
	kinds := 0
	//
	for _, given := range []bool{p.term.Event != nil, p.term.Determiner != "", p.term.Degree != nil,
		p.term.Relation != "", p.term.Constraint != "", p.term.Negation} {
		if given {
			kinds++
		}
	}
	//
	if kinds > 1 {
		return errors.New("term has more than one kind")
	}
	//
	if p.term.Event != nil {
		for _, param := range p.term.Event.Params {
			datatype, err := types.Parse(param.Type)
			if err != nil {
				return err
			}
			//
			p.params = append(p.params, datatype)
		}
	} else if p.term.Type != "" {
		datatype, err := types.Parse(p.term.Type)
		if err != nil {
			return err
		}
		//
		p.params = []types.Type{datatype}
	}
	//
	return nil
}

// Build the term of a lexeme, drawing fresh variable names from the arena.
func (p *lexeme) build(arena *term.Arena, word string) term.Term {
	spec := p.term
	//
	switch {
	case spec == nil:
		return term.NewConstant(word, p.candidates[0].Type)
	case spec.Event != nil:
		return p.buildEvent(arena)
	case spec.Determiner != "":
		// λr.det(x, r)
		r, x := arena.FreshVariable("r"), arena.FreshVariable("x")
		param := p.param(types.Entity)
		quantifier := term.NewQuantifier(spec.Determiner, x, param, term.NewVariable(r, param), nil)
		//
		return term.NewAbstraction(r, param, quantifier)
	case spec.Degree != nil:
		direction := spec.Degree.Direction
		//
		if direction == "" {
			direction = "+"
		}
		//
		return term.NewDegree(spec.Degree.Axis, direction, spec.Degree.Amount)
	case spec.Relation != "":
		// λr.rel(r)
		r, param := arena.FreshVariable("r"), p.param(types.Entity)
		return term.NewAbstraction(r, param, term.NewScope(spec.Relation, term.NewVariable(r, param)))
	case spec.Constraint != "":
		// λt.kind(t)
		t, param := arena.FreshVariable("t"), p.param(types.Entity)
		return term.NewAbstraction(t, param, term.NewConstraint(spec.Constraint, term.NewVariable(t, param)))
	case spec.Negation:
		// λg.¬g
		g := arena.FreshVariable("g")
		return term.NewAbstraction(g, types.Action, term.NewNegation(term.NewVariable(g, types.Action)))
	}
	// Constant
	value, datatype := spec.Constant, p.param(p.candidates[0].Type)
	//
	if value == "" {
		value = word
	}
	//
	return term.NewConstant(value, datatype)
}

// Build an event abstracted over its roles, e.g. λx.λa.make[patient=x, axis=a].
func (p *lexeme) buildEvent(arena *term.Arena) term.Term {
	var (
		spec  = p.term.Event
		roles = make([]term.Role, len(spec.Params))
		names = make([]string, len(spec.Params))
	)
	//
	for i, param := range spec.Params {
		names[i] = arena.FreshVariable(initial(param.Role))
		roles[i] = term.Role{Name: param.Role, Filler: term.NewVariable(names[i], p.params[i])}
	}
	//
	var body term.Term = term.NewEvent(spec.Predicate, spec.Category, spec.Goal, roles...)
	//
	for i := len(names) - 1; i >= 0; i-- {
		body = term.NewAbstraction(names[i], p.params[i], body)
	}
	//
	return body
}

func (p *lexeme) param(otherwise types.Type) types.Type {
	if len(p.params) > 0 {
		return p.params[0]
	}
	//
	return otherwise
}

func initial(role string) string {
	if role == "" {
		return "v"
	}
	//
	return role[:1]
}
