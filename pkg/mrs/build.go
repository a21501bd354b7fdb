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
	"fmt"

	"github.com/consensys/go-cpl/pkg/semantic/term"
)

// Build an MRS from a composed term.  Quantifiers and negations become scopal
// predications, whilst events, degrees, scopes and the like become ordinary
// predications.  Predications are numbered in the order they occur in the
// surface string (where an event's scope was stated first, it is numbered
// first).  A quantifier outscopes any other quantifier whose restriction
// mentions its variable, and a negation is qeq to the non-quantifier
// predications within its body (so quantifiers may float above it).  Handles
// and event variables are drawn from the given arena.
func Build(arena *term.Arena, t term.Term) *MRS {
	b := builder{arena: arena, mrs: &MRS{}, restrictions: make(map[Handle]term.Term)}
	//
	if t != nil {
		if root := b.build("", t); root.Kind == HANDLE {
			b.mrs.Top = root.Handle
		}
	}
	// Binders outscope quantifiers whose restriction mentions their variable.
	for i := range b.mrs.EPs {
		binder := &b.mrs.EPs[i]
		//
		if !binder.Quantifier {
			continue
		}
		//
		for j := range b.mrs.EPs {
			other := &b.mrs.EPs[j]
			//
			restriction := b.restrictions[other.Handle]
			//
			if i != j && other.Quantifier && restriction != nil && term.Occurs(binder.Variable(), restriction) {
				b.constrain(binder.Handle, other.Handle, OUTSCOPES)
			}
		}
	}
	//
	return b.mrs
}

type builder struct {
	arena *term.Arena
	mrs   *MRS
	// restriction of each quantifier
	restrictions map[Handle]term.Term
	// next surface position
	position uint
}

// Build the predications for a term, returning an argument which refers to it.
func (p *builder) build(role string, t term.Term) Arg {
	switch e := t.(type) {
	case *term.Variable:
		return NewVariableArg(role, e.Name)
	case *term.Constant:
		return NewConstantArg(role, e.Value)
	case *term.Hole:
		return NewConstantArg(role, e.String())
	case *term.Quantifier:
		return p.buildQuantifier(role, e)
	case *term.Negation:
		return p.buildNegation(role, e)
	case *term.Event:
		return p.buildEvent(role, e)
	case *term.Application:
		if e.ArgFirst {
			return p.predication(role, "apply", "ARG2", e.Arg, "ARG1", e.Func)
		}
		//
		return p.predication(role, "apply", "ARG1", e.Func, "ARG2", e.Arg)
	case *term.Abstraction:
		h := p.open("lambda")
		p.add(h, NewVariableArg("ARG0", e.Param), p.build("ARG1", e.Body))
		//
		return NewHandleArg(role, h)
	case *term.Conjunction:
		junction := e.Junction
		//
		if junction == term.INTERSECTIVE {
			junction = "intersect"
		}
		//
		return p.junction(role, junction, e.Conjuncts)
	case *term.Disjunction:
		return p.junction(role, "or", e.Disjuncts)
	case *term.Degree:
		h := p.open("degree")
		p.add(h, NewConstantArg("AXIS", e.Axis), NewConstantArg("DIR", e.Direction))
		//
		if e.Amount != "" {
			p.add(h, NewConstantArg("AMOUNT", e.Amount))
		}
		//
		return NewHandleArg(role, h)
	case *term.Scope:
		return p.predication(role, e.Relation, "ARG1", e.Region)
	case *term.Constraint:
		return p.predication(role, e.Kind, "ARG1", e.Target)
	case *term.List:
		h := p.open("list")
		//
		for i, item := range e.Items {
			p.add(h, p.build(fmt.Sprintf("L%d", i), item))
		}
		//
		return NewHandleArg(role, h)
	case *term.Let:
		return p.predication(role, "let", e.Name, e.Value, "BODY", e.Body)
	case *term.Modification:
		if e.Position == term.PRE {
			return p.predication(role, "mod", "MOD", e.Modifier, "HEAD", e.Head)
		}
		//
		return p.predication(role, "mod", "HEAD", e.Head, "MOD", e.Modifier)
	default:
		panic(fmt.Sprintf("unknown term %s", t.String()))
	}
}

func (p *builder) buildQuantifier(role string, e *term.Quantifier) Arg {
	h := p.open(e.Determiner)
	ep := p.lookup(h)
	ep.Quantifier = true
	ep.Determiner = e.Determiner
	p.restrictions[h] = e.Restriction
	//
	p.add(h, NewVariableArg("ARG0", e.Variable))
	//
	if e.Restriction != nil {
		p.add(h, p.build("RSTR", e.Restriction))
	}
	//
	if e.Body != nil {
		p.add(h, p.build("BODY", e.Body))
	}
	//
	return NewVariableArg(role, e.Variable)
}

func (p *builder) buildNegation(role string, e *term.Negation) Arg {
	h := p.open("neg")
	p.lookup(h).Negation = true
	// Record predications created for the body
	first := len(p.mrs.EPs)
	//
	p.add(h, p.build("ARG1", e.Body))
	//
	for i := first; i < len(p.mrs.EPs); i++ {
		if !p.mrs.EPs[i].Quantifier {
			p.constrain(h, p.mrs.EPs[i].Handle, QEQ)
		}
	}
	//
	return NewHandleArg(role, h)
}

func (p *builder) buildEvent(role string, e *term.Event) Arg {
	h := p.open(e.Predicate)
	p.add(h, NewVariableArg("ARG0", p.arena.FreshVariable("e")))
	//
	if e.Scope != nil && e.ScopeFirst {
		p.add(h, p.build("SCOPE", e.Scope))
	}
	//
	for _, r := range e.Roles {
		p.add(h, p.build(r.Name, r.Filler))
	}
	//
	if e.Scope != nil && !e.ScopeFirst {
		p.add(h, p.build("SCOPE", e.Scope))
	}
	//
	return NewHandleArg(role, h)
}

// Build a predication for a conjunction or disjunction.  Intersected conjuncts
// share the label of their conjunction.
func (p *builder) junction(role string, predicate string, items []term.Term) Arg {
	h := p.open(predicate)
	//
	for i, item := range items {
		arg := p.build(fmt.Sprintf("L%d", i), item)
		p.add(h, arg)
		//
		if predicate == "intersect" && arg.Kind == HANDLE {
			p.constrain(h, arg.Handle, EQUALS)
		}
	}
	//
	return NewHandleArg(role, h)
}

// Build a predication with a given set of (role, term) arguments.
func (p *builder) predication(role string, predicate string, args ...any) Arg {
	h := p.open(predicate)
	//
	for i := 0; i+1 < len(args); i += 2 {
		p.add(h, p.build(args[i].(string), args[i+1].(term.Term)))
	}
	//
	return NewHandleArg(role, h)
}

// Open a new predication at the next surface position.
func (p *builder) open(predicate string) Handle {
	h := Handle(p.arena.FreshHandle())
	p.mrs.EPs = append(p.mrs.EPs, EP{Handle: h, Predicate: predicate, Position: p.position})
	p.position++
	//
	return h
}

func (p *builder) add(handle Handle, args ...Arg) {
	ep := p.lookup(handle)
	ep.Args = append(ep.Args, args...)
}

func (p *builder) lookup(handle Handle) *EP {
	ep, ok := p.mrs.Lookup(handle)
	//
	if !ok {
		panic(fmt.Sprintf("unknown handle %s", handle))
	}
	//
	return ep
}

func (p *builder) constrain(high Handle, low Handle, relation Relation) {
	p.mrs.Constraints = append(p.mrs.Constraints, HandleConstraint{high, low, relation})
}
