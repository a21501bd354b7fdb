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

// Substitute replaces all free occurrences of a given variable within a term
// with a given value.  Substitution is capture-avoiding: it never proceeds
// underneath a binder which rebinds the same name, and it renames (using fresh
// names from the arena) any binder which would otherwise capture a free
// variable of the value.  Since the value may have a more specific type than
// the variable it replaces, enclosing terms are reconstructed, and an error is
// returned should they no longer type check.
func Substitute(arena *Arena, t Term, name string, value Term) (Term, error) {
	if !Occurs(name, t) {
		// Nothing to do, so preserve identity.
		return t, nil
	}
	//
	s := substitution{arena, name, value, FreeVariables(value)}
	//
	return s.apply(t)
}

type substitution struct {
	arena *Arena
	name  string
	value Term
	// free variables of value
	free []string
}

func (p *substitution) apply(t Term) (Term, error) {
	if !Occurs(p.name, t) {
		return t, nil
	}
	//
	switch e := t.(type) {
	case *Variable:
		// Must be the variable in question, since it occurs.
		return p.value, nil
	case *Application:
		return p.applyApplication(e)
	case *Abstraction:
		return p.applyAbstraction(e)
	case *Conjunction:
		conjuncts, err := p.applyAll(e.Conjuncts)
		if err != nil {
			return nil, err
		}
		//
		return NewConjunction(e.Junction, conjuncts...)
	case *Disjunction:
		disjuncts, err := p.applyAll(e.Disjuncts)
		if err != nil {
			return nil, err
		}
		//
		return NewDisjunction(disjuncts...)
	case *Negation:
		body, err := p.apply(e.Body)
		if err != nil {
			return nil, err
		}
		//
		return NewNegation(body), nil
	case *Quantifier:
		return p.applyQuantifier(e)
	case *Event:
		return p.applyEvent(e)
	case *Scope:
		region, err := p.apply(e.Region)
		if err != nil {
			return nil, err
		}
		//
		return NewScope(e.Relation, region), nil
	case *Constraint:
		target, err := p.apply(e.Target)
		if err != nil {
			return nil, err
		}
		//
		return NewConstraint(e.Kind, target), nil
	case *List:
		items, err := p.applyAll(e.Items)
		if err != nil {
			return nil, err
		}
		//
		return NewList(items...), nil
	case *Let:
		return p.applyLet(e)
	case *Modification:
		head, err := p.apply(e.Head)
		if err != nil {
			return nil, err
		}
		//
		modifier, err := p.apply(e.Modifier)
		if err != nil {
			return nil, err
		}
		//
		return NewModification(head, modifier, e.Position), nil
	case *Constant, *Degree, *Hole:
		// Unreachable, since nothing occurs in them.
		return t, nil
	default:
		panic(fmt.Sprintf("unknown term %s", t.String()))
	}
}

func (p *substitution) applyAll(terms []Term) ([]Term, error) {
	nterms := make([]Term, len(terms))
	//
	for i, t := range terms {
		ith, err := p.apply(t)
		if err != nil {
			return nil, err
		}
		//
		nterms[i] = ith
	}
	//
	return nterms, nil
}

func (p *substitution) applyApplication(e *Application) (Term, error) {
	fn, err := p.apply(e.Func)
	if err != nil {
		return nil, err
	}
	//
	arg, err := p.apply(e.Arg)
	if err != nil {
		return nil, err
	}
	//
	return newApplication(fn, arg, e.ArgFirst)
}

func (p *substitution) applyAbstraction(e *Abstraction) (Term, error) {
	// Check for shadowing
	if e.Param == p.name {
		return e, nil
	}
	//
	param, body, err := p.avoidCapture(e.Param, e.ParamType, e.Body)
	if err != nil {
		return nil, err
	}
	//
	if body, err = p.apply(body); err != nil {
		return nil, err
	}
	//
	return NewAbstraction(param, e.ParamType, body), nil
}

func (p *substitution) applyQuantifier(e *Quantifier) (Term, error) {
	// Check for shadowing
	if e.Variable == p.name {
		return e, nil
	}
	//
	var (
		variable    = e.Variable
		restriction = e.Restriction
		body        = e.Body
		err         error
	)
	// Rename bound variable in both restriction and body, if necessary.
	if slices.Contains(p.free, variable) {
		variable = p.freshBinder(e.Variable, restriction, body)
		renamed := NewVariable(variable, e.VarType)
		//
		if restriction, err = Substitute(p.arena, restriction, e.Variable, renamed); err != nil {
			return nil, err
		} else if body != nil {
			if body, err = Substitute(p.arena, body, e.Variable, renamed); err != nil {
				return nil, err
			}
		}
	}
	//
	if restriction, err = p.apply(restriction); err != nil {
		return nil, err
	}
	//
	if body != nil {
		if body, err = p.apply(body); err != nil {
			return nil, err
		}
	}
	//
	return NewQuantifier(e.Determiner, variable, e.VarType, restriction, body), nil
}

func (p *substitution) applyEvent(e *Event) (Term, error) {
	roles := make([]Role, len(e.Roles))
	//
	for i, r := range e.Roles {
		filler, err := p.apply(r.Filler)
		if err != nil {
			return nil, err
		}
		//
		roles[i] = Role{r.Name, filler}
	}
	//
	event := &Event{e.Predicate, e.Category, e.Goal, roles, e.Scope, e.ScopeFirst}
	//
	if e.Scope != nil {
		scope, err := p.apply(e.Scope)
		if err != nil {
			return nil, err
		}
		//
		event.Scope = scope
	}
	//
	return event, nil
}

func (p *substitution) applyLet(e *Let) (Term, error) {
	value, err := p.apply(e.Value)
	if err != nil {
		return nil, err
	}
	// Check for shadowing
	if e.Name == p.name {
		return NewLet(e.Name, value, e.Body), nil
	}
	//
	name, body, err := p.avoidCapture(e.Name, e.Value.Type(), e.Body)
	if err != nil {
		return nil, err
	}
	//
	if body, err = p.apply(body); err != nil {
		return nil, err
	}
	//
	return NewLet(name, value, body), nil
}

// Rename a binder if it would capture a free variable of the value being
// substituted, returning the (possibly new) binder name and scope.
func (p *substitution) avoidCapture(binder string, datatype types.Type, scope Term) (string, Term, error) {
	if !slices.Contains(p.free, binder) || !Occurs(p.name, scope) {
		return binder, scope, nil
	}
	//
	fresh := p.freshBinder(binder, scope)
	//
	renamed, err := Substitute(p.arena, scope, binder, NewVariable(fresh, datatype))
	if err != nil {
		return "", nil, err
	}
	//
	return fresh, renamed, nil
}

// Draw a fresh name for a binder which is neither free in the value being
// substituted, nor free in any of the binder's scopes, nor the name being
// substituted.  Arena names are unique amongst themselves, but a term may
// already mention a name of the same shape (e.g. from another arena).
func (p *substitution) freshBinder(binder string, scopes ...Term) string {
	var taken []string
	//
	for _, scope := range scopes {
		if scope != nil {
			taken = append(taken, FreeVariables(scope)...)
		}
	}
	//
	for {
		fresh := p.arena.FreshVariable(binder + "_")
		//
		if fresh != p.name && !slices.Contains(p.free, fresh) && !slices.Contains(taken, fresh) {
			return fresh
		}
	}
}
