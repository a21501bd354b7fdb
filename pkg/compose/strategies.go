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
	"errors"
	"fmt"
	"strings"

	"github.com/consensys/go-cpl/pkg/semantic/term"
	"github.com/consensys/go-cpl/pkg/semantic/types"
)

// Hook is a composition function for a rule, which combines the terms of a
// rule's children into a single term for the rule.  Every strategy is
// implemented as a hook, and further hooks can be registered on an engine to
// override particular rules.
type Hook func(arena *term.Arena, children []term.Term) (term.Term, error)

// Hook returns the composition function implementing this strategy, where beta
// reduction is bounded by DefaultMaxDepth steps.
func (p Strategy) Hook() Hook {
	return p.BoundedHook(DefaultMaxDepth)
}

// BoundedHook returns the composition function implementing this strategy,
// where any beta reduction performed is bounded by a given number of steps.
func (p Strategy) BoundedHook(steps uint) Hook {
	r := reducer{steps}
	//
	switch p {
	case FORWARD_APPLICATION:
		return r.forwardApplication
	case BACKWARD_APPLICATION:
		return r.backwardApplication
	case PREDICATE_MODIFICATION:
		return predicateModification
	case COORDINATION:
		return coordination
	case MODIFIER_ATTACHMENT:
		return modifierAttachment
	case SCOPE_RESTRICTION:
		return r.scopeRestriction
	case IDENTITY, LEXICAL_INSERTION:
		return passThrough
	default:
		panic(fmt.Sprintf("unknown strategy (%d)", p))
	}
}

// Junctions recognised by coordination, when they appear as constants amongst
// the children of a coordinated phrase.
var junctions = []string{"and", "or", "but"}

// Reducer applies functions to arguments, normalising the result within a
// bounded number of beta reduction steps.
type reducer struct {
	steps uint
}

func (p reducer) forwardApplication(arena *term.Arena, children []term.Term) (term.Term, error) {
	if len(children) != 2 {
		return nil, arityError(FORWARD_APPLICATION, 2, children)
	}
	//
	return p.apply(arena, children[0], children[1], false)
}

func (p reducer) backwardApplication(arena *term.Arena, children []term.Term) (term.Term, error) {
	if len(children) != 2 {
		return nil, arityError(BACKWARD_APPLICATION, 2, children)
	}
	//
	return p.apply(arena, children[1], children[0], true)
}

func predicateModification(arena *term.Arena, children []term.Term) (term.Term, error) {
	if len(children) != 2 {
		return nil, arityError(PREDICATE_MODIFICATION, 2, children)
	} else if !types.Unify(children[0].Type(), children[1].Type()).Ok {
		return nil, fmt.Errorf("cannot intersect %s with %s", children[0].Type(), children[1].Type())
	}
	//
	return term.NewConjunction(term.INTERSECTIVE, children...)
}

func coordination(arena *term.Arena, children []term.Term) (term.Term, error) {
	var (
		junction  = "and"
		conjuncts []term.Term
	)
	//
	for _, child := range children {
		if j, ok := junctionOf(child); ok {
			junction = j
		} else {
			conjuncts = append(conjuncts, child)
		}
	}
	//
	if len(conjuncts) < 2 {
		return nil, errors.New("coordination requires at least two conjuncts")
	} else if junction == "or" {
		return term.NewDisjunction(conjuncts...)
	}
	//
	return term.NewConjunction(junction, conjuncts...)
}

func modifierAttachment(arena *term.Arena, children []term.Term) (term.Term, error) {
	if len(children) != 2 {
		return nil, arityError(MODIFIER_ATTACHMENT, 2, children)
	} else if term.IsModifier(children[0]) {
		return term.NewModification(children[1], children[0], term.PRE), nil
	} else if term.IsModifier(children[1]) {
		return term.NewModification(children[0], children[1], term.POST), nil
	}
	//
	return nil, fmt.Errorf("neither %s nor %s is a modifier", children[0], children[1])
}

func (p reducer) scopeRestriction(arena *term.Arena, children []term.Term) (term.Term, error) {
	if len(children) != 2 {
		return nil, arityError(SCOPE_RESTRICTION, 2, children)
	} else if goal, ok := children[0].(*term.Event); ok && goal.Goal {
		return goal.WithScope(children[1], false), nil
	} else if goal, ok := children[1].(*term.Event); ok && goal.Goal {
		return goal.WithScope(children[0], true), nil
	}
	// Fall back to generic application, in either direction.
	if t, err := p.apply(arena, children[0], children[1], false); err == nil {
		return t, nil
	}
	//
	return p.apply(arena, children[1], children[0], true)
}

func passThrough(arena *term.Arena, children []term.Term) (term.Term, error) {
	if len(children) != 1 {
		return nil, fmt.Errorf("expected exactly one child (found %d)", len(children))
	}
	//
	return children[0], nil
}

// Apply a function to an argument, beta reducing the result where possible.
// Should the reduction fail (e.g. because the substituted body no longer type
// checks, or the step bound is exhausted), the unreduced application is
// returned.  The argument may precede the function in the surface string.
func (p reducer) apply(arena *term.Arena, fn term.Term, arg term.Term, argFirst bool) (term.Term, error) {
	var (
		app *term.Application
		err error
	)
	//
	if argFirst {
		app, err = term.NewBackwardApplication(fn, arg)
	} else {
		app, err = term.NewApplication(fn, arg)
	}
	//
	if err != nil {
		return nil, err
	} else if reduced, err := Normalise(arena, app, p.steps); err == nil {
		return reduced, nil
	}
	//
	return app, nil
}

func junctionOf(t term.Term) (string, bool) {
	if c, ok := t.(*term.Constant); ok {
		value := strings.ToLower(c.Value)
		//
		for _, j := range junctions {
			if j == value {
				return j, true
			}
		}
	}
	//
	return "", false
}

func arityError(strategy Strategy, expected int, children []term.Term) error {
	return fmt.Errorf("%s expects %d children (found %d)", strategy.String(), expected, len(children))
}
