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
package types

import (
	"fmt"
)

// ExactFit is the fit of two types with the same variant and subtype.
const ExactFit = 1.0

// HoleFit is the fit of a hole against anything.
const HoleFit = 0.9

// WildcardFit is the fit of an entity (or event) without a subtype (category)
// against one with a subtype (category).
const WildcardFit = 0.8

// CompatibleFit is the fit of two distinct, but compatible, entity subtypes.
const CompatibleFit = 0.6

// NoFit is the fit of two incompatible types.
const NoFit = 0.0

// Unification captures the outcome of unifying two types.
type Unification struct {
	// Indicates whether unification succeeded.
	Ok bool
	// Fit indicates how good the match was, from 0 (none) to 1 (exact).
	Fit float64
	// Resolved type (when unification succeeded).  For holes this is the
	// filler; for wildcards it is the more specific of the two types; for
	// cross-subtype matches it is the left-hand side.
	Resolved Type
}

func failure() Unification {
	return Unification{false, NoFit, nil}
}

// Unify two types together.  Unification is reflexive (any non-hole type
// unifies with itself with an exact fit) and symmetric in outcome (success and
// fit) for non-hole types.  A hole unifies with anything, resolving to the
// other side.
func Unify(lhs Type, rhs Type) Unification {
	if lhs == nil || rhs == nil {
		return failure()
	} else if _, ok := lhs.(*HoleType); ok {
		return Unification{true, HoleFit, rhs}
	} else if _, ok := rhs.(*HoleType); ok {
		return Unification{true, HoleFit, lhs}
	} else if lhs.Kind() != rhs.Kind() {
		return failure()
	} else if Equal(lhs, rhs) {
		// Identical types (even those containing holes) are an exact fit.
		return Unification{true, ExactFit, lhs}
	}
	//
	switch l := lhs.(type) {
	case *EntityType:
		return unifyRefinement(l, l.Subtype, rhs, rhs.(*EntityType).Subtype, SubtypesCompatible)
	case *EventType:
		return unifyRefinement(l, l.Category, rhs, rhs.(*EventType).Category, sameCategory)
	case *FunctionType:
		r := rhs.(*FunctionType)
		return unifyPair(l.Param, r.Param, l.Result, r.Result, func(a, b Type) Type {
			return NewFunctionType(a, b)
		})
	case *ProductType:
		r := rhs.(*ProductType)
		return unifyPair(l.Left, r.Left, l.Right, r.Right, func(a, b Type) Type {
			return NewProductType(a, b)
		})
	case *ListType:
		u := Unify(l.Element, rhs.(*ListType).Element)
		if !u.Ok {
			return failure()
		}
		//
		return Unification{true, u.Fit, NewListType(u.Resolved)}
	case *TruthType, *AxisType, *DegreeType, *ScopeType, *ActionType, *ConstraintType:
		return Unification{true, ExactFit, lhs}
	default:
		panic(fmt.Sprintf("unknown type %s", lhs.String()))
	}
}

// Unify two refinable types (i.e. entities or events), where the refinement is
// optional.
func unifyRefinement(lhs Type, lsub string, rhs Type, rsub string, compatible func(string, string) bool) Unification {
	switch {
	case lsub == rsub:
		return Unification{true, ExactFit, lhs}
	case lsub == "":
		return Unification{true, WildcardFit, rhs}
	case rsub == "":
		return Unification{true, WildcardFit, lhs}
	case compatible(lsub, rsub):
		return Unification{true, CompatibleFit, lhs}
	default:
		return failure()
	}
}

// Unify two pairs of types component-wise, taking the worst fit of either
// component as the overall fit.
func unifyPair(l1, r1, l2, r2 Type, rebuild func(Type, Type) Type) Unification {
	first := Unify(l1, r1)
	second := Unify(l2, r2)
	//
	if !first.Ok || !second.Ok {
		return failure()
	}
	//
	return Unification{true, min(first.Fit, second.Fit), rebuild(first.Resolved, second.Resolved)}
}

func sameCategory(lhs string, rhs string) bool {
	return lhs == rhs
}

// TypeError reports an attempt to apply something which isn't a function, or a
// function to an argument of the wrong type.
type TypeError struct {
	// Type of the function position.
	Function Type
	// Type of the argument position.
	Argument Type
	// Message describing the problem.
	Message string
}

func (p *TypeError) Error() string {
	return fmt.Sprintf("%s (applying %s to %s)", p.Message, p.Function, p.Argument)
}

// ApplicationResult determines the type resulting from applying a function of
// a given type to an argument of a given type.  This succeeds only if the
// argument unifies with the function's parameter type; no implicit coercion is
// performed.
func ApplicationResult(fn Type, arg Type) (Type, error) {
	f, ok := fn.(*FunctionType)
	//
	if !ok {
		return nil, &TypeError{fn, arg, "expected function type"}
	} else if u := Unify(f.Param, arg); !u.Ok {
		msg := fmt.Sprintf("expected argument of type %s", f.Param.String())
		return nil, &TypeError{fn, arg, msg}
	}
	//
	return f.Result, nil
}
