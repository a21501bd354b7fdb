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

// Kind identifies which variant of the (closed) type algebra a given type is.
type Kind uint8

// ENTITY is the type of things which can be referred to (tracks, sections,
// notes, etc).
const ENTITY Kind = 0

// TRUTH is the type of propositions.
const TRUTH Kind = 1

// EVENT is the type of (Davidsonian) events.
const EVENT Kind = 2

// FUNCTION is the type of functions from one type to another.
const FUNCTION Kind = 3

// PRODUCT is the type of pairs.
const PRODUCT Kind = 4

// AXIS is the type of perceptual axes (brightness, warmth, width, ...).
const AXIS Kind = 5

// DEGREE is the type of amounts along an axis.
const DEGREE Kind = 6

// SCOPE is the type of scope specifications ("in the chorus").
const SCOPE Kind = 7

// ACTION is the type of goals, i.e. requested edits.
const ACTION Kind = 8

// CONSTRAINT is the type of constraints on how a goal may be achieved.
const CONSTRAINT Kind = 9

// HOLE is the type of a position which has yet to be filled.
const HOLE Kind = 10

// LIST is the type of unordered collections.
const LIST Kind = 11

// Type represents a semantic type.  The set of types is closed: the only
// implementations are those defined in this package, and every consumer which
// switches on a type is expected to handle all of them.
type Type interface {
	// Kind returns the variant of this type.
	Kind() Kind
	// String returns a compact textual representation of this type, as
	// accepted by Parse.
	String() string
	// sealed
	isType()
}

// ============================================================================
// Entity
// ============================================================================

// EntityType represents an entity, optionally refined by a subtype.  An empty
// subtype means "any entity".
type EntityType struct {
	Subtype string
}

// NewEntityType constructs an entity type with a given (possibly empty) subtype.
func NewEntityType(subtype string) *EntityType {
	return &EntityType{subtype}
}

// Kind returns ENTITY.
func (p *EntityType) Kind() Kind { return ENTITY }

func (p *EntityType) String() string {
	if p.Subtype == "" {
		return "e"
	}
	//
	return fmt.Sprintf("e<%s>", p.Subtype)
}

func (p *EntityType) isType() {}

// ============================================================================
// Truth
// ============================================================================

// TruthType represents a proposition.
type TruthType struct{}

// Kind returns TRUTH.
func (p *TruthType) Kind() Kind     { return TRUTH }
func (p *TruthType) String() string { return "t" }
func (p *TruthType) isType()        {}

// ============================================================================
// Event
// ============================================================================

// EventType represents an event, optionally refined by a category.  An empty
// category means "any event".
type EventType struct {
	Category string
}

// NewEventType constructs an event type with a given (possibly empty) category.
func NewEventType(category string) *EventType {
	return &EventType{category}
}

// Kind returns EVENT.
func (p *EventType) Kind() Kind { return EVENT }

func (p *EventType) String() string {
	if p.Category == "" {
		return "v"
	}
	//
	return fmt.Sprintf("v<%s>", p.Category)
}

func (p *EventType) isType() {}

// ============================================================================
// Function
// ============================================================================

// FunctionType represents a function from a parameter type to a result type.
type FunctionType struct {
	Param  Type
	Result Type
}

// NewFunctionType constructs a function type.
func NewFunctionType(param Type, result Type) *FunctionType {
	return &FunctionType{param, result}
}

// NewCurriedType constructs a curried function type from one or more
// parameters and a final result.  For example, NewCurriedType(r, a, b) gives
// <a,<b,r>>.
func NewCurriedType(result Type, params ...Type) Type {
	for i := len(params) - 1; i >= 0; i-- {
		result = NewFunctionType(params[i], result)
	}
	//
	return result
}

// Kind returns FUNCTION.
func (p *FunctionType) Kind() Kind { return FUNCTION }

func (p *FunctionType) String() string {
	return fmt.Sprintf("<%s,%s>", p.Param.String(), p.Result.String())
}

func (p *FunctionType) isType() {}

// ============================================================================
// Product
// ============================================================================

// ProductType represents a pair of values.
type ProductType struct {
	Left  Type
	Right Type
}

// NewProductType constructs a product type.
func NewProductType(left Type, right Type) *ProductType {
	return &ProductType{left, right}
}

// Kind returns PRODUCT.
func (p *ProductType) Kind() Kind { return PRODUCT }

func (p *ProductType) String() string {
	return fmt.Sprintf("(%s*%s)", p.Left.String(), p.Right.String())
}

func (p *ProductType) isType() {}

// ============================================================================
// Atomic types
// ============================================================================

// AxisType represents a perceptual axis.
type AxisType struct{}

// Kind returns AXIS.
func (p *AxisType) Kind() Kind     { return AXIS }
func (p *AxisType) String() string { return "axis" }
func (p *AxisType) isType()        {}

// DegreeType represents an amount along some axis.
type DegreeType struct{}

// Kind returns DEGREE.
func (p *DegreeType) Kind() Kind     { return DEGREE }
func (p *DegreeType) String() string { return "deg" }
func (p *DegreeType) isType()        {}

// ScopeType represents a scope specification.
type ScopeType struct{}

// Kind returns SCOPE.
func (p *ScopeType) Kind() Kind     { return SCOPE }
func (p *ScopeType) String() string { return "scope" }
func (p *ScopeType) isType()        {}

// ActionType represents a goal (i.e. a requested edit).
type ActionType struct{}

// Kind returns ACTION.
func (p *ActionType) Kind() Kind     { return ACTION }
func (p *ActionType) String() string { return "act" }
func (p *ActionType) isType()        {}

// ConstraintType represents a constraint on how a goal is achieved.
type ConstraintType struct{}

// Kind returns CONSTRAINT.
func (p *ConstraintType) Kind() Kind     { return CONSTRAINT }
func (p *ConstraintType) String() string { return "cstr" }
func (p *ConstraintType) isType()        {}

// ============================================================================
// Hole
// ============================================================================

// HoleType represents a position awaiting a filler.  The expected type is
// advisory only (it may be nil, meaning nothing is known), and a hole unifies
// with anything.
type HoleType struct {
	Expected Type
}

// NewHoleType constructs a hole expecting a given type (which can be nil).
func NewHoleType(expected Type) *HoleType {
	return &HoleType{expected}
}

// Kind returns HOLE.
func (p *HoleType) Kind() Kind { return HOLE }

func (p *HoleType) String() string {
	if p.Expected == nil {
		return "?"
	}
	//
	return fmt.Sprintf("?%s", p.Expected.String())
}

func (p *HoleType) isType() {}

// ============================================================================
// List
// ============================================================================

// ListType represents an unordered collection of elements.
type ListType struct {
	Element Type
}

// NewListType constructs a list type.
func NewListType(element Type) *ListType {
	return &ListType{element}
}

// Kind returns LIST.
func (p *ListType) Kind() Kind { return LIST }

func (p *ListType) String() string {
	return fmt.Sprintf("[%s]", p.Element.String())
}

func (p *ListType) isType() {}

// ============================================================================
// Shared instances
// ============================================================================

// The atomic types carry no data, hence can be shared.
var (
	Truth      Type = &TruthType{}
	Axis       Type = &AxisType{}
	Degree     Type = &DegreeType{}
	Scope      Type = &ScopeType{}
	Action     Type = &ActionType{}
	Constraint Type = &ConstraintType{}
	Entity     Type = &EntityType{}
	Event      Type = &EventType{}
)

// Equal determines whether two types are structurally identical.  Unlike
// unification, this does not treat holes or absent subtypes as wildcards.
func Equal(lhs Type, rhs Type) bool {
	if lhs == nil || rhs == nil {
		return lhs == nil && rhs == nil
	} else if lhs.Kind() != rhs.Kind() {
		return false
	}
	//
	switch l := lhs.(type) {
	case *EntityType:
		return l.Subtype == rhs.(*EntityType).Subtype
	case *EventType:
		return l.Category == rhs.(*EventType).Category
	case *FunctionType:
		r := rhs.(*FunctionType)
		return Equal(l.Param, r.Param) && Equal(l.Result, r.Result)
	case *ProductType:
		r := rhs.(*ProductType)
		return Equal(l.Left, r.Left) && Equal(l.Right, r.Right)
	case *HoleType:
		return Equal(l.Expected, rhs.(*HoleType).Expected)
	case *ListType:
		return Equal(l.Element, rhs.(*ListType).Element)
	case *TruthType, *AxisType, *DegreeType, *ScopeType, *ActionType, *ConstraintType:
		return true
	default:
		panic(fmt.Sprintf("unknown type %s", lhs.String()))
	}
}

// IsHole checks whether a given type is a hole.
func IsHole(t Type) bool {
	_, ok := t.(*HoleType)
	return ok
}
