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
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/consensys/go-cpl/pkg/semantic/types"
)

// Term represents a typed lambda term.  The set of terms is closed: the only
// implementations are those defined in this package.  Every term carries its
// result type, which is computed by its constructor from its children.  Hence,
// a term's declared type always matches the type synthesized from its
// children (see Synthesize).
type Term interface {
	// Type returns the (declared) type of this term.
	Type() types.Type
	// String returns a human-readable rendering of this term.
	String() string
	// sealed
	isTerm()
}

// ============================================================================
// Variable
// ============================================================================

// Variable represents a reference to a bound (or free) variable.
type Variable struct {
	Name     string
	datatype types.Type
}

// NewVariable constructs a variable of the given type.
func NewVariable(name string, datatype types.Type) *Variable {
	return &Variable{name, datatype}
}

// Type returns the type of this variable.
func (p *Variable) Type() types.Type { return p.datatype }
func (p *Variable) String() string   { return p.Name }
func (p *Variable) isTerm()          {}

// ============================================================================
// Constant
// ============================================================================

// Constant represents a lexical constant, such as "bass" or "brightness".
type Constant struct {
	Value    string
	datatype types.Type
}

// NewConstant constructs a constant of the given type.
func NewConstant(value string, datatype types.Type) *Constant {
	return &Constant{value, datatype}
}

// Type returns the type of this constant.
func (p *Constant) Type() types.Type { return p.datatype }
func (p *Constant) String() string   { return p.Value }
func (p *Constant) isTerm()          {}

// ============================================================================
// Application
// ============================================================================

// Application represents the application of a function to an argument.
// ArgFirst records whether the argument preceded the function in the surface
// string (i.e. backward application).
type Application struct {
	Func     Term
	Arg      Term
	ArgFirst bool
	datatype types.Type
}

// NewApplication constructs an application, provided the argument unifies with
// the function's parameter type.  Otherwise, a type error is returned.
func NewApplication(fn Term, arg Term) (*Application, error) {
	return newApplication(fn, arg, false)
}

// NewBackwardApplication constructs an application as for NewApplication,
// where the argument preceded the function in the surface string.
func NewBackwardApplication(fn Term, arg Term) (*Application, error) {
	return newApplication(fn, arg, true)
}

func newApplication(fn Term, arg Term, argFirst bool) (*Application, error) {
	datatype, err := types.ApplicationResult(fn.Type(), arg.Type())
	if err != nil {
		return nil, err
	}
	//
	return &Application{fn, arg, argFirst, datatype}, nil
}

// Type returns the type of this application.
func (p *Application) Type() types.Type { return p.datatype }

func (p *Application) String() string {
	if _, ok := p.Func.(*Abstraction); ok {
		return fmt.Sprintf("(%s)(%s)", p.Func.String(), p.Arg.String())
	}
	//
	return fmt.Sprintf("%s(%s)", p.Func.String(), p.Arg.String())
}

func (p *Application) isTerm() {}

// ============================================================================
// Abstraction
// ============================================================================

// Abstraction represents a lambda abstraction "λx:T.body".
type Abstraction struct {
	Param     string
	ParamType types.Type
	Body      Term
	datatype  types.Type
}

// NewAbstraction constructs a lambda abstraction.
func NewAbstraction(param string, paramType types.Type, body Term) *Abstraction {
	return &Abstraction{param, paramType, body, types.NewFunctionType(paramType, body.Type())}
}

// Type returns the (function) type of this abstraction.
func (p *Abstraction) Type() types.Type { return p.datatype }

func (p *Abstraction) String() string {
	return fmt.Sprintf("λ%s:%s.%s", p.Param, p.ParamType.String(), p.Body.String())
}

func (p *Abstraction) isTerm() {}

// ============================================================================
// Conjunction
// ============================================================================

// INTERSECTIVE is the junction used for predicate modification, where two
// predicates are intersected (e.g. "distorted guitar").
const INTERSECTIVE = ""

// Conjunction represents two or more terms joined by a junction ("and", "or",
// "but"), or intersected (INTERSECTIVE).
type Conjunction struct {
	Junction  string
	Conjuncts []Term
	datatype  types.Type
}

// NewConjunction constructs a conjunction of one or more terms with mutually
// compatible types.
func NewConjunction(junction string, conjuncts ...Term) (*Conjunction, error) {
	datatype, err := joinTypes(conjuncts)
	if err != nil {
		return nil, err
	}
	//
	return &Conjunction{junction, conjuncts, datatype}, nil
}

// Type returns the type of this conjunction.
func (p *Conjunction) Type() types.Type { return p.datatype }

func (p *Conjunction) String() string {
	sep := " ∧ "
	//
	if p.Junction != INTERSECTIVE {
		sep = fmt.Sprintf(" %s ", p.Junction)
	}
	//
	return fmt.Sprintf("(%s)", joinTerms(p.Conjuncts, sep))
}

func (p *Conjunction) isTerm() {}

// ============================================================================
// Disjunction
// ============================================================================

// Disjunction represents a choice between two or more terms.
type Disjunction struct {
	Disjuncts []Term
	datatype  types.Type
}

// NewDisjunction constructs a disjunction of one or more terms with mutually
// compatible types.
func NewDisjunction(disjuncts ...Term) (*Disjunction, error) {
	datatype, err := joinTypes(disjuncts)
	if err != nil {
		return nil, err
	}
	//
	return &Disjunction{disjuncts, datatype}, nil
}

// Type returns the type of this disjunction.
func (p *Disjunction) Type() types.Type { return p.datatype }

func (p *Disjunction) String() string {
	return fmt.Sprintf("(%s)", joinTerms(p.Disjuncts, " ∨ "))
}

func (p *Disjunction) isTerm() {}

// ============================================================================
// Negation
// ============================================================================

// Negation represents the negation of a term (e.g. "don't touch the vocals").
// Its type is that of its body.
type Negation struct {
	Body Term
}

// NewNegation constructs a negation.
func NewNegation(body Term) *Negation {
	return &Negation{body}
}

// Type returns the type of the negated body.
func (p *Negation) Type() types.Type { return p.Body.Type() }
func (p *Negation) String() string   { return fmt.Sprintf("¬%s", p.Body.String()) }
func (p *Negation) isTerm()          {}

// ============================================================================
// Quantifier
// ============================================================================

// Quantifier represents a quantified noun phrase, such as "every verse" or
// "the bass".  It binds a variable within its restriction (and body, if
// given).  Without a body, a quantifier stands for the quantified entity itself
// (its scope is then determined later by scope resolution); with a body, its
// type is that of the body.
type Quantifier struct {
	Determiner  string
	Variable    string
	VarType     types.Type
	Restriction Term
	Body        Term
}

// NewQuantifier constructs a quantifier.  The body may be nil.
func NewQuantifier(determiner string, variable string, varType types.Type, restriction Term,
	body Term) *Quantifier {
	return &Quantifier{determiner, variable, varType, restriction, body}
}

// Type returns the type of the body (if present) or of the bound variable.
func (p *Quantifier) Type() types.Type {
	if p.Body != nil {
		return p.Body.Type()
	}
	//
	return p.VarType
}

// IsDefinite determines whether this quantifier is headed by a definite
// determiner.
func (p *Quantifier) IsDefinite() bool {
	return IsDefiniteDeterminer(p.Determiner)
}

func (p *Quantifier) String() string {
	if p.Body == nil {
		return fmt.Sprintf("%s(%s, %s)", p.Determiner, p.Variable, p.Restriction.String())
	}
	//
	return fmt.Sprintf("%s(%s, %s, %s)", p.Determiner, p.Variable, p.Restriction.String(), p.Body.String())
}

func (p *Quantifier) isTerm() {}

var definiteDeterminers = []string{"the", "this", "that", "these", "those", "both", "my", "our"}

// IsDefiniteDeterminer determines whether a given determiner is definite.
func IsDefiniteDeterminer(determiner string) bool {
	return slices.Contains(definiteDeterminers, strings.ToLower(determiner))
}

// ============================================================================
// Event
// ============================================================================

// Role is a thematic role (agent, patient, theme, ...) together with its filler.
type Role struct {
	Name   string
	Filler Term
}

// PATIENT is the thematic role of the thing being changed.
const PATIENT = "patient"

// Event represents a (neo-Davidsonian) event with an ordered list of thematic
// roles.  A goal event is an imperative request (e.g. "make the bass brighter")
// and has the action type; otherwise, it has the event type of its category.
// An optional scope term restricts where the goal applies.  ScopeFirst records
// whether the scope was stated before the goal in the surface string.
type Event struct {
	Predicate  string
	Category   string
	Goal       bool
	Roles      []Role
	Scope      Term
	ScopeFirst bool
}

// NewEvent constructs an event without scope.
func NewEvent(predicate string, category string, goal bool, roles ...Role) *Event {
	return &Event{predicate, category, goal, roles, nil, false}
}

// Type returns the action type for goals, and the categorised event type
// otherwise.
func (p *Event) Type() types.Type {
	if p.Goal {
		return types.Action
	}
	//
	return types.NewEventType(p.Category)
}

// Role returns the filler of a given role (or nil if it is not filled).
func (p *Event) Role(name string) Term {
	for _, r := range p.Roles {
		if r.Name == name {
			return r.Filler
		}
	}
	//
	return nil
}

// WithRole returns a copy of this event where a given role has been filled (or
// replaced, if already filled).
func (p *Event) WithRole(name string, filler Term) *Event {
	roles := make([]Role, 0, len(p.Roles)+1)
	replaced := false
	//
	for _, r := range p.Roles {
		if r.Name == name {
			roles = append(roles, Role{name, filler})
			replaced = true
		} else {
			roles = append(roles, r)
		}
	}
	//
	if !replaced {
		roles = append(roles, Role{name, filler})
	}
	//
	return &Event{p.Predicate, p.Category, p.Goal, roles, p.Scope, p.ScopeFirst}
}

// WithScope returns a copy of this event with a given scope attached.
func (p *Event) WithScope(scope Term, first bool) *Event {
	return &Event{p.Predicate, p.Category, p.Goal, p.Roles, scope, first}
}

func (p *Event) String() string {
	var builder strings.Builder
	//
	if p.Goal {
		builder.WriteString("!")
	}
	//
	builder.WriteString(p.Predicate)
	//
	if p.Category != "" {
		builder.WriteString(":")
		builder.WriteString(p.Category)
	}
	//
	builder.WriteString("[")
	//
	for i, r := range p.Roles {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(fmt.Sprintf("%s=%s", r.Name, r.Filler.String()))
	}
	//
	builder.WriteString("]")
	//
	if p.Scope != nil {
		builder.WriteString("@")
		builder.WriteString(p.Scope.String())
	}
	//
	return builder.String()
}

func (p *Event) isTerm() {}

// ============================================================================
// Degree
// ============================================================================

// Degree represents an amount of change along some axis (e.g. "a bit
// brighter").  The direction is "+", "-" or empty (unspecified), whilst the
// amount is free text (e.g. "a little", "3dB").
type Degree struct {
	Axis      string
	Direction string
	Amount    string
}

// NewDegree constructs a degree.
func NewDegree(axis string, direction string, amount string) *Degree {
	return &Degree{axis, direction, amount}
}

// Type returns the degree type.
func (p *Degree) Type() types.Type { return types.Degree }

func (p *Degree) String() string {
	if p.Amount == "" {
		return fmt.Sprintf("deg(%s%s)", p.Axis, p.Direction)
	}
	//
	return fmt.Sprintf("deg(%s%s, %s)", p.Axis, p.Direction, p.Amount)
}

func (p *Degree) isTerm() {}

// ============================================================================
// Scope
// ============================================================================

// Scope represents a scope specification, such as "in the chorus" or "for
// every verse".
type Scope struct {
	Relation string
	Region   Term
}

// NewScope constructs a scope specification.
func NewScope(relation string, region Term) *Scope {
	return &Scope{relation, region}
}

// Type returns the scope type.
func (p *Scope) Type() types.Type { return types.Scope }
func (p *Scope) String() string   { return fmt.Sprintf("%s(%s)", p.Relation, p.Region.String()) }
func (p *Scope) isTerm()          {}

// ============================================================================
// Constraint
// ============================================================================

// Constraint represents a constraint on how a goal may be achieved (e.g.
// "keep the vocals", "only the drums").
type Constraint struct {
	Kind   string
	Target Term
}

// NewConstraint constructs a constraint.
func NewConstraint(kind string, target Term) *Constraint {
	return &Constraint{kind, target}
}

// Type returns the constraint type.
func (p *Constraint) Type() types.Type { return types.Constraint }
func (p *Constraint) String() string   { return fmt.Sprintf("%s(%s)", p.Kind, p.Target.String()) }
func (p *Constraint) isTerm()          {}

// ============================================================================
// Hole
// ============================================================================

// Hole represents a position which could not be filled, and which is left for
// a downstream stage (e.g. clarification) to fill.
type Hole struct {
	ID       string
	Expected types.Type
}

// NewHole constructs a hole expecting a given type (which may be nil).
func NewHole(id string, expected types.Type) *Hole {
	return &Hole{id, expected}
}

// Type returns the hole type.
func (p *Hole) Type() types.Type { return types.NewHoleType(p.Expected) }

func (p *Hole) String() string {
	if p.Expected == nil {
		return p.ID
	}
	//
	return fmt.Sprintf("%s:%s", p.ID, p.Expected.String())
}

func (p *Hole) isTerm() {}

// ============================================================================
// List
// ============================================================================

// List represents an unordered collection of terms.  Its element type is the
// join of its items' types when they are mutually compatible, and an
// unconstrained hole otherwise.
type List struct {
	Items    []Term
	datatype types.Type
}

// NewList constructs a list.
func NewList(items ...Term) *List {
	return &List{items, types.NewListType(listElementType(items))}
}

// Type returns the list type.
func (p *List) Type() types.Type { return p.datatype }
func (p *List) String() string   { return fmt.Sprintf("{%s}", joinTerms(p.Items, ", ")) }
func (p *List) isTerm()          {}

// ============================================================================
// Let
// ============================================================================

// Let binds a name to a value within a body.
type Let struct {
	Name  string
	Value Term
	Body  Term
}

// NewLet constructs a let binding.
func NewLet(name string, value Term, body Term) *Let {
	return &Let{name, value, body}
}

// Type returns the type of the body.
func (p *Let) Type() types.Type { return p.Body.Type() }

func (p *Let) String() string {
	return fmt.Sprintf("let %s = %s in %s", p.Name, p.Value.String(), p.Body.String())
}

func (p *Let) isTerm() {}

// ============================================================================
// Modification
// ============================================================================

// Position records where a modifier appeared relative to its head.
type Position uint8

// PRE indicates a modifier preceding its head ("bright guitar").
const PRE Position = 0

// POST indicates a modifier following its head ("guitar in the chorus").
const POST Position = 1

func (p Position) String() string {
	if p == PRE {
		return "pre"
	}
	//
	return "post"
}

// Modification attaches a modifier to a head.  Its type is that of the head.
type Modification struct {
	Head     Term
	Modifier Term
	Position Position
}

// NewModification constructs a modification.
func NewModification(head Term, modifier Term, position Position) *Modification {
	return &Modification{head, modifier, position}
}

// Type returns the type of the head.
func (p *Modification) Type() types.Type { return p.Head.Type() }

func (p *Modification) String() string {
	if p.Position == PRE {
		return fmt.Sprintf("(%s ▹ %s)", p.Modifier.String(), p.Head.String())
	}
	//
	return fmt.Sprintf("(%s ◃ %s)", p.Head.String(), p.Modifier.String())
}

func (p *Modification) isTerm() {}

// ============================================================================
// Helpers
// ============================================================================

// Join the types of one or more terms using unification.
func joinTypes(terms []Term) (types.Type, error) {
	if len(terms) == 0 {
		return nil, errors.New("expected at least one term")
	}
	//
	datatype := terms[0].Type()
	//
	for _, t := range terms[1:] {
		u := types.Unify(datatype, t.Type())
		if !u.Ok {
			return nil, &types.TypeError{Function: datatype, Argument: t.Type(),
				Message: "incompatible types in junction"}
		}
		//
		datatype = u.Resolved
	}
	//
	return datatype, nil
}

func listElementType(items []Term) types.Type {
	if datatype, err := joinTypes(items); err == nil {
		return datatype
	}
	//
	return types.NewHoleType(nil)
}

func joinTerms(terms []Term, sep string) string {
	var builder strings.Builder
	//
	for i, t := range terms {
		if i != 0 {
			builder.WriteString(sep)
		}
		//
		builder.WriteString(t.String())
	}
	//
	return builder.String()
}
