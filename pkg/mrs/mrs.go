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
	"strings"
)

// Handle labels an elementary predication.  Handles are unique within an MRS.
type Handle uint

func (p Handle) String() string {
	return fmt.Sprintf("h%d", p)
}

// ArgKind identifies what an argument refers to.
type ArgKind uint8

// VARIABLE arguments refer to a (quantified or event) variable.
const VARIABLE ArgKind = 0

// CONSTANT arguments hold a literal value.
const CONSTANT ArgKind = 1

// HANDLE arguments refer to another elementary predication.
const HANDLE ArgKind = 2

// Arg is a single argument of an elementary predication.
type Arg struct {
	Role   string
	Kind   ArgKind
	Value  string
	Handle Handle
}

// NewVariableArg constructs an argument referring to a variable.
func NewVariableArg(role string, name string) Arg {
	return Arg{role, VARIABLE, name, 0}
}

// NewConstantArg constructs an argument holding a constant.
func NewConstantArg(role string, value string) Arg {
	return Arg{role, CONSTANT, value, 0}
}

// NewHandleArg constructs an argument referring to another predication.
func NewHandleArg(role string, handle Handle) Arg {
	return Arg{role, HANDLE, "", handle}
}

func (p Arg) String() string {
	var value string
	//
	switch p.Kind {
	case HANDLE:
		value = p.Handle.String()
	default:
		value = p.Value
	}
	//
	if p.Role == "" {
		return value
	}
	//
	return fmt.Sprintf("%s=%s", p.Role, value)
}

// EP is an elementary predication: an atomic predicate-argument unit tagged
// with a unique handle.  Quantifier and negation predications are "scopal",
// meaning their relative order determines the reading of an utterance.
type EP struct {
	Handle     Handle
	Predicate  string
	Args       []Arg
	Quantifier bool
	Determiner string
	Negation   bool
	// Position of this predication in the surface string.
	Position uint
}

// IsScopal determines whether this predication takes scope.
func (p *EP) IsScopal() bool {
	return p.Quantifier || p.Negation
}

// Variable returns the variable bound by a quantifier (or "" otherwise).
func (p *EP) Variable() string {
	if p.Quantifier && len(p.Args) > 0 {
		return p.Args[0].Value
	}
	//
	return ""
}

func (p *EP) String() string {
	args := make([]string, len(p.Args))
	//
	for i, arg := range p.Args {
		args[i] = arg.String()
	}
	//
	return fmt.Sprintf("%s:%s(%s)", p.Handle, p.Predicate, strings.Join(args, ", "))
}

// Relation determines how two handles are constrained.
type Relation uint8

// QEQ indicates the high handle is equal to the low handle modulo quantifiers.
// For resolution, the high handle must take wider scope.
const QEQ Relation = 0

// OUTSCOPES indicates the high handle must take wider scope.
const OUTSCOPES Relation = 1

// EQUALS indicates both handles occupy the same position.
const EQUALS Relation = 2

func (p Relation) String() string {
	switch p {
	case QEQ:
		return "qeq"
	case OUTSCOPES:
		return "outscopes"
	case EQUALS:
		return "equals"
	default:
		return fmt.Sprintf("relation#%d", p)
	}
}

// HandleConstraint constrains the relative positions of two handles.
type HandleConstraint struct {
	High     Handle
	Low      Handle
	Relation Relation
}

func (p HandleConstraint) String() string {
	return fmt.Sprintf("%s %s %s", p.High, p.Relation, p.Low)
}

// MRS is an underspecified representation of scope, consisting of a set of
// elementary predications and the constraints between them.
type MRS struct {
	Top         Handle
	EPs         []EP
	Constraints []HandleConstraint
}

// Lookup the predication with a given handle.
func (p *MRS) Lookup(handle Handle) (*EP, bool) {
	for i := range p.EPs {
		if p.EPs[i].Handle == handle {
			return &p.EPs[i], true
		}
	}
	//
	return nil, false
}

// Scopal returns the scopal predications of this MRS, in surface order.
func (p *MRS) Scopal() []*EP {
	var scopal []*EP
	//
	for i := range p.EPs {
		if p.EPs[i].IsScopal() {
			scopal = append(scopal, &p.EPs[i])
		}
	}
	//
	return sortByPosition(scopal)
}

func (p *MRS) String() string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("TOP=%s\n", p.Top))
	//
	for i := range p.EPs {
		builder.WriteString(p.EPs[i].String())
		builder.WriteString("\n")
	}
	//
	for _, c := range p.Constraints {
		builder.WriteString(c.String())
		builder.WriteString("\n")
	}
	//
	return builder.String()
}
