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

	"github.com/consensys/go-cpl/pkg/semantic/types"
)

// Synthesize recomputes the type of a term from the declared types of its
// immediate children (or, for leaves, from its own declaration).  An error is
// returned if the children do not fit together.
func Synthesize(t Term) (types.Type, error) {
	switch e := t.(type) {
	case *Variable:
		return e.datatype, nil
	case *Constant:
		return e.datatype, nil
	case *Application:
		return types.ApplicationResult(e.Func.Type(), e.Arg.Type())
	case *Abstraction:
		return types.NewFunctionType(e.ParamType, e.Body.Type()), nil
	case *Conjunction:
		return joinTypes(e.Conjuncts)
	case *Disjunction:
		return joinTypes(e.Disjuncts)
	case *Negation:
		return e.Body.Type(), nil
	case *Quantifier:
		if e.Body != nil {
			return e.Body.Type(), nil
		}
		//
		return e.VarType, nil
	case *Event:
		if e.Goal {
			return types.Action, nil
		}
		//
		return types.NewEventType(e.Category), nil
	case *Degree:
		return types.Degree, nil
	case *Scope:
		return types.Scope, nil
	case *Constraint:
		return types.Constraint, nil
	case *Hole:
		return types.NewHoleType(e.Expected), nil
	case *List:
		return types.NewListType(listElementType(e.Items)), nil
	case *Let:
		return e.Body.Type(), nil
	case *Modification:
		return e.Head.Type(), nil
	default:
		panic(fmt.Sprintf("unknown term %s", t.String()))
	}
}

// CheckWellTyped checks that, for every subterm, the declared type matches the
// synthesized type.  The first discrepancy found is reported as an error.
func CheckWellTyped(t Term) error {
	var err error
	//
	Walk(t, func(sub Term) bool {
		if err != nil {
			return false
		}
		//
		synthesized, e := Synthesize(sub)
		//
		if e != nil {
			err = fmt.Errorf("%s is ill-typed: %w", sub.String(), e)
		} else if !types.Equal(synthesized, sub.Type()) {
			err = fmt.Errorf("%s declared as %s, but synthesized as %s", sub.String(), sub.Type(), synthesized)
		}
		//
		return err == nil
	})
	//
	return err
}
