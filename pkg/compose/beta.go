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
	"fmt"

	"github.com/consensys/go-cpl/pkg/semantic/term"
)

// Reduce performs one step of beta reduction at the root of a given term.  That
// is, an application "(λx.body)(arg)" is reduced to "body[x:=arg]".  Any other
// term is returned unchanged.  Substitution is capture-avoiding, with fresh
// names drawn from the given arena.
func Reduce(arena *term.Arena, t term.Term) (term.Term, error) {
	app, ok := t.(*term.Application)
	if !ok {
		return t, nil
	}
	//
	fn, ok := app.Func.(*term.Abstraction)
	if !ok {
		return t, nil
	}
	//
	return term.Substitute(arena, fn.Body, fn.Param, app.Arg)
}

// IsRedex determines whether a given term can be beta reduced at its root.
func IsRedex(t term.Term) bool {
	if app, ok := t.(*term.Application); ok {
		_, ok = app.Func.(*term.Abstraction)
		return ok
	}
	//
	return false
}

// Normalise repeatedly reduces a term at its root until no further reduction is
// possible, or a given number of steps is exhausted.  In the latter case, the
// partially reduced term is returned along with an error.
func Normalise(arena *term.Arena, t term.Term, steps uint) (term.Term, error) {
	var err error
	//
	for i := uint(0); IsRedex(t); i++ {
		if i >= steps {
			return t, fmt.Errorf("beta reduction exceeded %d steps", steps)
		} else if t, err = Reduce(arena, t); err != nil {
			return nil, err
		}
	}
	//
	return t, nil
}
