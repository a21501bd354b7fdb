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
package disambig

import (
	"fmt"

	"github.com/consensys/go-cpl/pkg/semantic/types"
)

// Hardness determines how strictly an expected type is enforced.
type Hardness uint8

// HARD expectations prune any candidate which does not unify.
const HARD Hardness = 0

// SOFT expectations demote (but keep) candidates which do not unify.
const SOFT Hardness = 1

// DEFAULT expectations only rank candidates which unify ahead of those which
// do not.
const DEFAULT Hardness = 2

func (p Hardness) String() string {
	switch p {
	case HARD:
		return "hard"
	case SOFT:
		return "soft"
	case DEFAULT:
		return "default"
	default:
		return fmt.Sprintf("hardness#%d", p)
	}
}

// ParseHardness converts a name (e.g. "hard") into a hardness.
func ParseHardness(name string) (Hardness, error) {
	switch name {
	case "hard":
		return HARD, nil
	case "soft":
		return SOFT, nil
	case "default", "":
		return DEFAULT, nil
	}
	//
	return 0, fmt.Errorf("unknown hardness \"%s\"", name)
}

// HEAD is the role of the child of a rule which determines its type, such as
// the noun of a noun phrase.  The head inherits its parent's expectation.
const HEAD = "head"

// ExpectedType is a type which the context of a phrase expects it to have,
// along with how strictly this is enforced and where it came from (e.g.
// "make.patient").
type ExpectedType struct {
	Type     types.Type
	Hardness Hardness
	Source   string
}

func (p ExpectedType) String() string {
	return fmt.Sprintf("%s (%s, %s)", p.Type.String(), p.Hardness.String(), p.Source)
}

// Lexicon provides the candidate types of a word.
type Lexicon interface {
	Types(text string, tokenType string) []types.Candidate
}

// Grammar describes how the types of a rule's children combine, and the
// thematic role (if any) played by each child.
type Grammar interface {
	// Combine determines the type of a rule from the types of its children, or
	// returns false if they cannot be combined.
	Combine(rule string, childTypes []types.Type) (types.Type, bool)
	// ChildRole returns the role of the ith child of a rule (e.g. "patient").
	ChildRole(rule string, index int) (string, bool)
}

// VerbFrames gives the type a verb expects for each of its roles.
type VerbFrames interface {
	Expect(verb string, role string) (ExpectedType, bool)
}
