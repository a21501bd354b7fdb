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
	"slices"
)

// Candidate represents a possible type for some word or phrase, along with a
// confidence in the range [0,1] as provided by the lexicon.
type Candidate struct {
	Type       Type
	Confidence float64
}

// NewCandidate constructs a new candidate type with a given confidence.
func NewCandidate(datatype Type, confidence float64) Candidate {
	return Candidate{datatype, confidence}
}

func (p Candidate) String() string {
	return fmt.Sprintf("%s@%.2f", p.Type.String(), p.Confidence)
}

// Scored is a candidate which has been ranked against some expected type.  The
// score is the candidate's confidence multiplied by its fit against the
// expectation.
type Scored struct {
	Candidate
	Fit   float64
	Score float64
}

// Rank scores each candidate against an expected type (which may be nil, in
// which case all candidates have perfect fit) and sorts them by descending
// score.  Candidates which fail to unify have zero fit.  Ties are broken by
// the original lexicon order.
func Rank(candidates []Candidate, expected Type) []Scored {
	scored := make([]Scored, len(candidates))
	//
	for i, c := range candidates {
		fit := ExactFit
		//
		if expected != nil {
			fit = Unify(expected, c.Type).Fit
		}
		//
		scored[i] = Scored{c, fit, c.Confidence * fit}
	}
	//
	slices.SortStableFunc(scored, func(l, r Scored) int {
		switch {
		case l.Score > r.Score:
			return -1
		case l.Score < r.Score:
			return 1
		}
		//
		return 0
	})
	//
	return scored
}
