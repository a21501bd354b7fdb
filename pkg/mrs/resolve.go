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
	"slices"
	"strings"

	"github.com/consensys/go-cpl/pkg/semantic/term"
	"github.com/consensys/go-cpl/pkg/util/collection/iter"
)

// BaseScore is the score of every consistent reading before any preferences
// are taken into account.
const BaseScore = 0.5

// DefaultSurfaceOrderWeight is the default bonus for a reading whose scopal
// predications all occur in surface order.
const DefaultSurfaceOrderWeight = 0.3

// DefaultDefinitenessWeight is the default bonus for a reading in which all
// definite quantifiers take wide scope.
const DefaultDefinitenessWeight = 0.1

// DefaultNegationWeight is the default bonus for a reading in which all
// negations take wide scope.
const DefaultNegationWeight = 0.1

// DefaultMaxQuantifiers is the default bound on the number of scopal
// predications whose orderings will be enumerated.
const DefaultMaxQuantifiers uint = 5

// DefaultPreferenceGap is the default margin by which the best reading must
// beat the runner-up to be preferred.
const DefaultPreferenceGap = 0.15

// Tolerance used when comparing scores against the preference gap.
const epsilon = 1e-9

// Config determines the bounds and weights used during resolution.
type Config struct {
	MaxQuantifiers     uint
	PreferenceGap      float64
	SurfaceOrderWeight float64
	DefinitenessWeight float64
	NegationWeight     float64
}

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() Config {
	return Config{
		DefaultMaxQuantifiers,
		DefaultPreferenceGap,
		DefaultSurfaceOrderWeight,
		DefaultDefinitenessWeight,
		DefaultNegationWeight,
	}
}

// Reading is a fully scoped reading of an MRS, where scopal predications are
// ordered from widest to narrowest scope.
type Reading struct {
	Order     []Handle
	Form      string
	Score     float64
	Preferred bool
}

func (p Reading) String() string {
	return fmt.Sprintf("%.2f %s", p.Score, p.Form)
}

// Resolution is the outcome of resolving the scope of an MRS.
type Resolution struct {
	// Readings, best first.
	Readings []Reading
	// NeedsClarification indicates that no reading is preferred.
	NeedsClarification bool
	// Truncated indicates enumeration was skipped because there were too many
	// scopal predications.
	Truncated bool
	Warnings  []string
}

// PreferredReading returns the preferred reading (if there is one).
func (p *Resolution) PreferredReading() (Reading, bool) {
	if len(p.Readings) > 0 && p.Readings[0].Preferred {
		return p.Readings[0], true
	}
	//
	return Reading{}, false
}

// Resolve the scope of an MRS by enumerating the orderings of its scopal
// predications which are consistent with its constraints, and ranking them.
// The best reading is preferred only when it beats the runner-up by the
// configured gap.  When there are too many scopal predications, enumeration is
// skipped and only the surface order is returned.
func Resolve(m *MRS, config Config) Resolution {
	var (
		scopal     = m.Scopal()
		resolution Resolution
	)
	//
	switch {
	case len(scopal) <= 1:
		reading := newReading(m, scopal, 1.0)
		reading.Preferred = true
		resolution.Readings = []Reading{reading}
		//
		return resolution
	case uint(len(scopal)) > config.MaxQuantifiers:
		reading := newReading(m, scopal, score(scopal, config))
		reading.Preferred = true
		resolution.Readings = []Reading{reading}
		resolution.Truncated = true
		resolution.Warnings = append(resolution.Warnings,
			fmt.Sprintf("%d scopal predications exceeds maximum of %d, using surface order",
				len(scopal), config.MaxQuantifiers))
		//
		return resolution
	}
	//
	for perms := iter.EnumeratePermutations(scopal); perms.HasNext(); {
		order := perms.Next()
		//
		if consistent(order, m.Constraints) {
			resolution.Readings = append(resolution.Readings, newReading(m, order, score(order, config)))
		}
	}
	// Best first (ties retain enumeration order, hence surface order first)
	slices.SortStableFunc(resolution.Readings, func(l, r Reading) int {
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
	switch n := len(resolution.Readings); {
	case n == 0:
		resolution.NeedsClarification = true
		resolution.Warnings = append(resolution.Warnings, "no scope ordering satisfies the handle constraints")
	case n == 1 || resolution.Readings[0].Score-resolution.Readings[1].Score+epsilon >= config.PreferenceGap:
		resolution.Readings[0].Preferred = true
	default:
		resolution.NeedsClarification = true
	}
	//
	return resolution
}

// Check whether a given ordering satisfies a set of constraints.  Constraints
// involving non-scopal predications do not affect the ordering and are
// ignored.
func consistent(order []*EP, constraints []HandleConstraint) bool {
	positions := make(map[Handle]int, len(order))
	//
	for i, ep := range order {
		positions[ep.Handle] = i
	}
	//
	for _, c := range constraints {
		high, ok1 := positions[c.High]
		low, ok2 := positions[c.Low]
		//
		if !ok1 || !ok2 {
			continue
		}
		//
		switch c.Relation {
		case QEQ, OUTSCOPES:
			if high >= low {
				return false
			}
		case EQUALS:
			if high != low {
				return false
			}
		default:
			panic(fmt.Sprintf("unknown relation %s", c.Relation))
		}
	}
	//
	return true
}

// Score an ordering of scopal predications.
func score(order []*EP, config Config) float64 {
	var (
		total      = BaseScore
		n          = len(order)
		inOrder    = 0
		definites  = 0
		wideDefs   = 0
		negations  = 0
		wideNegs   = 0
		firstIndef = n
		firstQuant = n
	)
	// Surface order of adjacent pairs
	for i := 0; i+1 < n; i++ {
		if order[i].Position < order[i+1].Position {
			inOrder++
		}
	}
	//
	if n > 1 {
		total += config.SurfaceOrderWeight * float64(inOrder) / float64(n-1)
	}
	// Locate first (non-definite) quantifiers
	for i := n - 1; i >= 0; i-- {
		if order[i].Quantifier {
			firstQuant = i
			//
			if !isDefinite(order[i]) {
				firstIndef = i
			}
		}
	}
	// Definites and negations placed early
	for i, ep := range order {
		switch {
		case ep.Quantifier && isDefinite(ep):
			definites++
			//
			if i < firstIndef {
				wideDefs++
			}
		case ep.Negation:
			negations++
			//
			if i < firstQuant {
				wideNegs++
			}
		}
	}
	//
	if definites > 0 {
		total += config.DefinitenessWeight * float64(wideDefs) / float64(definites)
	}
	//
	if negations > 0 {
		total += config.NegationWeight * float64(wideNegs) / float64(negations)
	}
	//
	return min(total, 1.0)
}

// Construct a reading, rendering its logical form by nesting scopal
// predications in order around the remaining predications.
func newReading(m *MRS, order []*EP, score float64) Reading {
	var (
		handles = make([]Handle, len(order))
		body    []string
		builder strings.Builder
	)
	//
	for i, ep := range order {
		handles[i] = ep.Handle
		//
		switch {
		case ep.Quantifier:
			builder.WriteString(fmt.Sprintf("%s(%s, ", ep.Determiner, strings.Join(argStrings(ep.Args), ", ")))
		default:
			builder.WriteString("¬(")
		}
	}
	//
	for i := range m.EPs {
		if !m.EPs[i].IsScopal() {
			body = append(body, m.EPs[i].String())
		}
	}
	//
	builder.WriteString(strings.Join(body, " ∧ "))
	builder.WriteString(strings.Repeat(")", len(order)))
	//
	return Reading{handles, builder.String(), score, false}
}

func argStrings(args []Arg) []string {
	strs := make([]string, 0, len(args))
	//
	for _, arg := range args {
		if arg.Role != "BODY" {
			strs = append(strs, arg.String())
		}
	}
	//
	return strs
}

func isDefinite(ep *EP) bool {
	return term.IsDefiniteDeterminer(ep.Determiner)
}

func sortByPosition(eps []*EP) []*EP {
	slices.SortStableFunc(eps, func(l, r *EP) int {
		switch {
		case l.Position < r.Position:
			return -1
		case l.Position > r.Position:
			return 1
		}
		//
		return 0
	})
	//
	return eps
}
