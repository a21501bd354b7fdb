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
package iter

// Enumerator abstracts the process of iterating over a sequence of elements.
type Enumerator[T any] interface {
	// Check whether or not there are any items remaining to visit.
	HasNext() bool

	// Get the next item, and advanced the iterator.
	Next() T
}

// EnumeratePermutations returns an iterator which enumerates all permutations
// of the given elements in lexicographic order of their indices.  Hence, the
// first permutation returned is always the original ordering.  For example,
// given [A,B,C] this returns [[A,B,C],[A,C,B],[B,A,C],[B,C,A],[C,A,B],[C,B,A]].
func EnumeratePermutations[E any](elems []E) Enumerator[[]E] {
	indices := make([]uint, len(elems))
	//
	for i := range indices {
		indices[i] = uint(i)
	}
	//
	return &permutations[E]{indices, elems}
}

type permutations[E any] struct {
	// indices of next permutation, or nil when finished
	indices  []uint
	elements []E
}

// HasNext checks whether or not there are any items remaining to visit.
//
//nolint:revive
func (p *permutations[E]) HasNext() bool {
	return p.indices != nil
}

// Next returns the next item, and advance the iterator.
//
//nolint:revive
func (p *permutations[E]) Next() []E {
	rs := make([]E, len(p.indices))
	// Copy over elements
	for i, index := range p.indices {
		rs[i] = p.elements[index]
	}
	// Find rightmost ascent
	i := len(p.indices) - 2
	for i >= 0 && p.indices[i] >= p.indices[i+1] {
		i--
	}
	// Check whether finished
	if i < 0 {
		p.indices = nil
		return rs
	}
	// Find rightmost element larger than the ascent
	j := len(p.indices) - 1
	for p.indices[j] <= p.indices[i] {
		j--
	}
	// Swap and reverse suffix
	p.indices[i], p.indices[j] = p.indices[j], p.indices[i]
	//
	for l, r := i+1, len(p.indices)-1; l < r; l, r = l+1, r-1 {
		p.indices[l], p.indices[r] = p.indices[r], p.indices[l]
	}
	//
	return rs
}

// Factorial computes n! saturating at a given bound.  This is useful for
// determining whether enumerating permutations is feasible.
func Factorial(n uint, bound uint) uint {
	result := uint(1)
	//
	for i := uint(2); i <= n; i++ {
		if result *= i; result >= bound {
			return bound
		}
	}
	//
	return result
}
