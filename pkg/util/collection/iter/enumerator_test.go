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

import (
	"testing"
)

func Test_Permutations_0(t *testing.T) {
	enumerator := EnumeratePermutations[uint](nil)
	checkEnumerator(t, enumerator, [][]uint{{}}, arrayEquals)
}

func Test_Permutations_1(t *testing.T) {
	enumerator := EnumeratePermutations([]uint{0})
	checkEnumerator(t, enumerator, [][]uint{{0}}, arrayEquals)
}

func Test_Permutations_2(t *testing.T) {
	enumerator := EnumeratePermutations([]uint{0, 1})
	checkEnumerator(t, enumerator, [][]uint{{0, 1}, {1, 0}}, arrayEquals)
}

func Test_Permutations_3(t *testing.T) {
	enumerator := EnumeratePermutations([]string{"a", "b", "c"})
	checkEnumerator(t, enumerator, [][]string{
		{"a", "b", "c"}, {"a", "c", "b"}, {"b", "a", "c"}, {"b", "c", "a"}, {"c", "a", "b"}, {"c", "b", "a"}},
		arrayEquals)
}

func Test_Permutations_4(t *testing.T) {
	// Duplicate elements are distinguished by position
	enumerator := EnumeratePermutations([]uint{7, 7, 7, 7})
	count := 0
	//
	for enumerator.HasNext() {
		enumerator.Next()
		count++
	}
	//
	if count != 24 {
		t.Errorf("expected 24 permutations, got %d", count)
	}
}

func Test_Factorial_1(t *testing.T) {
	if Factorial(0, 100) != 1 || Factorial(1, 100) != 1 || Factorial(4, 100) != 24 {
		t.Errorf("incorrect factorial")
	}
	//
	if Factorial(5, 100) != 100 || Factorial(20, 1000) != 1000 {
		t.Errorf("factorial should saturate")
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkEnumerator[E any](t *testing.T, enumerator Enumerator[E], expected []E, eq func(E, E) bool) {
	for i := 0; i < len(expected); i++ {
		ith := enumerator.Next()
		if !eq(ith, expected[i]) {
			t.Errorf("expected %v, got %v", any(expected[i]), any(ith))
		}
	}
	// Sanity check lengths match
	if enumerator.HasNext() {
		t.Errorf("expected %d elements, got more", len(expected))
	}
}

func arrayEquals[T comparable](lhs []T, rhs []T) bool {
	if len(lhs) != len(rhs) {
		return false
	}
	//
	for i := range lhs {
		if lhs[i] != rhs[i] {
			return false
		}
	}
	//
	return true
}
