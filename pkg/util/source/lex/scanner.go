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
package lex

// Scanner is a function which accepts some prefix of the given runes,
// returning the number of runes accepted (or 0 if it doesn't match).
type Scanner func(items []rune) uint

// Or combines zero or more scanners such that the resulting scanner succeeds if
// any of the scanners succeeds.  Observe that there is an implicit
// left-to-right order of evaluation.
func Or(scanners ...Scanner) Scanner {
	return func(items []rune) uint {
		for _, scanner := range scanners {
			if n := scanner(items); n > 0 {
				return n
			}
		}
		// fail
		return 0
	}
}

// Unit accepts a given sequence of characters, one after the other.
func Unit(chars ...rune) Scanner {
	return func(items []rune) uint {
		if len(items) < len(chars) {
			return 0
		}
		//
		for i := 0; i < len(chars); i++ {
			if items[i] != chars[i] {
				return 0
			}
		}
		// success
		return uint(len(chars))
	}
}

// Within accepts any character within a given (inclusive) range.
func Within(lowest rune, highest rune) Scanner {
	return func(items []rune) uint {
		if len(items) != 0 && lowest <= items[0] && items[0] <= highest {
			return 1
		}
		// fail
		return 0
	}
}

// Many matches zero or more repetitions of a given scanner.
func Many(acceptor Scanner) Scanner {
	return func(items []rune) uint {
		index := uint(0)
		//
		for index < uint(len(items)) {
			n := acceptor(items[index:])
			if n == 0 {
				break
			}
			//
			index += n
		}
		// done
		return index
	}
}

// OneOrMore matches one or more repetitions of a given scanner.
func OneOrMore(acceptor Scanner) Scanner {
	many := Many(acceptor)
	//
	return func(items []rune) uint {
		if acceptor(items) == 0 {
			return 0
		}
		//
		return many(items)
	}
}

// Sequence matches all the scanners in order, with each scanner starting
// directly after the previous one ends.
func Sequence(scanners ...Scanner) Scanner {
	return func(items []rune) uint {
		n := uint(0)
		//
		for _, scanner := range scanners {
			m := scanner(items[n:])
			if m == 0 {
				return 0
			}
			//
			n += m
		}

		return n
	}
}
