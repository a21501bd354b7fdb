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

import (
	"slices"
	"testing"

	"github.com/consensys/go-cpl/pkg/util/source"
)

func TestLexer_00(t *testing.T) {
	checkLexer(t, "", -1)
}

func TestLexer_01(t *testing.T) {
	checkLexer(t, "<", -1, Token{LANGLE, source.NewSpan(0, 1)})
}

func TestLexer_02(t *testing.T) {
	checkLexer(t, "<>", -1,
		Token{LANGLE, source.NewSpan(0, 1)},
		Token{RANGLE, source.NewSpan(1, 2)})
}

func TestLexer_03(t *testing.T) {
	checkLexer(t, "#", 0)
}

func TestLexer_04(t *testing.T) {
	checkLexer(t, "< >", -1,
		Token{LANGLE, source.NewSpan(0, 1)},
		Token{RANGLE, source.NewSpan(2, 3)})
}

func TestLexer_05(t *testing.T) {
	checkLexer(t, "<e,t>", -1,
		Token{LANGLE, source.NewSpan(0, 1)},
		Token{IDENT, source.NewSpan(1, 2)},
		Token{COMMA, source.NewSpan(2, 3)},
		Token{IDENT, source.NewSpan(3, 4)},
		Token{RANGLE, source.NewSpan(4, 5)})
}

func TestLexer_06(t *testing.T) {
	checkLexer(t, "event_set", -1, Token{IDENT, source.NewSpan(0, 9)})
}

func TestLexer_07(t *testing.T) {
	checkLexer(t, "e # t", 2, Token{IDENT, source.NewSpan(0, 1)})
}

// ==================================================================
// Framework
// ==================================================================

const WSPACE uint = 0
const LANGLE uint = 1
const RANGLE uint = 2
const COMMA uint = 3
const IDENT uint = 4

var rules []Rule = []Rule{
	NewRule(OneOrMore(Unit(' ')), WSPACE),
	NewRule(Unit('<'), LANGLE),
	NewRule(Unit('>'), RANGLE),
	NewRule(Unit(','), COMMA),
	NewRule(OneOrMore(Or(Within('a', 'z'), Unit('_'))), IDENT),
}

func checkLexer(t *testing.T, input string, stuck int, expected ...Token) {
	lexer := NewLexer(input, WSPACE, rules...)
	tokens, index := lexer.Collect()
	//
	if index != stuck {
		t.Errorf("expected lexer to stop at %d, got %d", stuck, index)
	} else if !slices.Equal(tokens, expected) {
		t.Errorf("expected %v, got %v", expected, tokens)
	}
}
