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

import "github.com/consensys/go-cpl/pkg/util/source"

// Token associates a tag with a given range of characters in the string being
// scanned.
type Token struct {
	Kind uint
	Span source.Span
}

// Rule associates groups of characters matched by a scanner with a given tag.
type Rule struct {
	scanner Scanner
	tag     uint
}

// NewRule constructs a new lexing rule which maps matching characters to a
// given tag.
func NewRule(scanner Scanner, tag uint) Rule {
	return Rule{scanner, tag}
}

// Lexer tokenises a string of runes using a fixed list of rules.  Rules are
// tried in order, and the first which matches determines the token produced.
// Characters matched by a "skip" tag are consumed but never reported.
type Lexer struct {
	items  []rune
	index  int
	rules  []Rule
	skip   uint
	buffer []Token
}

// NewLexer constructs a new lexer for a given input string.  Tokens whose kind
// matches skip are silently dropped (e.g. whitespace).
func NewLexer(input string, skip uint, rules ...Rule) *Lexer {
	return &Lexer{[]rune(input), 0, rules, skip, nil}
}

// Text returns the runes being tokenised.
func (p *Lexer) Text() []rune {
	return p.items
}

// Index returns the current index within the input.
func (p *Lexer) Index() int {
	return p.index
}

// HasNext checks whether or not there are any tokens remaining.
func (p *Lexer) HasNext() bool {
	p.scan()
	return len(p.buffer) > 0
}

// Next returns the next token and advances the lexer.
func (p *Lexer) Next() Token {
	next := p.buffer[0]
	p.buffer = p.buffer[1:]
	//
	return next
}

// Collect tokenises the remainder of the input in one go.  If some character
// cannot be matched by any rule, then the index of that character is returned
// alongside the tokens matched so far.
func (p *Lexer) Collect() ([]Token, int) {
	var tokens []Token
	//
	for p.HasNext() {
		tokens = append(tokens, p.Next())
	}
	// Check whether everything was consumed
	if p.index < len(p.items) {
		return tokens, p.index
	}
	//
	return tokens, -1
}

func (p *Lexer) scan() {
	for len(p.buffer) == 0 && p.index < len(p.items) {
		matched := false
		//
		for _, r := range p.rules {
			if n := r.scanner(p.items[p.index:]); n > 0 {
				end := min(len(p.items), p.index+int(n))
				span := source.NewSpan(p.index, end)
				p.index = end
				matched = true
				// Drop skipped tokens
				if r.tag != p.skip {
					p.buffer = append(p.buffer, Token{r.tag, span})
				}

				break
			}
		}
		// Stuck on an unknown character
		if !matched {
			return
		}
	}
}
