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

	"github.com/consensys/go-cpl/pkg/util/source"
	"github.com/consensys/go-cpl/pkg/util/source/lex"
)

const (
	tkWSPACE uint = iota
	tkIDENT
	tkLANGLE
	tkRANGLE
	tkLPAREN
	tkRPAREN
	tkLSQUARE
	tkRSQUARE
	tkCOMMA
	tkSTAR
	tkQUESTION
	tkEOF
)

var typeRules = []lex.Rule{
	lex.NewRule(lex.OneOrMore(lex.Or(lex.Unit(' '), lex.Unit('\t'))), tkWSPACE),
	lex.NewRule(lex.OneOrMore(lex.Or(lex.Within('a', 'z'), lex.Within('A', 'Z'), lex.Unit('_'))), tkIDENT),
	lex.NewRule(lex.Unit('<'), tkLANGLE),
	lex.NewRule(lex.Unit('>'), tkRANGLE),
	lex.NewRule(lex.Unit('('), tkLPAREN),
	lex.NewRule(lex.Unit(')'), tkRPAREN),
	lex.NewRule(lex.Unit('['), tkLSQUARE),
	lex.NewRule(lex.Unit(']'), tkRSQUARE),
	lex.NewRule(lex.Unit(','), tkCOMMA),
	lex.NewRule(lex.Unit('*'), tkSTAR),
	lex.NewRule(lex.Unit('?'), tkQUESTION),
}

// Parse a type written in the notation produced by String().  For example,
// "<e<layer>,<axis,act>>" is a curried function from a layer and an axis to a
// goal, "?e" is a hole expecting an entity and "(e*deg)" is a product.  Long
// names (entity, truth, event, degree, action, constraint) are also accepted.
func Parse(text string) (Type, error) {
	lexer := lex.NewLexer(text, tkWSPACE, typeRules...)
	tokens, stuck := lexer.Collect()
	//
	if stuck >= 0 {
		return nil, source.NewError(text, source.NewSpan(stuck, stuck+1), "unknown character")
	}
	// Add sentinel
	end := len(lexer.Text())
	tokens = append(tokens, lex.Token{Kind: tkEOF, Span: source.NewSpan(end, end)})
	//
	p := typeParser{text, lexer.Text(), tokens, 0}
	//
	t, err := p.parseType()
	if err != nil {
		return nil, err
	} else if p.lookahead().Kind != tkEOF {
		return nil, p.errorAt(p.lookahead(), "unexpected trailing input")
	}
	//
	return t, nil
}

// MustParse parses a type, panicking if this fails.  This is intended only for
// types written as literals in source code.
func MustParse(text string) Type {
	t, err := Parse(text)
	if err != nil {
		panic(err.Error())
	}
	//
	return t
}

type typeParser struct {
	text   string
	runes  []rune
	tokens []lex.Token
	index  int
}

func (p *typeParser) lookahead() lex.Token {
	return p.tokens[p.index]
}

func (p *typeParser) advance() lex.Token {
	token := p.tokens[p.index]
	// Never advance beyond the sentinel
	if token.Kind != tkEOF {
		p.index++
	}
	//
	return token
}

func (p *typeParser) expect(kind uint, what string) (lex.Token, error) {
	token := p.advance()
	//
	if token.Kind != kind {
		return token, p.errorAt(token, fmt.Sprintf("expected %s", what))
	}
	//
	return token, nil
}

func (p *typeParser) errorAt(token lex.Token, msg string) error {
	return source.NewError(p.text, token.Span, msg)
}

func (p *typeParser) parseType() (Type, error) {
	token := p.advance()
	//
	switch token.Kind {
	case tkQUESTION:
		return p.parseHole()
	case tkLSQUARE:
		return p.parseList()
	case tkLANGLE:
		return p.parseBinary(tkCOMMA, ",", tkRANGLE, ">", func(l, r Type) Type { return NewFunctionType(l, r) })
	case tkLPAREN:
		return p.parseBinary(tkSTAR, "*", tkRPAREN, ")", func(l, r Type) Type { return NewProductType(l, r) })
	case tkIDENT:
		return p.parseNamed(token)
	default:
		return nil, p.errorAt(token, "expected type")
	}
}

func (p *typeParser) parseHole() (Type, error) {
	switch p.lookahead().Kind {
	case tkCOMMA, tkRANGLE, tkRPAREN, tkRSQUARE, tkSTAR, tkEOF:
		return NewHoleType(nil), nil
	}
	//
	expected, err := p.parseType()
	if err != nil {
		return nil, err
	}
	//
	return NewHoleType(expected), nil
}

func (p *typeParser) parseList() (Type, error) {
	element, err := p.parseType()
	if err != nil {
		return nil, err
	} else if _, err = p.expect(tkRSQUARE, "]"); err != nil {
		return nil, err
	}
	//
	return NewListType(element), nil
}

func (p *typeParser) parseBinary(sep uint, sepName string, closer uint, closerName string,
	build func(Type, Type) Type) (Type, error) {
	lhs, err := p.parseType()
	if err != nil {
		return nil, err
	} else if _, err = p.expect(sep, sepName); err != nil {
		return nil, err
	}
	//
	rhs, err := p.parseType()
	if err != nil {
		return nil, err
	} else if _, err = p.expect(closer, closerName); err != nil {
		return nil, err
	}
	//
	return build(lhs, rhs), nil
}

func (p *typeParser) parseNamed(token lex.Token) (Type, error) {
	name := token.Span.Of(p.runes)
	//
	switch name {
	case "e", "entity":
		refinement, err := p.parseRefinement()
		return NewEntityType(refinement), err
	case "v", "event":
		refinement, err := p.parseRefinement()
		return NewEventType(refinement), err
	case "t", "truth":
		return Truth, nil
	case "axis":
		return Axis, nil
	case "deg", "degree":
		return Degree, nil
	case "scope":
		return Scope, nil
	case "act", "action", "goal":
		return Action, nil
	case "cstr", "constraint":
		return Constraint, nil
	default:
		return nil, p.errorAt(token, fmt.Sprintf("unknown type \"%s\"", name))
	}
}

// Parse an optional "<subtype>" refinement.  A '<' directly after an entity or
// event name always starts a refinement, since a type is never followed by a
// function type.
func (p *typeParser) parseRefinement() (string, error) {
	if p.lookahead().Kind != tkLANGLE {
		return "", nil
	}
	// Consume '<'
	p.advance()
	//
	token, err := p.expect(tkIDENT, "subtype")
	if err != nil {
		return "", err
	} else if _, err = p.expect(tkRANGLE, ">"); err != nil {
		return "", err
	}
	//
	return token.Span.Of(p.runes), nil
}
