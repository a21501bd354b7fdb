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
package grammar

import (
	"fmt"
	"strings"

	"github.com/consensys/go-cpl/pkg/compose"
	"github.com/consensys/go-cpl/pkg/disambig"
	"github.com/consensys/go-cpl/pkg/forest"
	"github.com/consensys/go-cpl/pkg/semantic/term"
	"github.com/consensys/go-cpl/pkg/semantic/types"
)

// Spec is the YAML representation of a fixture.
type Spec struct {
	Name       string          `yaml:"name"`
	Lexicon    []EntrySpec     `yaml:"lexicon"`
	Rules      []RuleSpec      `yaml:"rules"`
	Frames     []FrameSpec     `yaml:"frames,omitempty"`
	Utterances []UtteranceSpec `yaml:"utterances,omitempty"`
}

// EntrySpec describes a word, its candidate types and (optionally) its term.
// Without a term, a word is a constant of its first candidate type.
type EntrySpec struct {
	Word  string     `yaml:"word"`
	Token string     `yaml:"token,omitempty"`
	Types []TypeSpec `yaml:"types"`
	Term  *TermSpec  `yaml:"term,omitempty"`
}

// TypeSpec is a candidate type with its confidence (which defaults to 1).
type TypeSpec struct {
	Type       string   `yaml:"type"`
	Confidence *float64 `yaml:"confidence,omitempty"`
}

// TermSpec describes the lexical term of a word.  At most one of event,
// determiner, degree, relation, constraint and negation may be given.  The
// type, when given, is the parameter type of determiners, relations and
// constraints, or the type of a constant.
type TermSpec struct {
	Constant   string      `yaml:"constant,omitempty"`
	Type       string      `yaml:"type,omitempty"`
	Event      *EventSpec  `yaml:"event,omitempty"`
	Determiner string      `yaml:"determiner,omitempty"`
	Degree     *DegreeSpec `yaml:"degree,omitempty"`
	Relation   string      `yaml:"relation,omitempty"`
	Constraint string      `yaml:"constraint,omitempty"`
	Negation   bool        `yaml:"negation,omitempty"`
}

// EventSpec describes an event whose roles are filled, in order, by the
// arguments it is applied to.
type EventSpec struct {
	Predicate string      `yaml:"predicate"`
	Category  string      `yaml:"category,omitempty"`
	Goal      bool        `yaml:"goal,omitempty"`
	Params    []ParamSpec `yaml:"params,omitempty"`
}

// ParamSpec is a role of an event, along with the type of its filler.
type ParamSpec struct {
	Role string `yaml:"role"`
	Type string `yaml:"type"`
}

// DegreeSpec describes a degree along an axis.
type DegreeSpec struct {
	Axis      string `yaml:"axis"`
	Direction string `yaml:"direction,omitempty"`
	Amount    string `yaml:"amount,omitempty"`
}

// RuleSpec describes a grammar rule.
type RuleSpec struct {
	Name     string   `yaml:"name"`
	Strategy string   `yaml:"strategy"`
	Result   string   `yaml:"result,omitempty"`
	Roles    []string `yaml:"roles,omitempty"`
}

// FrameSpec gives the type expected by a verb for one of its roles.
type FrameSpec struct {
	Verb     string `yaml:"verb"`
	Role     string `yaml:"role"`
	Type     string `yaml:"type"`
	Hardness string `yaml:"hardness,omitempty"`
}

// ExpectSpec gives the type expected of an utterance.
type ExpectSpec struct {
	Type     string `yaml:"type"`
	Hardness string `yaml:"hardness,omitempty"`
}

// UtteranceSpec describes an example utterance and its parse forest.
type UtteranceSpec struct {
	Text   string      `yaml:"text"`
	Expect *ExpectSpec `yaml:"expect,omitempty"`
	Forest NodeSpec    `yaml:"forest"`
}

// NodeSpec describes a forest node, which is either a word, a rule applied to
// children or a set of alternatives.
type NodeSpec struct {
	Word         string     `yaml:"word,omitempty"`
	Token        string     `yaml:"token,omitempty"`
	Rule         string     `yaml:"rule,omitempty"`
	Children     []NodeSpec `yaml:"children,omitempty"`
	Alternatives []NodeSpec `yaml:"alternatives,omitempty"`
}

// ============================================================================
// Compilation
// ============================================================================

func compile(spec *Spec) (*Fixture, error) {
	fixture := &Fixture{
		Name:    spec.Name,
		lexicon: make(map[string][]lexeme),
		rules:   make(map[string]rule),
		frames:  make(map[string]disambig.ExpectedType),
	}
	//
	for _, e := range spec.Lexicon {
		lx, err := compileEntry(e)
		if err != nil {
			return nil, fmt.Errorf("word \"%s\": %w", e.Word, err)
		}
		//
		word := strings.ToLower(e.Word)
		fixture.lexicon[word] = append(fixture.lexicon[word], lx)
	}
	//
	for _, r := range spec.Rules {
		if _, ok := fixture.rules[r.Name]; ok {
			return nil, fmt.Errorf("rule %s: duplicate rule", r.Name)
		}
		//
		compiled, err := compileRule(r)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.Name, err)
		}
		//
		fixture.rules[r.Name] = compiled
	}
	//
	for _, f := range spec.Frames {
		expected, err := compileExpectation(f.Type, f.Hardness, frameKey(f.Verb, f.Role))
		if err != nil {
			return nil, fmt.Errorf("frame %s.%s: %w", f.Verb, f.Role, err)
		}
		//
		fixture.frames[frameKey(f.Verb, f.Role)] = *expected
	}
	//
	for i, u := range spec.Utterances {
		utterance, err := fixture.compileUtterance(u)
		if err != nil {
			return nil, fmt.Errorf("utterance %d (%s): %w", i, u.Text, err)
		}
		//
		fixture.Utterances = append(fixture.Utterances, utterance)
	}
	//
	return fixture, nil
}

func compileEntry(e EntrySpec) (lexeme, error) {
	lx := lexeme{token: e.Token, term: e.Term}
	//
	for _, t := range e.Types {
		datatype, err := types.Parse(t.Type)
		if err != nil {
			return lx, err
		}
		//
		confidence := 1.0
		//
		if t.Confidence != nil {
			confidence = *t.Confidence
		}
		//
		lx.candidates = append(lx.candidates, types.NewCandidate(datatype, confidence))
	}
	//
	if len(lx.candidates) == 0 {
		return lx, fmt.Errorf("no types")
	} else if err := lx.compileTerm(); err != nil {
		return lx, err
	}
	// Sanity check the term against the first candidate
	t := lx.build(term.NewArena(), e.Word)
	//
	if !types.Unify(lx.candidates[0].Type, t.Type()).Ok {
		return lx, fmt.Errorf("term %s has type %s, but expected %s", t, t.Type(), lx.candidates[0].Type)
	}
	//
	return lx, nil
}

func compileRule(r RuleSpec) (rule, error) {
	var (
		compiled rule
		err      error
	)
	//
	if compiled.strategy, err = compose.ParseStrategy(r.Strategy); err != nil {
		return compiled, err
	}
	//
	if r.Result != "" {
		if compiled.result, err = types.Parse(r.Result); err != nil {
			return compiled, err
		}
	}
	//
	compiled.roles = r.Roles
	//
	return compiled, nil
}

func compileExpectation(datatype string, hardness string, source string) (*disambig.ExpectedType, error) {
	t, err := types.Parse(datatype)
	if err != nil {
		return nil, err
	}
	//
	h, err := disambig.ParseHardness(hardness)
	if err != nil {
		return nil, err
	}
	//
	return &disambig.ExpectedType{Type: t, Hardness: h, Source: source}, nil
}

func (p *Fixture) compileUtterance(u UtteranceSpec) (Utterance, error) {
	var (
		utterance = Utterance{Text: u.Text}
		builder   = forestBuilder{rules: p.rules}
		err       error
	)
	//
	if u.Expect != nil {
		if utterance.Expected, err = compileExpectation(u.Expect.Type, u.Expect.Hardness, "utterance"); err != nil {
			return utterance, err
		}
	}
	//
	utterance.Forest, err = builder.build(u.Forest)
	//
	return utterance, err
}

// ============================================================================
// Forests
// ============================================================================

// Construct forest nodes from their specs, numbering nodes in pre-order and
// leaves from left to right.
type forestBuilder struct {
	rules  map[string]rule
	nodes  uint
	leaves uint
}

func (p *forestBuilder) build(spec NodeSpec) (forest.Node, error) {
	id := fmt.Sprintf("n%d", p.nodes)
	p.nodes++
	//
	switch {
	case spec.Word != "":
		leaf := forest.NewLeaf(id, spec.Word, spec.Token, p.leaves)
		p.leaves++
		//
		return leaf, nil
	case spec.Rule != "":
		if _, ok := p.rules[spec.Rule]; !ok {
			return nil, fmt.Errorf("node %s has unknown rule %s", id, spec.Rule)
		}
		//
		children, err := p.buildAll(spec.Children)
		if err != nil {
			return nil, err
		}
		//
		return forest.NewAndNode(id, spec.Rule, children...), nil
	case len(spec.Alternatives) > 0:
		// Alternatives span the same words
		start, end := p.leaves, p.leaves
		alternatives := make([]forest.Node, len(spec.Alternatives))
		//
		for i, alt := range spec.Alternatives {
			p.leaves = start
			//
			node, err := p.build(alt)
			if err != nil {
				return nil, err
			}
			//
			alternatives[i] = node
			end = max(end, p.leaves)
		}
		//
		p.leaves = end
		//
		return forest.NewOrNode(id, alternatives...), nil
	}
	//
	return nil, fmt.Errorf("node %s is neither a word, a rule nor a set of alternatives", id)
}

func (p *forestBuilder) buildAll(specs []NodeSpec) ([]forest.Node, error) {
	nodes := make([]forest.Node, len(specs))
	//
	for i, spec := range specs {
		node, err := p.build(spec)
		if err != nil {
			return nil, err
		}
		//
		nodes[i] = node
	}
	//
	return nodes, nil
}
