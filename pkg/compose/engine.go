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
package compose

import (
	"fmt"
	"strings"

	"github.com/consensys/go-cpl/pkg/forest"
	"github.com/consensys/go-cpl/pkg/semantic/term"
	"github.com/consensys/go-cpl/pkg/semantic/types"
)

// DefaultMaxDepth is the default bound on the depth of composition (and on the
// number of beta reduction steps taken when normalising a term).
const DefaultMaxDepth uint = 100

// Config determines the bounds used during composition.
type Config struct {
	// MaxDepth bounds the depth of forest which will be composed.  Subtrees
	// beyond this depth are not composed.  It also bounds the number of beta
	// reduction steps taken for each application.
	MaxDepth uint
}

// DefaultConfig returns the default composition configuration.
func DefaultConfig() Config {
	return Config{DefaultMaxDepth}
}

// LexicalTerms provides the lexical term for a given word.  This is supplied by
// the grammar.  The arena is provided so that any bound variables within the
// term can be given fresh names.
type LexicalTerms interface {
	Term(arena *term.Arena, text string, tokenType string) (term.Term, bool)
}

// TraceEntry records a single composition step.
type TraceEntry struct {
	NodeID   string
	Rule     string
	Strategy string
	Children []string
	Result   string
}

func (p TraceEntry) String() string {
	return fmt.Sprintf("%s %s [%s] (%s) => %s", p.NodeID, p.Rule, p.Strategy, strings.Join(p.Children, "; "), p.Result)
}

// Composition is the outcome of composing a rule or a forest.  The term may be
// nil if nothing could be composed (e.g. the depth bound was exceeded at the
// root).
type Composition struct {
	Term     term.Term
	Trace    []TraceEntry
	Warnings []string
}

// Engine composes the terms of child constituents into terms for their parents,
// according to the strategy of the rule which joins them.  An engine never
// fails outright: when a strategy is missing or fails, it falls back to a
// default composition and records a warning.  An engine holds no mutable state
// and can be shared between goroutines.
type Engine struct {
	strategies StrategyTable
	lexicon    LexicalTerms
	hooks      map[string]Hook
	config     Config
}

// NewEngine constructs a new composition engine for a given grammar.
func NewEngine(strategies StrategyTable, lexicon LexicalTerms, config Config) *Engine {
	return &Engine{strategies, lexicon, make(map[string]Hook), config}
}

// WithHook returns a copy of this engine where a given rule is composed using a
// given hook, rather than its strategy.
func (p *Engine) WithHook(rule string, hook Hook) *Engine {
	hooks := make(map[string]Hook, len(p.hooks)+1)
	//
	for r, h := range p.hooks {
		hooks[r] = h
	}
	//
	hooks[rule] = hook
	//
	return &Engine{p.strategies, p.lexicon, hooks, p.config}
}

// ComposeRule composes the given child terms for a single node labelled with a
// given rule.
func (p *Engine) ComposeRule(arena *term.Arena, nodeID string, rule string, children []term.Term) Composition {
	c := composer{p, arena, nil, nil, nil}
	t := c.composeRule(nodeID, rule, children)
	//
	return Composition{t, c.trace, c.warnings}
}

// Compose a parse forest bottom up.  Leaves are given their lexical terms, and
// and-nodes are composed using the strategy of their rule.  Where an or-node
// has more than one alternative, only the first is composed.  Thus, forests
// should be disambiguated (which orders alternatives best first) beforehand.
func (p *Engine) Compose(arena *term.Arena, root forest.Node) Composition {
	return p.ComposeTyped(arena, root, nil)
}

// ComposeTyped composes a parse forest as for Compose, except that lexical
// constants are given the types chosen for their leaves (e.g. by the
// disambiguator).  Choices are keyed by leaf id.
func (p *Engine) ComposeTyped(arena *term.Arena, root forest.Node, choices map[string]types.Type) Composition {
	c := composer{p, arena, choices, nil, nil}
	t := c.compose(root, 0)
	//
	return Composition{t, c.trace, c.warnings}
}

// ============================================================================
// Composer
// ============================================================================

// Composer holds the state accumulated whilst composing a single utterance.
type composer struct {
	engine   *Engine
	arena    *term.Arena
	choices  map[string]types.Type
	trace    []TraceEntry
	warnings []string
}

func (p *composer) compose(node forest.Node, depth uint) term.Term {
	if depth > p.engine.config.MaxDepth {
		p.warn("maximum composition depth (%d) exceeded at node %s", p.engine.config.MaxDepth, node.ID())
		return nil
	}
	//
	switch n := node.(type) {
	case *forest.Leaf:
		return p.composeLeaf(n)
	case *forest.OrNode:
		if len(n.Alternatives) == 0 {
			p.warn("node %s has no alternatives", n.NodeID)
			return nil
		} else if len(n.Alternatives) > 1 {
			p.warn("node %s remains ambiguous (%d alternatives), using first", n.NodeID, len(n.Alternatives))
		}
		//
		return p.compose(n.Alternatives[0], depth+1)
	case *forest.AndNode:
		var children []term.Term
		//
		for _, child := range n.Children {
			if t := p.compose(child, depth+1); t != nil {
				children = append(children, t)
			}
		}
		//
		return p.composeRule(n.NodeID, n.Rule, children)
	default:
		panic(fmt.Sprintf("unknown forest node (%T)", node))
	}
}

func (p *composer) composeLeaf(leaf *forest.Leaf) term.Term {
	t, ok := p.engine.lexicon.Term(p.arena, leaf.Text, leaf.TokenType)
	//
	if !ok {
		t = term.NewHole(p.arena.FreshHole(), p.choices[leaf.NodeID])
		p.warn("no lexical entry for \"%s\" (%s)", leaf.Text, leaf.TokenType)
	} else if c, ok := t.(*term.Constant); ok && p.choices[leaf.NodeID] != nil {
		t = term.NewConstant(c.Value, p.choices[leaf.NodeID])
	}
	//
	p.record(leaf.NodeID, leaf.TokenType, LEXICAL_INSERTION.String(), nil, t)
	//
	return t
}

func (p *composer) composeRule(nodeID string, rule string, children []term.Term) term.Term {
	if hook, ok := p.engine.hooks[rule]; ok {
		if t, err := invoke(hook, p.arena, children); err == nil {
			p.record(nodeID, rule, "hook", children, t)
			return t
		} else {
			p.warn("hook for rule %s failed at node %s: %s", rule, nodeID, err)
		}
	} else if strategy, ok := p.engine.strategies.Strategy(rule); ok {
		if t, err := invoke(strategy.BoundedHook(p.engine.config.MaxDepth), p.arena, children); err == nil {
			p.record(nodeID, rule, strategy.String(), children, t)
			return t
		} else {
			p.warn("%s failed for rule %s at node %s: %s", strategy.String(), rule, nodeID, err)
		}
	} else {
		p.warn("no strategy for rule %s at node %s", rule, nodeID)
	}
	//
	t, name := defaultComposition(reducer{p.engine.config.MaxDepth}, p.arena, children)
	p.record(nodeID, rule, "default:"+name, children, t)
	//
	return t
}

func (p *composer) record(nodeID string, rule string, strategy string, children []term.Term, result term.Term) {
	descriptions := make([]string, len(children))
	//
	for i, child := range children {
		descriptions[i] = child.String()
	}
	//
	entry := TraceEntry{nodeID, rule, strategy, descriptions, ""}
	//
	if result != nil {
		entry.Result = result.String()
	}
	//
	p.trace = append(p.trace, entry)
}

func (p *composer) warn(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

// Invoke a hook, converting any panic into an error.  A hook which returns
// neither a term nor an error is also considered to have failed.
func invoke(hook Hook, arena *term.Arena, children []term.Term) (t term.Term, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	//
	if t, err = hook(arena, children); err == nil && t == nil {
		err = fmt.Errorf("no term produced")
	}
	//
	return t, err
}

// ============================================================================
// Default composition
// ============================================================================

// Compose a set of children without reference to any strategy.  This always
// succeeds, except when there are no children.  The name of the approach taken
// is returned for inclusion in the trace.
func defaultComposition(r reducer, arena *term.Arena, children []term.Term) (term.Term, string) {
	switch len(children) {
	case 0:
		return nil, "empty"
	case 1:
		return children[0], "pass-through"
	case 2:
		return defaultPair(r, arena, children[0], children[1])
	}
	//
	if t, err := coordination(arena, children); err == nil {
		return t, "coordination"
	}
	//
	return term.NewList(children...), "list"
}

func defaultPair(r reducer, arena *term.Arena, lhs term.Term, rhs term.Term) (term.Term, string) {
	// (a) lambda application
	if _, ok := lhs.(*term.Abstraction); ok {
		if t, err := r.apply(arena, lhs, rhs, false); err == nil {
			return t, "application"
		}
	}
	//
	if _, ok := rhs.(*term.Abstraction); ok {
		if t, err := r.apply(arena, rhs, lhs, true); err == nil {
			return t, "application"
		}
	}
	// (b) thematic role filling
	if t, ok := fillPatient(lhs, rhs); ok {
		return t, "patient-role"
	} else if t, ok := fillPatient(rhs, lhs); ok {
		return t, "patient-role"
	}
	// (c) modifier attachment
	if t, err := modifierAttachment(arena, []term.Term{lhs, rhs}); err == nil {
		return t, "modifier-attachment"
	}
	// (d) give up
	return term.NewList(lhs, rhs), "list"
}

// Fill the patient role of an event with an entity, provided it is not already
// filled.
func fillPatient(event term.Term, entity term.Term) (term.Term, bool) {
	ev, ok := event.(*term.Event)
	//
	if !ok || entity.Type().Kind() != types.ENTITY || ev.Role(term.PATIENT) != nil {
		return nil, false
	}
	//
	return ev.WithRole(term.PATIENT, entity), true
}
