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
package disambig

import (
	"fmt"
	"slices"

	"github.com/consensys/go-cpl/pkg/forest"
	"github.com/consensys/go-cpl/pkg/semantic/types"
)

// DefaultSoftDemotion is the default factor by which the confidence of a
// candidate is reduced when it fails to meet a soft expectation.
const DefaultSoftDemotion = 0.3

// DefaultMaxDepth is the default bound on the depth of forest which will be
// disambiguated.
const DefaultMaxDepth uint = 100

// Config determines the bounds and factors used during disambiguation.
type Config struct {
	MaxDepth     uint
	SoftDemotion float64
}

// DefaultConfig returns the default disambiguation configuration.
func DefaultConfig() Config {
	return Config{DefaultMaxDepth, DefaultSoftDemotion}
}

// Decision records the fate of a single candidate (for a leaf) or alternative
// (for an or-node) considered during disambiguation.
type Decision struct {
	NodeID      string
	Alternative int
	Pruned      bool
	Reason      string
}

func (p Decision) String() string {
	verdict := "kept"
	//
	if p.Pruned {
		verdict = "pruned"
	}
	//
	return fmt.Sprintf("%s#%d %s: %s", p.NodeID, p.Alternative, verdict, p.Reason)
}

// Result is the outcome of disambiguating a forest.
type Result struct {
	// Candidates holds the surviving types of the root, best first.
	Candidates []types.Scored
	// Resolved indicates at most one type survived.
	Resolved bool
	// Decisions records every candidate and alternative considered.
	Decisions []Decision
	// Warnings records anything unexpected (e.g. unknown words).
	Warnings []string
	// Forest is the pruned forest, where surviving or-node alternatives are
	// ordered best first.
	Forest forest.Node
	// Choices maps the id of each typed leaf to its best surviving type.
	Choices map[string]types.Type
}

// Types returns the surviving types of the root, best first.
func (p *Result) Types() []types.Type {
	ts := make([]types.Type, len(p.Candidates))
	//
	for i, c := range p.Candidates {
		ts[i] = c.Type
	}
	//
	return ts
}

// Disambiguator prunes a parse forest using types.  Candidate types for each
// word come from the lexicon, and are combined using the grammar.  Verbs
// constrain the types of their arguments through their frames.  A
// disambiguator holds no mutable state and can be shared between goroutines.
type Disambiguator struct {
	lexicon Lexicon
	grammar Grammar
	frames  VerbFrames
	config  Config
}

// New constructs a disambiguator for a given grammar.
func New(lexicon Lexicon, grammar Grammar, frames VerbFrames, config Config) *Disambiguator {
	return &Disambiguator{lexicon, grammar, frames, config}
}

// Disambiguate a parse forest, optionally against an expected type for the
// root.
func (p *Disambiguator) Disambiguate(root forest.Node, expected *ExpectedType) Result {
	r := resolver{p, nil, nil, make(map[string]types.Type)}
	o := r.resolve(root, expected, 0)
	//
	return Result{
		Candidates: o.candidates,
		Resolved:   len(o.candidates) <= 1,
		Decisions:  r.decisions,
		Warnings:   r.warnings,
		Forest:     o.node,
		Choices:    r.choices,
	}
}

// ============================================================================
// Resolver
// ============================================================================

// Outcome of resolving a single node.
type outcome struct {
	// candidate types (best first)
	candidates []types.Scored
	// pruned node
	node forest.Node
	// head word (if any)
	head string
}

// Whether some candidate of this outcome fits its expectation.
func (p *outcome) fits() bool {
	for _, c := range p.candidates {
		if c.Fit > 0 {
			return true
		}
	}
	//
	return false
}

func (p *outcome) best() float64 {
	if len(p.candidates) == 0 {
		return 0
	}
	//
	return p.candidates[0].Score
}

// Resolver holds the state accumulated whilst disambiguating a single forest.
type resolver struct {
	*Disambiguator
	decisions []Decision
	warnings  []string
	choices   map[string]types.Type
}

func (p *resolver) resolve(node forest.Node, expected *ExpectedType, depth uint) outcome {
	if depth > p.config.MaxDepth {
		p.warn("maximum disambiguation depth (%d) exceeded at node %s", p.config.MaxDepth, node.ID())
		return outcome{nil, node, ""}
	}
	//
	switch n := node.(type) {
	case *forest.Leaf:
		return p.resolveLeaf(n, expected)
	case *forest.AndNode:
		return p.resolveAnd(n, expected, depth)
	case *forest.OrNode:
		return p.resolveOr(n, expected, depth)
	default:
		panic(fmt.Sprintf("unknown forest node (%T)", node))
	}
}

func (p *resolver) resolveLeaf(leaf *forest.Leaf, expected *ExpectedType) outcome {
	candidates := p.lexicon.Types(leaf.Text, leaf.TokenType)
	//
	if len(candidates) == 0 {
		p.warn("no types for \"%s\" (%s)", leaf.Text, leaf.TokenType)
	}
	//
	filtered := p.filter(leaf.NodeID, candidates, expected)
	//
	if len(filtered) > 0 {
		p.choices[leaf.NodeID] = filtered[0].Type
	}
	//
	return outcome{filtered, leaf, leaf.Text}
}

func (p *resolver) resolveAnd(node *forest.AndNode, expected *ExpectedType, depth uint) outcome {
	var (
		heads    []string
		children = make([]forest.Node, len(node.Children))
		best     = make([]types.Type, 0, len(node.Children))
		score    = 1.0
		head     string
	)
	//
	for i, child := range node.Children {
		o := p.resolve(child, p.expectation(node.Rule, i, heads, expected), depth+1)
		children[i] = o.node
		heads = append(heads, o.head)
		//
		if head == "" {
			head = o.head
		}
		//
		if len(o.candidates) > 0 {
			best = append(best, o.candidates[0].Type)
			score *= o.candidates[0].Score
		}
	}
	//
	pruned := forest.NewAndNode(node.NodeID, node.Rule, children...)
	//
	if len(best) != len(children) {
		p.decide(node.NodeID, 0, true, "some child has no type")
		return outcome{nil, pruned, head}
	}
	//
	datatype, ok := p.grammar.Combine(node.Rule, best)
	//
	if !ok {
		p.decide(node.NodeID, 0, true, fmt.Sprintf("rule %s cannot combine %v", node.Rule, best))
		return outcome{nil, pruned, head}
	}
	//
	candidates := []types.Candidate{types.NewCandidate(datatype, score)}
	//
	return outcome{p.filter(node.NodeID, candidates, expected), pruned, head}
}

// Resolve an or-node by disambiguating each alternative under the same
// expectation.  Alternatives with a fitting type survive, and the rest are then
// pruned.  When no alternative fits, the outcome depends on the expectation: a
// HARD expectation prunes every alternative, whereas SOFT and DEFAULT ones keep
// them all (demoted) rather than leave nothing to compose.  Untyped alternatives
// are pruned whenever a sibling has a type, including when there is no
// expectation at all.  Survivors are ordered best first.
func (p *resolver) resolveOr(node *forest.OrNode, expected *ExpectedType, depth uint) outcome {
	var (
		outcomes = make([]outcome, len(node.Alternatives))
		anyFit   = false
		anyTyped = false
		hard     = expected != nil && expected.Hardness == HARD
	)
	//
	for i, alt := range node.Alternatives {
		outcomes[i] = p.resolve(alt, expected, depth+1)
		anyFit = anyFit || outcomes[i].fits()
		anyTyped = anyTyped || len(outcomes[i].candidates) > 0
	}
	//
	var survivors []int
	//
	for i, o := range outcomes {
		typed := len(o.candidates) > 0
		//
		switch {
		case o.fits():
			p.decide(node.NodeID, i, false, "some type fits")
		case anyFit:
			p.decide(node.NodeID, i, true, "no type fits, but an alternative does")
			continue
		case hard:
			p.decide(node.NodeID, i, true, "no type fits "+expected.String())
			continue
		case !typed && anyTyped:
			p.decide(node.NodeID, i, true, "no type, but an alternative has one")
			continue
		default:
			p.decide(node.NodeID, i, false, "no alternative fits")
		}
		//
		survivors = append(survivors, i)
	}
	// Best alternative first
	slices.SortStableFunc(survivors, func(l, r int) int {
		return compareScores(outcomes[l].best(), outcomes[r].best())
	})
	//
	var (
		alternatives []forest.Node
		candidates   []types.Scored
		head         string
	)
	//
	for _, i := range survivors {
		alternatives = append(alternatives, outcomes[i].node)
		candidates = mergeCandidates(candidates, outcomes[i].candidates)
		//
		if head == "" {
			head = outcomes[i].head
		}
	}
	//
	sortScored(candidates)
	//
	return outcome{candidates, forest.NewOrNode(node.NodeID, alternatives...), head}
}

// Determine the expected type of the ith child of a rule.  This arises when the
// child plays a role in the rule, and some word to its left has a frame for
// that role.  The nearest such word wins.  The head of a rule inherits the
// expectation of the rule itself.
func (p *resolver) expectation(rule string, index int, left []string, parent *ExpectedType) *ExpectedType {
	role, ok := p.grammar.ChildRole(rule, index)
	//
	if !ok {
		return nil
	} else if role == HEAD {
		return parent
	}
	//
	for i := len(left) - 1; i >= 0; i-- {
		if left[i] == "" {
			continue
		} else if e, ok := p.frames.Expect(left[i], role); ok {
			return &e
		}
	}
	//
	return nil
}

// Filter candidates against an expected type, recording a decision for each.
// The survivors are returned best first.
func (p *resolver) filter(nodeID string, candidates []types.Candidate, expected *ExpectedType) []types.Scored {
	if expected == nil {
		for i := range candidates {
			p.decide(nodeID, i, false, "no expectation")
		}
		//
		return types.Rank(candidates, nil)
	}
	//
	var kept []types.Scored
	//
	for i, c := range candidates {
		u := types.Unify(expected.Type, c.Type)
		//
		switch {
		case u.Ok:
			kept = append(kept, types.Scored{Candidate: c, Fit: u.Fit, Score: c.Confidence * u.Fit})
			p.decide(nodeID, i, false, fmt.Sprintf("%s fits %s (%.2f)", c.Type, expected.Type, u.Fit))
		case expected.Hardness == HARD:
			p.decide(nodeID, i, true, fmt.Sprintf("%s does not fit %s", c.Type, expected))
		case expected.Hardness == SOFT:
			kept = append(kept, types.Scored{Candidate: c, Fit: 0, Score: c.Confidence * p.config.SoftDemotion})
			p.decide(nodeID, i, false, fmt.Sprintf("%s demoted against %s", c.Type, expected))
		default:
			kept = append(kept, types.Scored{Candidate: c, Fit: 0, Score: 0})
			p.decide(nodeID, i, false, fmt.Sprintf("%s ranked after %s", c.Type, expected))
		}
	}
	//
	sortScored(kept)
	//
	return kept
}

func (p *resolver) decide(nodeID string, alternative int, pruned bool, reason string) {
	p.decisions = append(p.decisions, Decision{nodeID, alternative, pruned, reason})
}

func (p *resolver) warn(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

// ============================================================================
// Helpers
// ============================================================================

// Merge candidates into an existing set, such that each type occurs at most
// once (with its highest score).
func mergeCandidates(into []types.Scored, from []types.Scored) []types.Scored {
	for _, c := range from {
		index := slices.IndexFunc(into, func(o types.Scored) bool { return types.Equal(o.Type, c.Type) })
		//
		if index < 0 {
			into = append(into, c)
		} else if into[index].Score < c.Score {
			into[index] = c
		}
	}
	//
	return into
}

func sortScored(candidates []types.Scored) {
	slices.SortStableFunc(candidates, func(l, r types.Scored) int {
		return compareScores(l.Score, r.Score)
	})
}

// Compare scores so that higher scores come first.
func compareScores(l float64, r float64) int {
	switch {
	case l > r:
		return -1
	case l < r:
		return 1
	}
	//
	return 0
}
