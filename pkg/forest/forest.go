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
package forest

import (
	"fmt"
	"strings"
)

// Node represents a node in a parse forest, as produced by an (external)
// parser.  There are exactly three shapes: leaves (tokens), and-nodes (a
// grammar rule applied to an ordered sequence of children) and or-nodes (a
// choice between alternative analyses of the same span).
type Node interface {
	// ID returns the identifier of this node, which is used to refer to it in
	// traces and decision logs.
	ID() string
	// String returns a compact bracketed rendering of this node.
	String() string
	// sealed
	isNode()
}

// Leaf represents a single token (or multi-word unit) of the utterance.
type Leaf struct {
	NodeID    string
	Text      string
	TokenType string
	// Index of this token in the utterance.
	Index uint
}

// NewLeaf constructs a new leaf node.
func NewLeaf(id string, text string, tokenType string, index uint) *Leaf {
	return &Leaf{id, text, tokenType, index}
}

// ID returns the identifier of this leaf.
func (p *Leaf) ID() string { return p.NodeID }

func (p *Leaf) String() string {
	return fmt.Sprintf("%s/%s", p.Text, p.TokenType)
}

func (p *Leaf) isNode() {}

// AndNode represents the application of a grammar rule to an ordered sequence
// of children.
type AndNode struct {
	NodeID   string
	Rule     string
	Children []Node
}

// NewAndNode constructs a new and-node.
func NewAndNode(id string, rule string, children ...Node) *AndNode {
	return &AndNode{id, rule, children}
}

// ID returns the identifier of this and-node.
func (p *AndNode) ID() string { return p.NodeID }

func (p *AndNode) String() string {
	return fmt.Sprintf("(%s %s)", p.Rule, joinNodes(p.Children, " "))
}

func (p *AndNode) isNode() {}

// OrNode represents a choice between two or more alternative analyses.
type OrNode struct {
	NodeID       string
	Alternatives []Node
}

// NewOrNode constructs a new or-node.
func NewOrNode(id string, alternatives ...Node) *OrNode {
	return &OrNode{id, alternatives}
}

// ID returns the identifier of this or-node.
func (p *OrNode) ID() string { return p.NodeID }

func (p *OrNode) String() string {
	return fmt.Sprintf("{%s}", joinNodes(p.Alternatives, " | "))
}

func (p *OrNode) isNode() {}

// Leaves returns the leaves of a given node in left-to-right order.  For
// or-nodes, only the first alternative is considered, since all alternatives
// span the same tokens.
func Leaves(node Node) []*Leaf {
	switch n := node.(type) {
	case *Leaf:
		return []*Leaf{n}
	case *AndNode:
		var leaves []*Leaf
		//
		for _, child := range n.Children {
			leaves = append(leaves, Leaves(child)...)
		}
		//
		return leaves
	case *OrNode:
		if len(n.Alternatives) == 0 {
			return nil
		}
		//
		return Leaves(n.Alternatives[0])
	default:
		panic(fmt.Sprintf("unknown node %s", node.String()))
	}
}

// Text returns the surface text spanned by a given node.
func Text(node Node) string {
	var words []string
	//
	for _, leaf := range Leaves(node) {
		words = append(words, leaf.Text)
	}
	//
	return strings.Join(words, " ")
}

// Ambiguity counts the number of complete analyses represented by a given
// node, saturating at a given bound.
func Ambiguity(node Node, bound uint) uint {
	switch n := node.(type) {
	case *Leaf:
		return 1
	case *AndNode:
		count := uint(1)
		//
		for _, child := range n.Children {
			count = min(bound, count*Ambiguity(child, bound))
		}
		//
		return count
	case *OrNode:
		count := uint(0)
		//
		for _, alt := range n.Alternatives {
			count = min(bound, count+Ambiguity(alt, bound))
		}
		//
		return count
	default:
		panic(fmt.Sprintf("unknown node %s", node.String()))
	}
}

func joinNodes(nodes []Node, sep string) string {
	var builder strings.Builder
	//
	for i, n := range nodes {
		if i != 0 {
			builder.WriteString(sep)
		}
		//
		builder.WriteString(n.String())
	}
	//
	return builder.String()
}
