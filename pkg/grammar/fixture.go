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
	// embed schema
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/consensys/go-cpl/pkg/compose"
	"github.com/consensys/go-cpl/pkg/disambig"
	"github.com/consensys/go-cpl/pkg/forest"
	"github.com/consensys/go-cpl/pkg/semantic/term"
	"github.com/consensys/go-cpl/pkg/semantic/types"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed fixture.schema.json
var schemaSource string

const schemaURL = "fixture.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	//
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
		return nil, err
	}
	//
	return compiler.Compile(schemaURL)
})

// Fixture is a small grammar, read from YAML, which supplies everything the
// pipeline needs from a grammar: candidate types and lexical terms for words,
// strategies, type combination and child roles for rules, and verb frames.  It
// also carries a set of example utterances, each with a parse forest.  A
// fixture is immutable once loaded.
type Fixture struct {
	Name       string
	Utterances []Utterance
	lexicon    map[string][]lexeme
	rules      map[string]rule
	frames     map[string]disambig.ExpectedType
}

// Utterance is an example utterance, along with its parse forest and
// (optionally) the type expected of the whole utterance.
type Utterance struct {
	Text     string
	Expected *disambig.ExpectedType
	Forest   forest.Node
}

type lexeme struct {
	token      string
	candidates []types.Candidate
	term       *TermSpec
	// parameter types of the term (if any)
	params []types.Type
}

type rule struct {
	strategy compose.Strategy
	result   types.Type
	roles    []string
}

// Load a fixture from a YAML file.
func Load(path string) (*Fixture, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	//
	fixture, err := Parse(bytes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	//
	return fixture, nil
}

// Validate checks a YAML fixture against the fixture schema.
func Validate(bytes []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("failed to compile fixture schema: %w", err)
	}
	//
	var doc any
	//
	if err := yaml.Unmarshal(bytes, &doc); err != nil {
		return err
	}
	// Normalise through JSON, as expected by the validator
	var normalised any
	//
	raw, err := json.Marshal(normalise(doc))
	if err != nil {
		return fmt.Errorf("failed to marshal fixture for validation: %w", err)
	} else if err := json.Unmarshal(raw, &normalised); err != nil {
		return fmt.Errorf("failed to normalise fixture for validation: %w", err)
	} else if err := schema.Validate(normalised); err != nil {
		return fmt.Errorf("fixture schema validation failed: %w", err)
	}
	//
	return nil
}

// Parse a fixture from YAML, validating it against the fixture schema and
// checking that all types and terms are well formed.
func Parse(bytes []byte) (*Fixture, error) {
	var spec Spec
	//
	if err := Validate(bytes); err != nil {
		return nil, err
	} else if err := yaml.Unmarshal(bytes, &spec); err != nil {
		return nil, err
	}
	//
	return compile(&spec)
}

// ============================================================================
// Collaborator interfaces
// ============================================================================

// Types returns the candidate types of a word.
func (p *Fixture) Types(text string, tokenType string) []types.Candidate {
	if lx, ok := p.lookup(text, tokenType); ok {
		return lx.candidates
	}
	//
	return nil
}

// Term returns the lexical term of a word, using the arena to name any bound
// variables.
func (p *Fixture) Term(arena *term.Arena, text string, tokenType string) (term.Term, bool) {
	lx, ok := p.lookup(text, tokenType)
	//
	if !ok {
		return nil, false
	}
	//
	return lx.build(arena, text), true
}

// Strategy returns the composition strategy of a rule.
func (p *Fixture) Strategy(name string) (compose.Strategy, bool) {
	r, ok := p.rules[name]
	return r.strategy, ok
}

// ChildRole returns the thematic role played by the ith child of a rule.
func (p *Fixture) ChildRole(name string, index int) (string, bool) {
	r, ok := p.rules[name]
	//
	if !ok || index < 0 || index >= len(r.roles) || r.roles[index] == "" {
		return "", false
	}
	//
	return r.roles[index], true
}

// Combine determines the type of a rule from those of its children, according
// to the rule's strategy (or its declared result type).
func (p *Fixture) Combine(name string, children []types.Type) (types.Type, bool) {
	r, ok := p.rules[name]
	//
	if !ok {
		return nil, false
	} else if r.result != nil {
		return r.result, true
	}
	//
	return combine(r.strategy, children)
}

// Expect returns the type which a verb expects for a given role.
func (p *Fixture) Expect(verb string, role string) (disambig.ExpectedType, bool) {
	e, ok := p.frames[frameKey(verb, role)]
	return e, ok
}

// Lookup the lexeme for a word, preferring one whose token type matches
// exactly over one which matches any token type.
func (p *Fixture) lookup(text string, tokenType string) (*lexeme, bool) {
	var fallback *lexeme
	//
	for i, lx := range p.lexicon[strings.ToLower(text)] {
		if lx.token == tokenType {
			return &p.lexicon[strings.ToLower(text)][i], true
		} else if lx.token == "" && fallback == nil {
			fallback = &p.lexicon[strings.ToLower(text)][i]
		}
	}
	//
	return fallback, fallback != nil
}

func frameKey(verb string, role string) string {
	return strings.ToLower(verb) + "." + role
}

// ============================================================================
// Type combination
// ============================================================================

func combine(strategy compose.Strategy, children []types.Type) (types.Type, bool) {
	switch strategy {
	case compose.FORWARD_APPLICATION, compose.BACKWARD_APPLICATION:
		if len(children) != 2 {
			return nil, false
		}
		//
		fn, arg := children[0], children[1]
		//
		if strategy == compose.BACKWARD_APPLICATION {
			fn, arg = arg, fn
		}
		//
		t, err := types.ApplicationResult(fn, arg)
		//
		return t, err == nil
	case compose.PREDICATE_MODIFICATION, compose.COORDINATION:
		return join(children)
	case compose.MODIFIER_ATTACHMENT:
		if len(children) != 2 {
			return nil, false
		} else if isModifierType(children[0]) {
			return children[1], true
		} else if isModifierType(children[1]) {
			return children[0], true
		}
		//
		return nil, false
	case compose.SCOPE_RESTRICTION:
		if len(children) != 2 {
			return nil, false
		} else if children[0].Kind() == types.ACTION {
			return children[0], true
		} else if children[1].Kind() == types.ACTION {
			return children[1], true
		} else if t, ok := combine(compose.FORWARD_APPLICATION, children); ok {
			return t, true
		}
		//
		return combine(compose.BACKWARD_APPLICATION, children)
	case compose.IDENTITY, compose.LEXICAL_INSERTION:
		if len(children) != 1 {
			return nil, false
		}
		//
		return children[0], true
	default:
		panic(fmt.Sprintf("unknown strategy %s", strategy))
	}
}

// Join types together by unification.  Junction words are given hole types,
// and hence are absorbed.
func join(children []types.Type) (types.Type, bool) {
	if len(children) == 0 {
		return nil, false
	}
	//
	datatype := children[0]
	//
	for _, t := range children[1:] {
		u := types.Unify(datatype, t)
		//
		if !u.Ok {
			return nil, false
		}
		//
		datatype = u.Resolved
	}
	//
	return datatype, true
}

func isModifierType(t types.Type) bool {
	switch t.Kind() {
	case types.DEGREE, types.SCOPE, types.CONSTRAINT:
		return true
	case types.FUNCTION:
		fn := t.(*types.FunctionType)
		return types.Equal(fn.Param, fn.Result)
	}
	//
	return false
}

// Convert maps with non-string keys (which YAML permits, but JSON does not)
// into maps with string keys.
func normalise(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, item := range v {
			v[key] = normalise(item)
		}
		//
		return v
	case map[any]any:
		m := make(map[string]any, len(v))
		//
		for key, item := range v {
			m[fmt.Sprint(key)] = normalise(item)
		}
		//
		return m
	case []any:
		for i, item := range v {
			v[i] = normalise(item)
		}
		//
		return v
	default:
		return value
	}
}
