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
package pipeline

import (
	"strings"
	"sync"
	"testing"

	"github.com/consensys/go-cpl/pkg/config"
	"github.com/consensys/go-cpl/pkg/grammar"
	"github.com/consensys/go-cpl/pkg/mrs"
	"github.com/consensys/go-cpl/pkg/semantic/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureFile = "../../testdata/fixtures/studio.yaml"

// make the bass brighter
func Test_Pipeline_01(t *testing.T) {
	result := compileUtterance(t, 0)
	//
	assert.Equal(t, "make the bass brighter", result.Text)
	assert.Empty(t, result.Warnings)
	assert.False(t, result.NeedsClarification())
	// Bass is resolved as a layer by the verb frame
	assert.Equal(t, "e<layer>", result.Disambiguation.Choices["n5"].String())
	assert.True(t, result.Disambiguation.Resolved)
	//
	event := goalEvent(t, result)
	assert.Equal(t, "make", event.Predicate)
	assert.Equal(t, "brighter", event.Role("axis").String())
	//
	patient, ok := event.Role(term.PATIENT).(*term.Quantifier)
	require.True(t, ok)
	assert.Equal(t, "the", patient.Determiner)
	assert.Equal(t, "bass", patient.Restriction.String())
	assert.Equal(t, "e<layer>", patient.Restriction.Type().String())
	// A single quantifier has exactly one reading
	require.Len(t, result.Resolution.Readings, 1)
	assert.True(t, result.Resolution.Readings[0].Preferred)
}

// in every verse make all tracks warmer
func Test_Pipeline_02(t *testing.T) {
	result := compileUtterance(t, 1)
	//
	assert.Empty(t, result.Warnings)
	//
	event := goalEvent(t, result)
	require.NotNil(t, event.Scope)
	assert.True(t, event.ScopeFirst)
	// Surface order is preferred
	require.Len(t, result.Resolution.Readings, 2)
	assert.False(t, result.Resolution.NeedsClarification)
	//
	preferred, ok := result.Resolution.PreferredReading()
	require.True(t, ok)
	assert.Equal(t, []string{"every", "all"}, determiners(t, result.MRS, preferred))
	assert.Greater(t, preferred.Score, result.Resolution.Readings[1].Score)
}

// make drums and bass brighter
func Test_Pipeline_03(t *testing.T) {
	result := compileUtterance(t, 2)
	//
	assert.Empty(t, result.Warnings)
	//
	event := goalEvent(t, result)
	patient, ok := event.Role(term.PATIENT).(*term.Conjunction)
	require.True(t, ok)
	assert.Equal(t, "and", patient.Junction)
	require.Len(t, patient.Conjuncts, 2)
	assert.Equal(t, "drums", patient.Conjuncts[0].String())
	assert.Equal(t, "bass", patient.Conjuncts[1].String())
	assert.Equal(t, "e<layer>", patient.Type().String())
}

// make the bass brighter in the chorus (attachment ambiguity)
func Test_Pipeline_04(t *testing.T) {
	result := compileUtterance(t, 3)
	// Both attachments are well typed, so both survive
	assert.Equal(t, 2, countSurvivors(result, "n0"))
	assertWarning(t, result, "ambiguous")
	// The first surviving analysis is composed
	event := goalEvent(t, result)
	assert.NotNil(t, event.Scope)
}

// don't make every track warmer
func Test_Pipeline_05(t *testing.T) {
	result := compileUtterance(t, 4)
	//
	assert.Empty(t, result.Warnings)
	//
	negation, ok := result.Term().(*term.Negation)
	require.True(t, ok)
	assert.Equal(t, "act", negation.Type().String())
	// Negation takes wide scope by preference
	preferred, ok := result.Resolution.PreferredReading()
	require.True(t, ok)
	require.Len(t, preferred.Order, 2)
	//
	ep, ok := result.MRS.Lookup(preferred.Order[0])
	require.True(t, ok)
	assert.True(t, ep.Negation)
	assert.True(t, strings.HasPrefix(preferred.Form, "¬("))
}

// keep the drums
func Test_Pipeline_06(t *testing.T) {
	result := compileUtterance(t, 5)
	//
	assert.Empty(t, result.Warnings)
	require.NotNil(t, result.Term())
	assert.Equal(t, "cstr", result.Term().Type().String())
	assert.NoError(t, term.CheckWellTyped(result.Term()))
}

// Each invocation has its own identifier
func Test_Pipeline_07(t *testing.T) {
	fixture := loadFixture(t)
	compiler := NewCompiler(fixture, config.Default())
	utterance := fixture.Utterances[0]
	//
	r1 := compiler.Compile(utterance.Forest, utterance.Expected)
	r2 := compiler.Compile(utterance.Forest, utterance.Expected)
	//
	assert.NotEqual(t, r1.ID, r2.ID)
	assert.Equal(t, r1.Term().String(), r2.Term().String())
	//
	require.Len(t, r1.Stages, 3)
	assert.Equal(t, "disambiguation", r1.Stages[0].Name)
	assert.Equal(t, "composition", r1.Stages[1].Name)
	assert.Equal(t, "resolution", r1.Stages[2].Name)
}

// Configuration bounds are respected
func Test_Pipeline_08(t *testing.T) {
	fixture := loadFixture(t)
	cfg := config.Default()
	cfg.MaxQuantifiers = 1
	//
	utterance := fixture.Utterances[1]
	result := NewCompiler(fixture, cfg).Compile(utterance.Forest, utterance.Expected)
	//
	assert.True(t, result.Resolution.Truncated)
	require.Len(t, result.Resolution.Readings, 1)
	assertWarning(t, result, "resolution:")
}

// Concurrent invocations do not interfere
func Test_Pipeline_09(t *testing.T) {
	var (
		fixture  = loadFixture(t)
		compiler = NewCompiler(fixture, config.Default())
		expected = make([]string, len(fixture.Utterances))
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []string
	)
	//
	for i, u := range fixture.Utterances {
		expected[i] = render(compiler.Compile(u.Forest, u.Expected))
	}
	//
	for n := 0; n < 32; n++ {
		wg.Add(1)
		//
		go func(n int) {
			defer wg.Done()
			//
			i := n % len(fixture.Utterances)
			u := fixture.Utterances[i]
			//
			if actual := render(compiler.Compile(u.Forest, u.Expected)); actual != expected[i] {
				mu.Lock()
				failures = append(failures, actual)
				mu.Unlock()
			}
		}(n)
	}
	//
	wg.Wait()
	assert.Empty(t, failures)
}

// Hooks override strategies
func Test_Pipeline_10(t *testing.T) {
	fixture := loadFixture(t)
	compiler := NewCompiler(fixture, config.Default()).WithHook("NP",
		func(arena *term.Arena, children []term.Term) (term.Term, error) {
			return children[1], nil
		})
	//
	utterance := fixture.Utterances[0]
	result := compiler.Compile(utterance.Forest, utterance.Expected)
	//
	event := goalEvent(t, result)
	assert.Equal(t, "bass", event.Role(term.PATIENT).String())
	assert.Empty(t, result.Resolution.Warnings)
}

// ===================================================================
// Test Framework
// ===================================================================

func loadFixture(t *testing.T) *grammar.Fixture {
	fixture, err := grammar.Load(fixtureFile)
	require.NoError(t, err)
	//
	return fixture
}

func compileUtterance(t *testing.T, index int) Result {
	fixture := loadFixture(t)
	require.Greater(t, len(fixture.Utterances), index)
	//
	utterance := fixture.Utterances[index]
	//
	return NewCompiler(fixture, config.Default()).Compile(utterance.Forest, utterance.Expected)
}

func goalEvent(t *testing.T, result Result) *term.Event {
	require.NotNil(t, result.Term())
	//
	event, ok := result.Term().(*term.Event)
	require.True(t, ok, result.Term().String())
	assert.True(t, event.Goal)
	assert.Equal(t, "act", event.Type().String())
	//
	return event
}

func determiners(t *testing.T, m *mrs.MRS, reading mrs.Reading) []string {
	var dets []string
	//
	for _, h := range reading.Order {
		ep, ok := m.Lookup(h)
		require.True(t, ok)
		//
		if ep.Quantifier {
			dets = append(dets, ep.Determiner)
		}
	}
	//
	return dets
}

func countSurvivors(result Result, nodeID string) int {
	count := 0
	//
	for _, d := range result.Disambiguation.Decisions {
		if d.NodeID == nodeID && !d.Pruned {
			count++
		}
	}
	//
	return count
}

func assertWarning(t *testing.T, result Result, fragment string) {
	for _, w := range result.Warnings {
		if strings.Contains(w, fragment) {
			return
		}
	}
	//
	t.Errorf("no warning containing \"%s\" in %v", fragment, result.Warnings)
}

func render(result Result) string {
	var builder strings.Builder
	//
	if result.Term() != nil {
		builder.WriteString(result.Term().String())
	}
	//
	for _, r := range result.Resolution.Readings {
		builder.WriteString(" | ")
		builder.WriteString(r.String())
	}
	//
	return builder.String()
}
