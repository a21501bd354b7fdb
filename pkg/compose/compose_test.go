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
	"strings"
	"testing"

	"github.com/consensys/go-cpl/pkg/forest"
	"github.com/consensys/go-cpl/pkg/semantic/term"
	"github.com/consensys/go-cpl/pkg/semantic/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Make the bass brighter (step by step)
func Test_Compose_01(t *testing.T) {
	arena := term.NewArena()
	engine := testEngine()
	//
	step1 := engine.ComposeRule(arena, "n1", "VP", []term.Term{makeTerm(), bass()})
	require.NotNil(t, step1.Term)
	assert.Equal(t, "λa:axis.!make:change[patient=bass, axis=a]", step1.Term.String())
	assert.Equal(t, "<axis,act>", step1.Term.Type().String())
	require.NoError(t, term.CheckWellTyped(step1.Term))
	//
	step2 := engine.ComposeRule(arena, "n2", "VP", []term.Term{step1.Term, brighter()})
	checkGoal(t, step2, "!make:change[patient=bass, axis=brighter]")
	assert.Equal(t, "bass", step2.Term.(*term.Event).Role(term.PATIENT).String())
}

// Make the bass brighter (whole forest)
func Test_Compose_02(t *testing.T) {
	root := forest.NewAndNode("n0", "VP",
		forest.NewAndNode("n1", "VP", leaf("make", 0), leaf("bass", 1)),
		leaf("brighter", 2))
	//
	result := testEngine().Compose(term.NewArena(), root)
	checkGoal(t, result, "!make:change[patient=bass, axis=brighter]")
	assert.Empty(t, result.Warnings)
	assert.Len(t, result.Trace, 5)
	assert.Equal(t, "n0", result.Trace[4].NodeID)
	assert.Equal(t, "forward-application", result.Trace[4].Strategy)
}

// Missing lexical entry
func Test_Compose_03(t *testing.T) {
	root := forest.NewAndNode("n0", "VP",
		forest.NewAndNode("n1", "VP", leaf("make", 0), leaf("bass", 1)),
		leaf("sparklier", 2))
	//
	result := testEngine().Compose(term.NewArena(), root)
	require.NotNil(t, result.Term)
	assert.Len(t, term.Holes(result.Term), 1)
	assertWarning(t, result, "sparklier")
}

// No strategy for rule
func Test_Compose_04(t *testing.T) {
	result := testEngine().ComposeRule(term.NewArena(), "n0", "XP", []term.Term{makeTerm(), bass()})
	require.NotNil(t, result.Term)
	assert.Equal(t, "λa:axis.!make:change[patient=bass, axis=a]", result.Term.String())
	assert.Equal(t, "default:application", result.Trace[0].Strategy)
	assertWarning(t, result, "no strategy")
}

// Panicking hook
func Test_Compose_05(t *testing.T) {
	engine := testEngine().WithHook("VP", func(*term.Arena, []term.Term) (term.Term, error) {
		panic("boom")
	})
	//
	result := engine.ComposeRule(term.NewArena(), "n0", "VP", []term.Term{makeTerm(), bass()})
	require.NotNil(t, result.Term)
	assert.Equal(t, "λa:axis.!make:change[patient=bass, axis=a]", result.Term.String())
	assertWarning(t, result, "boom")
	// Hooks are per engine
	result = testEngine().ComposeRule(term.NewArena(), "n0", "VP", []term.Term{makeTerm(), bass()})
	assert.Empty(t, result.Warnings)
}

// Hook overriding a rule
func Test_Compose_06(t *testing.T) {
	engine := testEngine().WithHook("NP", func(_ *term.Arena, children []term.Term) (term.Term, error) {
		return term.NewQuantifier("the", "x", children[1].Type(), children[1], nil), nil
	})
	//
	result := engine.ComposeRule(term.NewArena(), "n0", "NP", []term.Term{the(), bass()})
	require.NotNil(t, result.Term)
	assert.Equal(t, "hook", result.Trace[0].Strategy)
	assert.Equal(t, "e<track>", result.Term.Type().String())
}

// Totality of default composition
func Test_Compose_07(t *testing.T) {
	terms := []term.Term{makeTerm(), bass(), brighter(), chorus(), the(), warmer(), goal(),
		term.NewHole("?9", nil), term.NewDegree("brightness", "+", "")}
	engine := testEngine()
	//
	for _, lhs := range terms {
		for _, rhs := range terms {
			result := engine.ComposeRule(term.NewArena(), "n0", "XP", []term.Term{lhs, rhs})
			//
			if assert.NotNil(t, result.Term, "composing %s with %s", lhs, rhs) {
				assert.NoError(t, term.CheckWellTyped(result.Term))
			}
		}
	}
	// Edge cases
	assert.Nil(t, engine.ComposeRule(term.NewArena(), "n0", "XP", nil).Term)
	assert.Equal(t, bass(), engine.ComposeRule(term.NewArena(), "n0", "XP", []term.Term{bass()}).Term)
}

// Depth bound
func Test_Compose_08(t *testing.T) {
	root := forest.NewAndNode("n0", "VP",
		forest.NewAndNode("n1", "VP", leaf("make", 0), leaf("bass", 1)),
		leaf("brighter", 2))
	engine := NewEngine(testStrategies(), testLexicon(), Config{1})
	//
	result := engine.Compose(term.NewArena(), root)
	require.NotNil(t, result.Term)
	assert.Equal(t, "brighter", result.Term.String())
	assertWarning(t, result, "depth")
}

// Coordination
func Test_Compose_09(t *testing.T) {
	or := term.NewConstant("or", types.Truth)
	result := testEngine().ComposeRule(term.NewArena(), "n0", "CONJ", []term.Term{bass(), or, drums()})
	require.NotNil(t, result.Term)
	assert.Equal(t, "(bass ∨ drums)", result.Term.String())
	//
	result = testEngine().ComposeRule(term.NewArena(), "n0", "CONJ", []term.Term{brighter(), warmer()})
	assert.Equal(t, "(brighter and warmer)", result.Term.String())
	// More than two children by default
	result = testEngine().ComposeRule(term.NewArena(), "n0", "XP", []term.Term{bass(), drums(), bass()})
	assert.Equal(t, "(bass and drums and bass)", result.Term.String())
	assert.Equal(t, "default:coordination", result.Trace[0].Strategy)
}

// Scope restriction
func Test_Compose_10(t *testing.T) {
	scope := term.NewScope("in", chorus())
	//
	result := testEngine().ComposeRule(term.NewArena(), "n0", "S", []term.Term{goal(), scope})
	checkGoal(t, result, "!make:change[patient=bass, axis=brighter]@in(chorus)")
	assert.False(t, result.Term.(*term.Event).ScopeFirst)
	//
	result = testEngine().ComposeRule(term.NewArena(), "n0", "S", []term.Term{scope, goal()})
	checkGoal(t, result, "!make:change[patient=bass, axis=brighter]@in(chorus)")
	assert.True(t, result.Term.(*term.Event).ScopeFirst)
}

// Modifiers and predicate modification
func Test_Compose_11(t *testing.T) {
	distorted := term.NewConstant("distorted", types.NewEntityType("track"))
	result := testEngine().ComposeRule(term.NewArena(), "n0", "ADJ", []term.Term{distorted, bass()})
	assert.Equal(t, "(distorted ∧ bass)", result.Term.String())
	//
	scope := term.NewScope("in", chorus())
	result = testEngine().ComposeRule(term.NewArena(), "n0", "MOD", []term.Term{bass(), scope})
	assert.Equal(t, "(bass ◃ in(chorus))", result.Term.String())
	assert.Equal(t, "e<track>", result.Term.Type().String())
	// Ill-typed intersection falls back
	result = testEngine().ComposeRule(term.NewArena(), "n0", "ADJ", []term.Term{brighter(), bass()})
	assert.Equal(t, "{brighter, bass}", result.Term.String())
	assert.Len(t, result.Warnings, 1)
}

// Patient filling by default
func Test_Compose_12(t *testing.T) {
	tweak := term.NewEvent("tweak", types.CHANGE, true)
	result := testEngine().ComposeRule(term.NewArena(), "n0", "XP", []term.Term{tweak, bass()})
	checkGoal(t, result, "!tweak:change[patient=bass]")
	assert.Equal(t, "default:patient-role", result.Trace[0].Strategy)
}

// Leaves take the types chosen for them
func Test_Compose_13(t *testing.T) {
	root := forest.NewAndNode("n0", "VP", leaf("make", 0), leaf("bass", 1))
	choices := map[string]types.Type{"bass": types.NewEntityType(types.LAYER), "n0": types.Action}
	//
	result := testEngine().ComposeTyped(term.NewArena(), root, choices)
	require.NotNil(t, result.Term)
	assert.Equal(t, "e<layer>", result.Term.(*term.Abstraction).Body.(*term.Event).Role(term.PATIENT).Type().String())
	// Missing words become holes of the chosen type
	root = forest.NewAndNode("n0", "VP", leaf("make", 0), leaf("synth", 1))
	choices = map[string]types.Type{"synth": types.NewEntityType(types.LAYER)}
	result = testEngine().ComposeTyped(term.NewArena(), root, choices)
	require.Len(t, term.Holes(result.Term), 1)
	assert.Equal(t, "?e<layer>", term.Holes(result.Term)[0].Type().String())
}

// Configured depth bounds beta reduction
func Test_Compose_14(t *testing.T) {
	x, y := term.NewVariable("x", types.Entity), term.NewVariable("y", types.Entity)
	inner, err := term.NewApplication(term.NewAbstraction("y", types.Entity, y), x)
	require.NoError(t, err)
	// Reducing (λx.(λy.y)(x))(bass) takes two steps
	fn := term.NewAbstraction("x", types.Entity, inner)
	//
	result := testEngine().ComposeRule(term.NewArena(), "n0", "VP", []term.Term{fn, bass()})
	require.NotNil(t, result.Term)
	assert.Equal(t, "bass", result.Term.String())
	//
	bounded := NewEngine(testStrategies(), testLexicon(), Config{MaxDepth: 1})
	result = bounded.ComposeRule(term.NewArena(), "n0", "VP", []term.Term{fn, bass()})
	require.NotNil(t, result.Term)
	assert.True(t, IsRedex(result.Term))
	assert.Equal(t, "(λx:e.(λy:e.y)(x))(bass)", result.Term.String())
}

// Backward application records that its argument came first
func Test_Compose_15(t *testing.T) {
	louder := term.NewConstant("louder", types.MustParse("<e,e>"))
	//
	backward, err := BACKWARD_APPLICATION.Hook()(term.NewArena(), []term.Term{bass(), louder})
	require.NoError(t, err)
	require.IsType(t, &term.Application{}, backward)
	assert.True(t, backward.(*term.Application).ArgFirst)
	//
	forward, err := FORWARD_APPLICATION.Hook()(term.NewArena(), []term.Term{louder, bass()})
	require.NoError(t, err)
	assert.False(t, forward.(*term.Application).ArgFirst)
}

func Test_Beta_01(t *testing.T) {
	arena := term.NewArena()
	app, err := term.NewApplication(makeTerm(), bass())
	require.NoError(t, err)
	//
	reduced, err := Reduce(arena, app)
	require.NoError(t, err)
	assert.Equal(t, "λa:axis.!make:change[patient=bass, axis=a]", reduced.String())
	// Normal forms are unchanged
	again, err := Reduce(arena, reduced)
	require.NoError(t, err)
	assert.Same(t, reduced, again)
}

func Test_Beta_02(t *testing.T) {
	arena := term.NewArena()
	app, err := term.NewApplication(makeTerm(), bass())
	require.NoError(t, err)
	//
	_, err = Normalise(arena, app, 0)
	assert.Error(t, err)
	//
	normal, err := Normalise(arena, app, 1)
	require.NoError(t, err)
	assert.False(t, IsRedex(normal))
}

// ============================================================================
// Framework
// ============================================================================

type lexiconMap map[string]term.Term

func (p lexiconMap) Term(arena *term.Arena, text string, tokenType string) (term.Term, bool) {
	t, ok := p[text]
	return t, ok
}

func testStrategies() StrategyMap {
	return StrategyMap{
		"VP":   FORWARD_APPLICATION,
		"NP":   FORWARD_APPLICATION,
		"S":    SCOPE_RESTRICTION,
		"CONJ": COORDINATION,
		"ADJ":  PREDICATE_MODIFICATION,
		"MOD":  MODIFIER_ATTACHMENT,
	}
}

func testLexicon() lexiconMap {
	return lexiconMap{
		"make":     makeTerm(),
		"bass":     bass(),
		"brighter": brighter(),
		"chorus":   chorus(),
	}
}

func testEngine() *Engine {
	return NewEngine(testStrategies(), testLexicon(), DefaultConfig())
}

func leaf(text string, index uint) *forest.Leaf {
	return forest.NewLeaf(text, text, "word", index)
}

// λx:e.λa:axis.!make:change[patient=x, axis=a]
func makeTerm() term.Term {
	x := term.NewVariable("x", types.Entity)
	a := term.NewVariable("a", types.Axis)
	event := term.NewEvent("make", types.CHANGE, true, term.Role{Name: term.PATIENT, Filler: x},
		term.Role{Name: "axis", Filler: a})
	//
	return term.NewAbstraction("x", types.Entity, term.NewAbstraction("a", types.Axis, event))
}

func goal() term.Term {
	return term.NewEvent("make", types.CHANGE, true, term.Role{Name: term.PATIENT, Filler: bass()},
		term.Role{Name: "axis", Filler: brighter()})
}

func bass() term.Term     { return term.NewConstant("bass", types.NewEntityType(types.TRACK)) }
func drums() term.Term    { return term.NewConstant("drums", types.NewEntityType(types.TRACK)) }
func chorus() term.Term   { return term.NewConstant("chorus", types.NewEntityType(types.SECTION)) }
func brighter() term.Term { return term.NewConstant("brighter", types.Axis) }
func warmer() term.Term   { return term.NewConstant("warmer", types.Axis) }
func the() term.Term      { return term.NewConstant("the", types.NewFunctionType(types.Entity, types.Entity)) }

func checkGoal(t *testing.T, result Composition, expected string) {
	t.Helper()
	//
	require.NotNil(t, result.Term)
	assert.Equal(t, expected, result.Term.String())
	assert.Equal(t, types.Action, result.Term.Type())
	assert.Empty(t, term.Holes(result.Term))
	assert.NoError(t, term.CheckWellTyped(result.Term))
}

func assertWarning(t *testing.T, result Composition, fragment string) {
	t.Helper()
	//
	for _, w := range result.Warnings {
		if strings.Contains(w, fragment) {
			return
		}
	}
	//
	t.Errorf("expected warning containing \"%s\", got %v", fragment, result.Warnings)
}
