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
package term

import (
	"testing"

	"github.com/consensys/go-cpl/pkg/semantic/types"
)

func Test_Term_01(t *testing.T) {
	bass := NewConstant("bass", types.NewEntityType(types.TRACK))
	checkTerm(t, bass, "bass", "e<track>")
}

func Test_Term_02(t *testing.T) {
	x := NewVariable("x", types.Entity)
	id := NewAbstraction("x", types.Entity, x)
	checkTerm(t, id, "λx:e.x", "<e,e>")
}

func Test_Term_03(t *testing.T) {
	fn := NewConstant("solo", types.MustParse("<e<track>,act>"))
	app, err := NewApplication(fn, NewConstant("bass", types.NewEntityType(types.TRACK)))
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	checkTerm(t, app, "solo(bass)", "act")
}

func Test_Term_04(t *testing.T) {
	fn := NewConstant("solo", types.MustParse("<e<track>,act>"))
	//
	if _, err := NewApplication(fn, NewConstant("chorus", types.NewEntityType(types.SECTION))); err == nil {
		t.Errorf("expected type error")
	}
}

func Test_Term_05(t *testing.T) {
	drums := NewConstant("drums", types.NewEntityType(types.TRACK))
	bass := NewConstant("bass", types.NewEntityType(types.LAYER))
	conj, err := NewConjunction("and", drums, bass)
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	checkTerm(t, conj, "(drums and bass)", "e<track>")
}

func Test_Term_06(t *testing.T) {
	drums := NewConstant("drums", types.NewEntityType(types.TRACK))
	//
	if _, err := NewConjunction("and", drums, NewDegree("brightness", "+", "")); err == nil {
		t.Errorf("expected type error")
	}
}

func Test_Term_07(t *testing.T) {
	list := NewList(NewConstant("drums", types.Entity), NewDegree("brightness", "+", "a bit"))
	checkTerm(t, list, "{drums, deg(brightness+, a bit)}", "[?]")
}

func Test_Term_08(t *testing.T) {
	event := NewEvent("make", types.CHANGE, true).
		WithRole(PATIENT, NewConstant("bass", types.Entity)).
		WithRole("axis", NewConstant("brightness", types.Axis)).
		WithScope(NewScope("in", NewConstant("chorus", types.NewEntityType(types.SECTION))), false)
	//
	checkTerm(t, event, "!make:change[patient=bass, axis=brightness]@in(chorus)", "act")
}

func Test_Term_09(t *testing.T) {
	event := NewEvent("play", "", false, Role{"agent", NewConstant("drums", types.Entity)})
	checkTerm(t, event, "play[agent=drums]", "v")
}

func Test_Term_10(t *testing.T) {
	x := NewVariable("x", types.NewEntityType(types.SECTION))
	q := NewQuantifier("every", "x", types.NewEntityType(types.SECTION),
		mustApply(t, NewConstant("verse", types.MustParse("<e<section>,t>")), x), nil)
	//
	checkTerm(t, q, "every(x, verse(x))", "e<section>")
	//
	if !IsDefiniteDeterminer("The") || q.IsDefinite() {
		t.Errorf("incorrect definiteness")
	}
}

func Test_Term_11(t *testing.T) {
	hole := NewHole("?1", types.Axis)
	neg := NewNegation(NewModification(NewConstant("guitar", types.Entity), hole, POST))
	//
	checkTerm(t, neg, "¬(guitar ◃ ?1:axis)", "e")
	//
	if holes := Holes(neg); len(holes) != 1 || holes[0] != hole {
		t.Errorf("expected one hole, got %v", holes)
	}
}

func Test_Term_12(t *testing.T) {
	let := NewLet("y", NewConstant("vocals", types.Entity), NewConstraint("preserve", NewVariable("y", types.Entity)))
	checkTerm(t, let, "let y = vocals in preserve(y)", "cstr")
}

// ============================================================================
// Free variables & substitution
// ============================================================================

func Test_Free_01(t *testing.T) {
	x := NewVariable("x", types.Entity)
	y := NewVariable("y", types.Entity)
	body := NewList(x, y)
	//
	checkFree(t, NewAbstraction("x", types.Entity, body), "y")
	checkFree(t, body, "x", "y")
	checkFree(t, NewQuantifier("all", "y", types.Entity, body, nil), "x")
	checkFree(t, NewLet("x", y, body), "y")
}

func Test_Subst_01(t *testing.T) {
	arena := NewArena()
	x := NewVariable("x", types.Entity)
	bass := NewConstant("bass", types.NewEntityType(types.TRACK))
	//
	checkSubst(t, arena, NewList(x, x), "x", bass, "{bass, bass}")
}

func Test_Subst_02(t *testing.T) {
	// Inner abstraction rebinds x, so must not be touched
	arena := NewArena()
	x := NewVariable("x", types.Entity)
	inner := NewAbstraction("x", types.Entity, x)
	bass := NewConstant("bass", types.Entity)
	//
	checkSubst(t, arena, NewList(x, inner), "x", bass, "{bass, λx:e.x}")
}

func Test_Subst_03(t *testing.T) {
	// Substituting y for x under λy must rename the binder
	arena := NewArena()
	x := NewVariable("x", types.Entity)
	y := NewVariable("y", types.Entity)
	abs := NewAbstraction("y", types.Entity, NewList(x, y))
	//
	checkSubst(t, arena, abs, "x", y, "λy_1:e.{y, y_1}")
}

func Test_Subst_04(t *testing.T) {
	// Quantifiers bind their variable in both restriction and body.
	arena := NewArena()
	x := NewVariable("x", types.Entity)
	y := NewVariable("y", types.Entity)
	q := NewQuantifier("every", "y", types.Entity, NewList(y), NewList(x, y))
	//
	checkSubst(t, arena, q, "x", y, "every(y_1, {y_1}, {y, y_1})")
}

func Test_Subst_05(t *testing.T) {
	// Substitution into events preserves role order and scope.
	arena := NewArena()
	x := NewVariable("x", types.Entity)
	event := NewEvent("make", types.CHANGE, true, Role{PATIENT, x}, Role{"axis", NewConstant("warmth", types.Axis)})
	//
	checkSubst(t, arena, event, "x", NewConstant("pads", types.Entity), "!make:change[patient=pads, axis=warmth]")
}

func Test_Subst_06(t *testing.T) {
	// Substitution may specialise types, which can then fail to check.
	arena := NewArena()
	x := NewVariable("x", types.Entity)
	mute := NewConstant("mute", types.MustParse("<e<layer>,act>"))
	app := mustApply(t, mute, x)
	//
	if _, err := Substitute(arena, app, "x", NewConstant("piano", types.NewEntityType(types.INSTRUMENT))); err == nil {
		t.Errorf("expected type error")
	}
}

func Test_Subst_07(t *testing.T) {
	// Terms without free occurrences are returned unchanged.
	arena := NewArena()
	bass := NewConstant("bass", types.Entity)
	list := NewList(bass)
	//
	if result, err := Substitute(arena, list, "x", bass); err != nil || result != Term(list) {
		t.Errorf("expected identical term")
	}
}

func Test_Subst_08(t *testing.T) {
	// Renamed binders avoid names already free in their scope.
	arena := NewArena()
	x, y, y1 := NewVariable("x", types.Entity), NewVariable("y", types.Entity), NewVariable("y_1", types.Entity)
	fn := NewAbstraction("y", types.Entity, NewList(x, y, y1))
	checkFree(t, fn, "x", "y_1")
	//
	result, err := Substitute(arena, fn, "x", y)
	if err != nil {
		t.Fatal(err)
	}
	//
	checkTerm(t, result, "λy_2:e.{y, y_2, y_1}", "<e,[e]>")
	checkFree(t, result, "y", "y_1")
}

func Test_Subst_09(t *testing.T) {
	// As above, but for a quantifier's bound variable.
	arena := NewArena()
	x, y, y1 := NewVariable("x", types.Entity), NewVariable("y", types.Entity), NewVariable("y_1", types.Entity)
	every := NewQuantifier("every", "y", types.Entity, NewList(x, y, y1), nil)
	//
	result, err := Substitute(arena, every, "x", y)
	if err != nil {
		t.Fatal(err)
	}
	//
	if result.String() != "every(y_2, {y, y_2, y_1})" {
		t.Errorf("unexpected term %s", result.String())
	}
	//
	checkFree(t, result, "y", "y_1")
}

func Test_Arena_01(t *testing.T) {
	a1, a2 := NewArena(), NewArena()
	//
	if a1.FreshVariable("x") != "x1" || a1.FreshVariable("x") != "x2" || a2.FreshVariable("x") != "x1" {
		t.Errorf("arenas should be independent")
	} else if a1.FreshHandle() != 1 || a1.FreshHole() != "?1" {
		t.Errorf("counters should be independent")
	}
}

// ============================================================================
// Framework
// ============================================================================

func checkTerm(t *testing.T, term Term, str string, datatype string) {
	t.Helper()
	//
	if term.String() != str {
		t.Errorf("expected \"%s\", got \"%s\"", str, term.String())
	} else if term.Type().String() != datatype {
		t.Errorf("expected type %s, got %s", datatype, term.Type())
	} else if err := CheckWellTyped(term); err != nil {
		t.Error(err)
	}
}

func checkFree(t *testing.T, term Term, expected ...string) {
	t.Helper()
	//
	actual := FreeVariables(term)
	//
	if len(actual) != len(expected) {
		t.Errorf("expected free variables %v, got %v", expected, actual)
		return
	}
	//
	for i := range actual {
		if actual[i] != expected[i] {
			t.Errorf("expected free variables %v, got %v", expected, actual)
		}
	}
}

func checkSubst(t *testing.T, arena *Arena, term Term, name string, value Term, expected string) {
	t.Helper()
	//
	result, err := Substitute(arena, term, name, value)
	//
	if err != nil {
		t.Error(err)
	} else if result.String() != expected {
		t.Errorf("expected \"%s\", got \"%s\"", expected, result.String())
	} else if err := CheckWellTyped(result); err != nil {
		t.Error(err)
	}
}

func mustApply(t *testing.T, fn Term, arg Term) Term {
	t.Helper()
	//
	app, err := NewApplication(fn, arg)
	if err != nil {
		t.Fatal(err)
	}
	//
	return app
}
