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

// Known entity subtypes.  The set is open: collaborators may introduce further
// subtypes, which are then only compatible with themselves (and with the
// absent subtype).
const (
	SECTION        = "section"
	LAYER          = "layer"
	CARD           = "card"
	NOTE           = "note"
	RANGE          = "range"
	TRACK          = "track"
	PARAM          = "param"
	EVENT_SET      = "event_set"
	MUSICAL_OBJECT = "musical_object"
	INSTRUMENT     = "instrument"
)

// Known event categories.
const (
	CHANGE  = "change"
	ADD     = "add"
	REMOVE  = "remove"
	INSPECT = "inspect"
	UNDO    = "undo"
	EXPLAIN = "explain"
)

// entityCompatibility lists which pairs of distinct entity subtypes may stand
// in for each other.  Compatibility is not transitive: a note can stand for an
// event set or a musical object, but an event set cannot stand for a musical
// object.
var entityCompatibility = [][2]string{
	{LAYER, TRACK},
	{SECTION, RANGE},
	{NOTE, EVENT_SET},
	{NOTE, MUSICAL_OBJECT},
	{INSTRUMENT, TRACK},
}

// SubtypesCompatible determines whether two entity subtypes are compatible.
// The absent subtype is a wildcard and is compatible with everything.
func SubtypesCompatible(lhs string, rhs string) bool {
	if lhs == "" || rhs == "" || lhs == rhs {
		return true
	}
	//
	for _, pair := range entityCompatibility {
		if (pair[0] == lhs && pair[1] == rhs) || (pair[0] == rhs && pair[1] == lhs) {
			return true
		}
	}
	//
	return false
}

// Compatible determines whether two types are compatible.  Both types must
// share the same top-level variant, except that a hole is compatible with
// anything.  Function, product and list types are compared component-wise,
// whilst entity subtypes are compared using the compatibility table above.
func Compatible(lhs Type, rhs Type) bool {
	return Unify(lhs, rhs).Ok
}
