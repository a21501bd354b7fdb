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
package termio

import "fmt"

// Terminal colours, as used for the foreground of an escape.
const (
	TERM_RED    = uint(1)
	TERM_GREEN  = uint(2)
	TERM_YELLOW = uint(3)
)

// AnsiEscape is an SGR escape sequence under construction.  Parameters are
// accumulated in order, and Build renders the final sequence.
type AnsiEscape struct {
	params []uint
}

// NewAnsiEscape constructs an escape without parameters.
func NewAnsiEscape() AnsiEscape {
	return AnsiEscape{nil}
}

// ResetAnsiEscape constructs an escape which resets all attributes.
func ResetAnsiEscape() AnsiEscape {
	return AnsiEscape{[]uint{0}}
}

// BoldAnsiEscape constructs an escape for bold text.
func BoldAnsiEscape() AnsiEscape {
	return AnsiEscape{[]uint{1}}
}

// FgColour adds a foreground colour.
func (p AnsiEscape) FgColour(col uint) AnsiEscape {
	params := make([]uint, len(p.params), len(p.params)+1)
	copy(params, p.params)
	//
	return AnsiEscape{append(params, 30+col)}
}

// Build renders the escape sequence.
func (p AnsiEscape) Build() string {
	escape := "\033["
	//
	for i, param := range p.params {
		if i != 0 {
			escape += ";"
		}
		//
		escape += fmt.Sprintf("%d", param)
	}
	//
	return escape + "m"
}

// Status classifies the outcome of a pipeline stage for display.
type Status uint8

const (
	// OK indicates the stage succeeded outright.
	OK Status = iota
	// WARN indicates the stage succeeded with warnings, or needs clarification.
	WARN
	// FAIL indicates the stage produced nothing usable.
	FAIL
)

// StatusEscape returns the escape used to highlight a given status.
func StatusEscape(status Status) string {
	switch status {
	case OK:
		return NewAnsiEscape().FgColour(TERM_GREEN).Build()
	case WARN:
		return NewAnsiEscape().FgColour(TERM_YELLOW).Build()
	default:
		return NewAnsiEscape().FgColour(TERM_RED).Build()
	}
}
