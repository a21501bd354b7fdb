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
package source

import "fmt"

// Span represents a contiguous slice of the original string.  Instead of
// representing this as a string slice, however, it is useful to retain the
// actual indices so that error messages can point back at the offending
// characters.
type Span struct {
	// The first character of the span in the original string.
	start int
	// One past the last character of the span in the original string.
	end int
}

// NewSpan constructs a new span whilst checking that the invariant start <=
// end is properly maintained.
func NewSpan(start int, end int) Span {
	if start > end {
		panic("invalid span")
	}

	return Span{start, end}
}

// Start returns the starting index of this span in the original string.
func (p Span) Start() int {
	return p.start
}

// End returns one past the last index of this span in the original string.
func (p Span) End() int {
	return p.end
}

// Length returns the number of characters covered by this span.
func (p Span) Length() int {
	return p.end - p.start
}

// Of extracts the characters covered by this span from the given text.
func (p Span) Of(text []rune) string {
	end := min(p.end, len(text))
	//
	if p.start >= end {
		return ""
	}
	//
	return string(text[p.start:end])
}

func (p Span) String() string {
	return fmt.Sprintf("%d:%d", p.start, p.end)
}

// Error is an error which is associated with a span of some input text, such
// as a type notation supplied on the command line or inside a fixture file.
type Error struct {
	// Text being processed when the error arose.
	Text string
	// Span of characters responsible.
	Span Span
	// Message describing the problem.
	Message string
}

// NewError constructs a new error for the given text and span.
func NewError(text string, span Span, msg string) *Error {
	return &Error{text, span, msg}
}

func (p *Error) Error() string {
	return fmt.Sprintf("%s (at %s in \"%s\")", p.Message, p.Span.String(), p.Text)
}
