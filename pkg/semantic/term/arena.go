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
	"fmt"
)

// Arena mints fresh identifiers (variables, holes and handles) for a single
// invocation of the pipeline.  Every invocation must construct its own arena,
// and pass it explicitly to the operations which need fresh names.  This
// ensures that concurrent invocations never share (or contaminate) their
// identifiers.  An arena is not safe for concurrent use.
type Arena struct {
	variables uint
	holes     uint
	handles   uint
}

// NewArena constructs a fresh arena whose counters all start from one.
func NewArena() *Arena {
	return &Arena{}
}

// FreshVariable returns a variable name which has not been returned before by
// this arena.  The prefix is used for readability only.
func (p *Arena) FreshVariable(prefix string) string {
	p.variables++
	//
	return fmt.Sprintf("%s%d", prefix, p.variables)
}

// FreshHole returns a hole identifier which has not been returned before by
// this arena.
func (p *Arena) FreshHole() string {
	p.holes++
	//
	return fmt.Sprintf("?%d", p.holes)
}

// FreshHandle returns a scope handle which has not been returned before by this
// arena.  Handles start from 1, leaving 0 free to mean "no handle".
func (p *Arena) FreshHandle() uint {
	p.handles++
	//
	return p.handles
}
