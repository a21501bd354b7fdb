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

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// TablePrinter is useful for printing tables to the terminal.  Rows can be
// added incrementally, and column widths are measured in runes (since terms
// and readings contain non-ASCII symbols, such as λ and ¬).
type TablePrinter struct {
	widths        []uint
	maxWidths     []uint
	rows          [][]string
	escapes       [][]string
	enableEscapes bool
}

// NewTablePrinter constructs a new table with given dimensions.
func NewTablePrinter(width uint, height uint) *TablePrinter {
	p := &TablePrinter{make([]uint, width), make([]uint, width), nil, nil, true}
	// Construct the table
	for i := uint(0); i < height; i++ {
		p.AddRow(make([]string, width)...)
	}

	return p
}

// Set the contents of a given cell in this table
func (p *TablePrinter) Set(col uint, row uint, val string) {
	p.widths[col] = max(p.widths[col], runes(val))
	p.rows[row][col] = val
}

// Get the contents of a given cell in this table
func (p *TablePrinter) Get(col uint, row uint) string {
	return p.rows[row][col]
}

// Height returns the height of this table.
func (p *TablePrinter) Height() uint {
	return uint(len(p.rows))
}

// SetEscape set the colour to use when printing the contents of a given cell
func (p *TablePrinter) SetEscape(col uint, row uint, escape string) {
	p.escapes[row][col] = escape
}

// SetRowEscape sets the colour to use when printing every cell of a given row.
func (p *TablePrinter) SetRowEscape(row uint, escape string) {
	for col := range p.escapes[row] {
		p.escapes[row][col] = escape
	}
}

// AnsiEscapes enables or disables the use of ANSI escapes (e.g. for showing
// colour).  Disabling escapes is useful in environments that don't support
// escapes as, otherwise, you get a lot of visible excape characters being
// printed.
func (p *TablePrinter) AnsiEscapes(enable bool) {
	p.enableEscapes = enable
}

// SetRow sets the contents of an entire row in this table
func (p *TablePrinter) SetRow(row uint, vals ...string) {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	// Update column widths
	for i := 0; i < len(p.widths); i++ {
		p.widths[i] = max(p.widths[i], runes(vals[i]))
	}
	// Done
	p.rows[row] = vals
}

// AddRow appends a row to this table, returning its index.
func (p *TablePrinter) AddRow(vals ...string) uint {
	p.rows = append(p.rows, make([]string, len(p.widths)))
	p.escapes = append(p.escapes, make([]string, len(p.widths)))
	//
	row := uint(len(p.rows) - 1)
	p.SetRow(row, vals...)
	//
	return row
}

// SetMaxWidths puts an upper bound on the width of any column.
func (p *TablePrinter) SetMaxWidths(width uint) {
	for i := uint(0); i < uint(len(p.widths)); i++ {
		p.SetMaxWidth(i, width)
	}
}

// SetMaxWidth puts an upper bound on the width of any column.  A bound of zero
// means no bound.
func (p *TablePrinter) SetMaxWidth(col uint, width uint) {
	p.maxWidths[col] = width
}

// Print the table to stdout.
func (p *TablePrinter) Print() {
	p.Write(os.Stdout)
}

// Write the table to a given writer.
func (p *TablePrinter) Write(out io.Writer) {
	//
	for i := 0; i < len(p.rows); i++ {
		row := p.rows[i]
		escapes := p.escapes[i]
		//
		for j, col := range row {
			jth := col
			jth_width := p.width(j)
			jth_escape := escapes[j]
			// Print colour (if applicable)
			if p.enableEscapes && jth_escape != "" {
				fmt.Fprint(out, jth_escape)
			}
			// Print data
			if runes(col) > jth_width && jth_width > 2 {
				jth = string([]rune(col)[0 : jth_width-2])
				fmt.Fprintf(out, " %s..", jth)
			} else {
				fmt.Fprintf(out, " %s%s", jth, pad(jth_width, runes(jth)))
			}
			// Cancel colour (if applicable)
			if p.enableEscapes && jth_escape != "" {
				fmt.Fprint(out, ResetAnsiEscape().Build())
			}

			fmt.Fprint(out, " |")
		}

		fmt.Fprintln(out)
	}
}

func (p *TablePrinter) width(col int) uint {
	if p.maxWidths[col] == 0 {
		return p.widths[col]
	}
	//
	return min(p.widths[col], p.maxWidths[col])
}

func runes(val string) uint {
	return uint(utf8.RuneCountInString(val))
}

func pad(width uint, used uint) string {
	if used >= width {
		return ""
	}
	//
	return fmt.Sprintf("%*s", width-used, "")
}
