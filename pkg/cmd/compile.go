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
package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/consensys/go-cpl/pkg/grammar"
	"github.com/consensys/go-cpl/pkg/pipeline"
	"github.com/consensys/go-cpl/pkg/util/termio"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] fixture_file",
	Short: "compile the utterances of a fixture.",
	Long: `Compile every utterance of a given fixture into a typed term, and resolve the
	 scope of its quantifiers.  The composed term, its readings and (optionally) the
	 composition trace and disambiguation decisions are printed.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig(cmd)
		fixture := readFixture(args[0])
		compiler := pipeline.NewCompiler(fixture, cfg)
		options := printOptions{
			trace:     GetFlag(cmd, "trace"),
			decisions: GetFlag(cmd, "decisions"),
			mrs:       GetFlag(cmd, "mrs"),
			escapes:   ansiEscapes(cmd),
			width:     terminalWidth(),
		}
		ok := true
		//
		utterances, err := selectUtterances(fixture, GetString(cmd, "utterance"))
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		for _, u := range utterances {
			result := compiler.Compile(u.Forest, u.Expected)
			printResult(os.Stdout, result, options)
			//
			ok = ok && !result.NeedsClarification()
		}
		//
		if GetFlag(cmd, "strict") && !ok {
			os.Exit(1)
		}
	},
}

// Select the utterances to compile, either by index or by (exact) text.
func selectUtterances(fixture *grammar.Fixture, only string) ([]grammar.Utterance, error) {
	if only == "" {
		return fixture.Utterances, nil
	} else if index, err := strconv.Atoi(only); err == nil {
		if index < 0 || index >= len(fixture.Utterances) {
			return nil, fmt.Errorf("utterance %d out of range (fixture has %d)", index, len(fixture.Utterances))
		}
		//
		return fixture.Utterances[index : index+1], nil
	}
	//
	for _, u := range fixture.Utterances {
		if u.Text == only {
			return []grammar.Utterance{u}, nil
		}
	}
	//
	return nil, fmt.Errorf("unknown utterance \"%s\"", only)
}

type printOptions struct {
	trace     bool
	decisions bool
	mrs       bool
	escapes   bool
	width     uint
}

func printResult(out io.Writer, result pipeline.Result, options printOptions) {
	fmt.Fprintf(out, "\"%s\" [%s]\n", result.Text, result.ID)
	// Summary
	summary := termio.NewTablePrinter(2, 0)
	summary.AnsiEscapes(options.escapes)
	//
	if t := result.Term(); t != nil {
		summary.AddRow("term", t.String())
		summary.AddRow("type", t.Type().String())
	} else {
		row := summary.AddRow("term", "(none)")
		summary.SetEscape(1, row, termio.StatusEscape(termio.FAIL))
	}
	//
	for i, r := range result.Resolution.Readings {
		row := summary.AddRow(fmt.Sprintf("reading %d", i+1), r.String())
		//
		if r.Preferred {
			summary.SetEscape(1, row, termio.StatusEscape(termio.OK))
		}
	}
	//
	if result.NeedsClarification() {
		row := summary.AddRow("status", "needs clarification")
		summary.SetEscape(1, row, termio.StatusEscape(termio.WARN))
	}
	//
	for _, w := range result.Warnings {
		row := summary.AddRow("warning", w)
		summary.SetEscape(1, row, termio.StatusEscape(termio.WARN))
	}
	//
	summary.SetMaxWidth(1, columnWidth(options.width, 12))
	summary.Write(out)
	//
	if options.mrs && result.MRS != nil {
		fmt.Fprintln(out, result.MRS.String())
	}
	//
	if options.decisions {
		printDecisions(out, result, options)
	}
	//
	if options.trace {
		printTrace(out, result, options)
	}
	//
	fmt.Fprintln(out)
}

func printDecisions(out io.Writer, result pipeline.Result, options printOptions) {
	tp := termio.NewTablePrinter(4, 0)
	tp.AnsiEscapes(options.escapes)
	header := tp.AddRow("node", "alt", "", "reason")
	tp.SetRowEscape(header, termio.BoldAnsiEscape().Build())
	//
	for _, d := range result.Disambiguation.Decisions {
		verdict := "kept"
		//
		if d.Pruned {
			verdict = "pruned"
		}
		//
		row := tp.AddRow(d.NodeID, strconv.Itoa(d.Alternative), verdict, d.Reason)
		//
		if d.Pruned {
			tp.SetEscape(2, row, termio.StatusEscape(termio.FAIL))
		}
	}
	//
	tp.SetMaxWidth(3, columnWidth(options.width, 24))
	tp.Write(out)
}

func printTrace(out io.Writer, result pipeline.Result, options printOptions) {
	tp := termio.NewTablePrinter(4, 0)
	tp.AnsiEscapes(options.escapes)
	header := tp.AddRow("node", "rule", "strategy", "result")
	tp.SetRowEscape(header, termio.BoldAnsiEscape().Build())
	//
	for _, e := range result.Composition.Trace {
		row := tp.AddRow(e.NodeID, e.Rule, e.Strategy, e.Result)
		//
		if strings.HasPrefix(e.Strategy, "default:") {
			tp.SetEscape(2, row, termio.StatusEscape(termio.WARN))
		}
	}
	//
	tp.SetMaxWidth(3, columnWidth(options.width, 40))
	tp.Write(out)
}

// Determine the width left for the final column of a table, given the width
// used by the other columns.
func columnWidth(width uint, used uint) uint {
	if width <= used+10 {
		return 10
	}
	//
	return width - used
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("utterance", "u", "", "compile only the utterance with this index (or text)")
	compileCmd.Flags().BoolP("trace", "t", false, "print the composition trace")
	compileCmd.Flags().BoolP("decisions", "d", false, "print the disambiguation decisions")
	compileCmd.Flags().Bool("mrs", false, "print the underspecified (MRS) representation")
	compileCmd.Flags().Bool("strict", false, "fail if any utterance needs clarification")
	compileCmd.Flags().Uint("max-depth", 0, "override the maximum depth of composition")
	compileCmd.Flags().Uint("max-quantifiers", 0, "override the maximum number of quantifiers whose scope is resolved")
	compileCmd.Flags().Float64("preference-gap", 0, "override the score gap required to prefer a reading")
}
