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
	"os"

	"github.com/consensys/go-cpl/pkg/semantic/types"
	"github.com/consensys/go-cpl/pkg/util/termio"
	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types [flags] type(s)",
	Short: "parse and unify semantic types.",
	Long: `Parse one or more semantic types written in type notation (e.g. "<e<layer>,act>").
	 Each type is printed, along with the unification (and fit) of every pair.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		datatypes := make([]types.Type, len(args))
		//
		for i, arg := range args {
			t, err := types.Parse(arg)
			if err != nil {
				printError(fmt.Sprintf("argument %d", i+1), err)
				os.Exit(2)
			}
			//
			datatypes[i] = t
		}
		//
		tp := termio.NewTablePrinter(4, 0)
		tp.AnsiEscapes(ansiEscapes(cmd))
		header := tp.AddRow("lhs", "rhs", "fit", "unified")
		tp.SetRowEscape(header, termio.BoldAnsiEscape().Build())
		//
		for i, t := range datatypes {
			tp.AddRow(t.String(), "", "", "")
			//
			for _, u := range datatypes[i+1:] {
				addUnification(tp, t, u)
			}
		}
		//
		tp.Print()
	},
}

func addUnification(tp *termio.TablePrinter, lhs types.Type, rhs types.Type) {
	u := types.Unify(lhs, rhs)
	//
	if !u.Ok {
		row := tp.AddRow(lhs.String(), rhs.String(), "-", "incompatible")
		tp.SetEscape(3, row, termio.StatusEscape(termio.FAIL))
		//
		return
	}
	//
	tp.AddRow(lhs.String(), rhs.String(), fmt.Sprintf("%.2f", u.Fit), u.Resolved.String())
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
