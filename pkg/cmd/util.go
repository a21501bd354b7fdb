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
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-cpl/pkg/config"
	"github.com/consensys/go-cpl/pkg/grammar"
	"github.com/consensys/go-cpl/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetFloat gets an expected float, or exits if an error arises.
func GetFloat(cmd *cobra.Command, flag string) float64 {
	r, err := cmd.Flags().GetFloat64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Read the configuration, starting from the defaults and applying (in order)
// the config file (if given), the environment and, finally, any flags which
// were explicitly set on the command line.
func readConfig(cmd *cobra.Command) config.Config {
	cfg, err := config.Load(GetString(cmd, "config"))
	if err != nil {
		log.Error(err)
		os.Exit(2)
	}
	//
	if cmd.Flags().Changed("max-depth") {
		cfg.MaxDepth = GetUint(cmd, "max-depth")
	}
	//
	if cmd.Flags().Changed("max-quantifiers") {
		cfg.MaxQuantifiers = GetUint(cmd, "max-quantifiers")
	}
	//
	if cmd.Flags().Changed("preference-gap") {
		cfg.PreferenceGap = GetFloat(cmd, "preference-gap")
	}
	//
	if err := cfg.Validate(); err != nil {
		log.Error(err)
		os.Exit(2)
	}
	//
	return cfg
}

// Read a fixture file, reporting any errors and exiting.
func readFixture(filename string) *grammar.Fixture {
	fixture, err := grammar.Load(filename)
	if err != nil {
		log.Error(err)
		os.Exit(2)
	}
	//
	return fixture
}

// Report an error, highlighting the offending text for syntax errors.
func printError(filename string, err error) {
	var serr *source.Error
	//
	if errors.As(err, &serr) {
		printSyntaxError(filename, serr.Message, serr.Span.Start(), serr.Span.End(), serr.Text)
	} else {
		log.Error(err)
	}
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(filename string, msg string, start int, end int, text string) {
	line, offset, num := findEnclosingLine(start, text)
	// Print error + line number
	fmt.Printf("%s:%d: %s\n", filename, num, msg)
	// Print line
	fmt.Println(line)
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", max(0, start-offset)))
	// Print highlight
	fmt.Println(strings.Repeat("^", max(1, end-start)))
}

// Determine the enclosing line for the given index in a string.
func findEnclosingLine(index int, text string) (string, int, int) {
	num := 1
	start := 0
	// Handle case where we've reached the end-of-file unexpectedly.  This
	// essentially means the error is reported at the end of the last physical
	// line.
	if index >= len(text) {
		index = len(text) - 1
	}
	// Find the line.
	for i := 0; i < len(text); i++ {
		if i == index {
			end := findEndOfLine(index, text)
			return text[start:end], start, num
		} else if text[i] == '\n' {
			num++
			start = i + 1
		}
	}
	//
	return text[start:], start, num
}

// Find the end of the enclosing line
func findEndOfLine(index int, text string) int {
	for i := index; i < len(text); i++ {
		if text[i] == '\n' {
			return i
		}
	}
	// No end in sight!
	return len(text)
}

// Determine the width available for printing tables, using a sensible default
// when output is not a terminal.
func terminalWidth() uint {
	fd := int(os.Stdout.Fd())
	//
	if term.IsTerminal(fd) {
		if width, _, err := term.GetSize(fd); err == nil && width > 0 {
			return uint(width)
		}
	}
	//
	return 120
}

// Escapes are only useful when printing to a terminal.
func ansiEscapes(cmd *cobra.Command) bool {
	return GetFlag(cmd, "ansi-escapes") && term.IsTerminal(int(os.Stdout.Fd()))
}
