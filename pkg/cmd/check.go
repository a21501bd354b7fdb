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

	"github.com/consensys/go-cpl/pkg/forest"
	"github.com/consensys/go-cpl/pkg/grammar"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] fixture_file(s)",
	Short: "check fixture files are well-formed.",
	Long: `Check that one or more fixture files conform to the fixture schema, and that
	 all of their types, terms and parse forests are well-formed.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		failures := 0
		schemaOnly := GetFlag(cmd, "schema-only")
		//
		for _, filename := range args {
			if err := checkFixture(filename, schemaOnly); err != nil {
				printError(filename, err)
				//
				failures++
			}
		}
		//
		if failures > 0 {
			log.Errorf("%d of %d fixture(s) failed", failures, len(args))
			os.Exit(1)
		}
	},
}

func checkFixture(filename string, schemaOnly bool) error {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return err
	} else if schemaOnly {
		return grammar.Validate(bytes)
	}
	//
	fixture, err := grammar.Parse(bytes)
	if err != nil {
		return err
	}
	//
	log.Debugf("%s: fixture \"%s\" with %d utterance(s)", filename, fixture.Name, len(fixture.Utterances))
	//
	for _, u := range fixture.Utterances {
		log.Debugf("%s: \"%s\" has %d analyses", filename, u.Text, forest.Ambiguity(u.Forest, 1000))
	}
	//
	fmt.Printf("%s: ok\n", filename)
	//
	return nil
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("schema-only", false, "only check against the fixture schema")
}
