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
package main

import (
	"fmt"
	"os"
	"path"
	"strings"

	util "github.com/consensys/go-cpl/pkg/cmd"
	"github.com/consensys/go-cpl/pkg/grammar"
	"github.com/consensys/go-cpl/pkg/util/collection/iter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Uint("min-quantifiers", 1, "Minimum number of quantified noun phrases")
	rootCmd.Flags().Uint("max-quantifiers", 4, "Maximum number of quantified noun phrases")
	rootCmd.Flags().StringP("output", "o", "testdata/fixtures", "Output directory")
	rootCmd.Flags().BoolP("verbose", "v", false, "increase logging verbosity")
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "testgen",
	Short: "Test generation utility for go-cpl.",
	Long: `Generate fixtures whose utterances coordinate many quantified noun phrases,
	 for stressing scope resolution.  One fixture is written for each model.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		if util.GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		var cfg TestGenConfig
		// Lookup model
		cfg.model = findModel(args[0])
		cfg.minQuantifiers = util.GetUint(cmd, "min-quantifiers")
		cfg.maxQuantifiers = util.GetUint(cmd, "max-quantifiers")
		// Generate & write
		spec := generateFixture(cfg)
		writeFixture(path.Join(util.GetString(cmd, "output"), fmt.Sprintf("%s.yaml", cfg.model.Name)), spec)
		os.Exit(0)
	},
}

// TestGenConfig encapsulates configuration related to test generation.
type TestGenConfig struct {
	model          Model
	minQuantifiers uint
	maxQuantifiers uint
}

// Model represents a family of determiners to be combined in every order.
type Model struct {
	// Name of the model in question
	Name string
	// Determiners to draw from
	Determiners []string
}

var models []Model = []Model{
	{"scope_universal", []string{"every", "all", "each", "every"}},
	{"scope_mixed", []string{"every", "some", "the", "a"}},
	{"scope_definite", []string{"the", "this", "that", "these"}},
}

var nouns = []string{"verse", "chorus", "bridge", "intro", "outro", "drop"}

func findModel(name string) Model {
	for _, m := range models {
		if m.Name == name {
			return m
		}
	}
	//
	panic(fmt.Sprintf("unknown model \"%s\"", name))
}

// Generate a fixture for a given model.  For each number of quantifiers, every
// ordering of the determiners is used once.
func generateFixture(cfg TestGenConfig) grammar.Spec {
	spec := grammar.Spec{Name: cfg.model.Name}
	spec.Lexicon = generateLexicon(cfg.model)
	spec.Rules = []grammar.RuleSpec{
		{Name: "V1", Strategy: "forward-application", Roles: []string{"", "patient"}},
		{Name: "V2", Strategy: "forward-application", Roles: []string{"", "axis"}},
		{Name: "NP", Strategy: "forward-application", Roles: []string{"", "head"}},
		{Name: "CONJ", Strategy: "coordination"},
	}
	//
	for n := cfg.minQuantifiers; n <= min(cfg.maxQuantifiers, uint(len(cfg.model.Determiners))); n++ {
		seen := make(map[string]bool)
		enumerator := iter.EnumeratePermutations(cfg.model.Determiners[:n])
		//
		for enumerator.HasNext() {
			utterance := generateUtterance(enumerator.Next())
			// Skip duplicates arising from repeated determiners
			if !seen[utterance.Text] {
				seen[utterance.Text] = true
				spec.Utterances = append(spec.Utterances, utterance)
			}
		}
		//
		log.Debugf("generated %d utterance(s) with %d quantifier(s)", len(seen), n)
	}
	//
	return spec
}

func generateLexicon(model Model) []grammar.EntrySpec {
	entries := []grammar.EntrySpec{
		{
			Word: "make", Token: "verb", Types: []grammar.TypeSpec{{Type: "<e,<axis,act>>"}},
			Term: &grammar.TermSpec{Event: &grammar.EventSpec{Predicate: "make", Category: "change", Goal: true,
				Params: []grammar.ParamSpec{{Role: "patient", Type: "e"}, {Role: "axis", Type: "axis"}}}},
		},
		{Word: "and", Types: []grammar.TypeSpec{{Type: "?"}}},
		{Word: "brighter", Types: []grammar.TypeSpec{{Type: "axis"}}},
	}
	//
	seen := make(map[string]bool)
	//
	for _, det := range model.Determiners {
		if !seen[det] {
			seen[det] = true
			entries = append(entries, grammar.EntrySpec{Word: det, Types: []grammar.TypeSpec{{Type: "<e,e>"}},
				Term: &grammar.TermSpec{Determiner: det}})
		}
	}
	//
	for _, noun := range nouns {
		entries = append(entries, grammar.EntrySpec{Word: noun, Types: []grammar.TypeSpec{{Type: "e<section>"}}})
	}
	//
	return entries
}

// Generate "make D1 N1 and D2 N2 ... brighter".
func generateUtterance(determiners []string) grammar.UtteranceSpec {
	var (
		words     = []string{"make"}
		conjuncts []grammar.NodeSpec
	)
	//
	for i, det := range determiners {
		noun := nouns[i%len(nouns)]
		//
		if i > 0 {
			words = append(words, "and")
			conjuncts = append(conjuncts, grammar.NodeSpec{Word: "and"})
		}
		//
		words = append(words, det, noun)
		conjuncts = append(conjuncts, grammar.NodeSpec{Rule: "NP", Children: []grammar.NodeSpec{{Word: det}, {Word: noun}}})
	}
	//
	words = append(words, "brighter")
	patient := conjuncts[0]
	//
	if len(conjuncts) > 1 {
		patient = grammar.NodeSpec{Rule: "CONJ", Children: conjuncts}
	}
	//
	return grammar.UtteranceSpec{
		Text:   strings.Join(words, " "),
		Expect: &grammar.ExpectSpec{Type: "act", Hardness: "hard"},
		Forest: grammar.NodeSpec{Rule: "V2", Children: []grammar.NodeSpec{
			{Rule: "V1", Children: []grammar.NodeSpec{{Word: "make", Token: "verb"}, patient}},
			{Word: "brighter"},
		}},
	}
}

func writeFixture(filename string, spec grammar.Spec) {
	bytes, err := yaml.Marshal(&spec)
	if err == nil {
		// Sanity check what was generated
		_, err = grammar.Parse(bytes)
	}
	//
	if err == nil {
		err = os.WriteFile(filename, bytes, 0644)
	}
	//
	if err != nil {
		log.Error(err)
		os.Exit(2)
	}
	//
	fmt.Printf("Wrote %s (%d utterances)\n", filename, len(spec.Utterances))
}
