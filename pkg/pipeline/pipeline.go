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
package pipeline

import (
	"fmt"
	"time"

	"github.com/consensys/go-cpl/pkg/compose"
	"github.com/consensys/go-cpl/pkg/config"
	"github.com/consensys/go-cpl/pkg/disambig"
	"github.com/consensys/go-cpl/pkg/forest"
	"github.com/consensys/go-cpl/pkg/mrs"
	"github.com/consensys/go-cpl/pkg/semantic/term"
	"github.com/consensys/go-cpl/pkg/util"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Grammar supplies everything the pipeline needs to know about words and rules.
// A fixture grammar (see pkg/grammar) is one example.
type Grammar interface {
	disambig.Lexicon
	disambig.Grammar
	disambig.VerbFrames
	compose.StrategyTable
	compose.LexicalTerms
}

// Result holds everything produced by compiling a single utterance.
type Result struct {
	// ID uniquely identifies this invocation (e.g. in logs).
	ID uuid.UUID
	// Text is the surface text of the utterance.
	Text string
	// Disambiguation holds the surviving types, decision log and pruned forest.
	Disambiguation disambig.Result
	// Composition holds the composed term (which may be nil, or contain holes)
	// and the composition trace.
	Composition compose.Composition
	// MRS is the flat semantic representation of the composed term, or nil if
	// nothing was composed.
	MRS *mrs.MRS
	// Resolution holds the ranked scope readings.
	Resolution mrs.Resolution
	// Warnings collects the warnings of every stage, in order.
	Warnings []string
	// Elapsed is the time taken to compile this utterance.
	Elapsed time.Duration
	// Stages records the time taken by each stage which ran.
	Stages []util.Lap
}

// Term returns the composed term, or nil if nothing could be composed.
func (p *Result) Term() term.Term {
	return p.Composition.Term
}

// NeedsClarification indicates the utterance could not be compiled into a
// single preferred reading.
func (p *Result) NeedsClarification() bool {
	return p.Composition.Term == nil || p.Resolution.NeedsClarification
}

// Compiler turns parse forests into composed terms and scope readings.  A
// compiler holds no per-utterance state and, hence, may be shared between
// goroutines.
type Compiler struct {
	disambiguator *disambig.Disambiguator
	engine        *compose.Engine
	config        config.Config
}

// NewCompiler constructs a compiler for a given grammar and configuration.
func NewCompiler(grammar Grammar, cfg config.Config) *Compiler {
	return &Compiler{
		disambig.New(grammar, grammar, grammar, cfg.Disambig()),
		compose.NewEngine(grammar, grammar, cfg.Compose()),
		cfg,
	}
}

// WithHook returns a compiler which composes a given rule using a custom hook.
func (p *Compiler) WithHook(rule string, hook compose.Hook) *Compiler {
	return &Compiler{p.disambiguator, p.engine.WithHook(rule, hook), p.config}
}

// Compile a parse forest.  The expected type of the whole utterance (if known)
// guides disambiguation.  Every invocation uses a fresh arena, so concurrent
// invocations never share identifiers.
func (p *Compiler) Compile(root forest.Node, expected *disambig.ExpectedType) Result {
	var (
		stats  = util.NewPerfStats()
		arena  = term.NewArena()
		result = Result{ID: uuid.New(), Text: forest.Text(root)}
		logger = log.WithField("utterance", result.ID.String())
	)
	//
	logger.Debugf("compiling \"%s\"", result.Text)
	// Disambiguation
	result.Disambiguation = p.disambiguator.Disambiguate(root, expected)
	result.warn(logger, "disambiguation", result.Disambiguation.Warnings)
	logger.Debugf("%d decisions, root types %v", len(result.Disambiguation.Decisions),
		result.Disambiguation.Types())
	stats.Mark("disambiguation")
	// Composition
	result.Composition = p.engine.ComposeTyped(arena, result.Disambiguation.Forest, result.Disambiguation.Choices)
	result.warn(logger, "composition", result.Composition.Warnings)
	//
	if result.Composition.Term == nil {
		result.warn(logger, "composition", []string{"nothing composed"})
		stats.Mark("composition")
	} else {
		logger.Debugf("composed %s : %s", result.Composition.Term, result.Composition.Term.Type())
		//
		if err := term.CheckWellTyped(result.Composition.Term); err != nil {
			result.warn(logger, "composition", []string{err.Error()})
		}
		//
		stats.Mark("composition")
		// Scope resolution
		result.MRS = mrs.Build(arena, result.Composition.Term)
		result.Resolution = mrs.Resolve(result.MRS, p.config.Resolve())
		result.warn(logger, "resolution", result.Resolution.Warnings)
		logger.Debugf("%d readings (clarification needed: %t)", len(result.Resolution.Readings),
			result.Resolution.NeedsClarification)
		stats.Mark("resolution")
	}
	//
	result.Elapsed = stats.Elapsed()
	result.Stages = stats.Laps()
	stats.Log(logger, "compilation")
	//
	return result
}

func (p *Result) warn(logger log.FieldLogger, stage string, warnings []string) {
	for _, w := range warnings {
		msg := fmt.Sprintf("%s: %s", stage, w)
		logger.Debug(msg)
		p.Warnings = append(p.Warnings, msg)
	}
}
