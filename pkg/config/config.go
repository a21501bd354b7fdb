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
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/consensys/go-cpl/pkg/compose"
	"github.com/consensys/go-cpl/pkg/disambig"
	"github.com/consensys/go-cpl/pkg/mrs"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ENV_PREFIX is the prefix of environment variables which override the
// configuration.
const ENV_PREFIX = "CPL_"

// Weights used for ranking scope readings.
type Weights struct {
	SurfaceOrder float64 `yaml:"surface_order"`
	Definiteness float64 `yaml:"definiteness"`
	Negation     float64 `yaml:"negation"`
}

// Config holds the tunable bounds and weights of the compilation pipeline.
type Config struct {
	// MaxDepth bounds the depth of forest which is disambiguated and composed.
	MaxDepth uint `yaml:"max_depth"`
	// SoftDemotion is the factor applied to candidates failing a soft
	// expectation.
	SoftDemotion float64 `yaml:"soft_demotion"`
	// MaxQuantifiers bounds the number of scopal predications whose orderings
	// are enumerated.
	MaxQuantifiers uint `yaml:"max_quantifiers"`
	// PreferenceGap is the margin by which the best reading must beat the
	// runner-up to be preferred.
	PreferenceGap float64 `yaml:"preference_gap"`
	// Weights for ranking readings.
	Weights Weights `yaml:"weights"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		MaxDepth:       compose.DefaultMaxDepth,
		SoftDemotion:   disambig.DefaultSoftDemotion,
		MaxQuantifiers: mrs.DefaultMaxQuantifiers,
		PreferenceGap:  mrs.DefaultPreferenceGap,
		Weights: Weights{
			SurfaceOrder: mrs.DefaultSurfaceOrderWeight,
			Definiteness: mrs.DefaultDefinitenessWeight,
			Negation:     mrs.DefaultNegationWeight,
		},
	}
}

// Load a configuration.  This starts from the defaults, which are then
// overridden by the given YAML file (if path is non-empty) and, finally, by
// any CPL_* environment variables.  Environment variables may be supplied
// through .env files: when none are given, a .env file in the working
// directory is used if it exists.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()
	// 1. Load .env files
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("loading .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return cfg, fmt.Errorf("loading %v: %w", envFiles, err)
	}
	// 2. Load YAML config
	if path != "" {
		bytes, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		} else if err := yaml.Unmarshal(bytes, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	// 3. Override with environment variables
	if err := cfg.applyEnvironment(); err != nil {
		return cfg, err
	}
	//
	return cfg, cfg.Validate()
}

// Validate checks that all bounds and weights are within range.
func (p *Config) Validate() error {
	switch {
	case p.MaxDepth == 0:
		return errors.New("max_depth must be positive")
	case p.SoftDemotion < 0 || p.SoftDemotion > 1:
		return fmt.Errorf("soft_demotion %v not in [0,1]", p.SoftDemotion)
	case p.PreferenceGap < 0 || p.PreferenceGap > 1:
		return fmt.Errorf("preference_gap %v not in [0,1]", p.PreferenceGap)
	case p.Weights.SurfaceOrder < 0 || p.Weights.Definiteness < 0 || p.Weights.Negation < 0:
		return errors.New("weights must be non-negative")
	}
	//
	return nil
}

// Compose returns the configuration of the compositional engine.
func (p *Config) Compose() compose.Config {
	return compose.Config{MaxDepth: p.MaxDepth}
}

// Disambig returns the configuration of the disambiguator.
func (p *Config) Disambig() disambig.Config {
	return disambig.Config{MaxDepth: p.MaxDepth, SoftDemotion: p.SoftDemotion}
}

// Resolve returns the configuration of the scope resolver.
func (p *Config) Resolve() mrs.Config {
	return mrs.Config{
		MaxQuantifiers:     p.MaxQuantifiers,
		PreferenceGap:      p.PreferenceGap,
		SurfaceOrderWeight: p.Weights.SurfaceOrder,
		DefinitenessWeight: p.Weights.Definiteness,
		NegationWeight:     p.Weights.Negation,
	}
}

func (p *Config) applyEnvironment() error {
	uints := map[string]*uint{
		"MAX_DEPTH":       &p.MaxDepth,
		"MAX_QUANTIFIERS": &p.MaxQuantifiers,
	}
	floats := map[string]*float64{
		"SOFT_DEMOTION":        &p.SoftDemotion,
		"PREFERENCE_GAP":       &p.PreferenceGap,
		"SURFACE_ORDER_WEIGHT": &p.Weights.SurfaceOrder,
		"DEFINITENESS_WEIGHT":  &p.Weights.Definiteness,
		"NEGATION_WEIGHT":      &p.Weights.Negation,
	}
	//
	for name, field := range uints {
		if value, ok := os.LookupEnv(ENV_PREFIX + name); ok {
			n, err := strconv.ParseUint(value, 10, 0)
			if err != nil {
				return fmt.Errorf("%s%s: %w", ENV_PREFIX, name, err)
			}
			//
			*field = uint(n)
		}
	}
	//
	for name, field := range floats {
		if value, ok := os.LookupEnv(ENV_PREFIX + name); ok {
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("%s%s: %w", ENV_PREFIX, name, err)
			}
			//
			*field = f
		}
	}
	//
	return nil
}
