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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Config_01(t *testing.T) {
	cfg, err := Load("", writeFile(t, ".env", ""))
	//
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func Test_Config_02(t *testing.T) {
	path := writeFile(t, "cpl.yaml", "max_quantifiers: 3\nweights:\n  negation: 0.05\n")
	cfg, err := Load(path, writeFile(t, ".env", ""))
	//
	require.NoError(t, err)
	assert.Equal(t, uint(3), cfg.MaxQuantifiers)
	assert.Equal(t, 0.05, cfg.Weights.Negation)
	// Untouched fields keep their defaults
	assert.Equal(t, Default().PreferenceGap, cfg.PreferenceGap)
	assert.Equal(t, Default().Weights.SurfaceOrder, cfg.Weights.SurfaceOrder)
	assert.Equal(t, uint(3), cfg.Resolve().MaxQuantifiers)
}

func Test_Config_03(t *testing.T) {
	t.Setenv("CPL_PREFERENCE_GAP", "0.25")
	t.Setenv("CPL_MAX_DEPTH", "12")
	//
	path := writeFile(t, "cpl.yaml", "preference_gap: 0.2\n")
	cfg, err := Load(path, writeFile(t, ".env", ""))
	//
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.PreferenceGap)
	assert.Equal(t, uint(12), cfg.Compose().MaxDepth)
	assert.Equal(t, uint(12), cfg.Disambig().MaxDepth)
}

func Test_Config_04(t *testing.T) {
	t.Setenv("CPL_SOFT_DEMOTION", "")
	// Clear the variable so godotenv can set it
	os.Unsetenv("CPL_SOFT_DEMOTION")
	//
	cfg, err := Load("", writeFile(t, ".env", "CPL_SOFT_DEMOTION=0.5\n"))
	//
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.SoftDemotion)
	assert.Equal(t, 0.5, cfg.Disambig().SoftDemotion)
}

func Test_Config_Invalid(t *testing.T) {
	env := writeFile(t, ".env", "")
	//
	_, err := Load(writeFile(t, "cpl.yaml", "max_depth: [1]\n"), env)
	assert.Error(t, err)
	//
	_, err = Load(writeFile(t, "cpl.yaml", "preference_gap: 1.5\n"), env)
	assert.Error(t, err)
	//
	_, err = Load(writeFile(t, "cpl.yaml", "max_depth: 0\n"), env)
	assert.Error(t, err)
	//
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), env)
	assert.Error(t, err)
	//
	t.Setenv("CPL_MAX_QUANTIFIERS", "many")
	_, err = Load("", env)
	assert.Error(t, err)
}

// ============================================================================
// Framework
// ============================================================================

func writeFile(t *testing.T, name string, contents string) string {
	t.Helper()
	//
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	//
	return path
}
