// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides shared configuration mechanisms for packages in this module.
//
// This package is an implementation detail; the configuration surface for users is provided via
// the cmd/diffr flags, collected into a Config by cmd/diffr's run.
package config

import "github.com/xerus2000/diffr/internal/color"

// Config collects all configurable parameters for the refinement pipeline.
type Config struct {
	// Colors holds the per-class ANSI rendering built from --colors flags.
	Colors color.Config

	// LineNumbers enables the --line-numbers gutter in internal/emit.
	LineNumbers bool

	// Optimal forces internal/myers to always search for a minimal token-level edit script,
	// never taking the TOO_EXPENSIVE heuristic's suboptimal shortcut. Refinement operates on
	// single hunks, which are small enough that the optimal search is always affordable, and a
	// suboptimal script would visibly mis-highlight a line, so this is true unconditionally
	// rather than exposed as a flag.
	Optimal bool
}

// Default is the default configuration: color.DefaultConfig's built-in faces, line numbers off,
// and the LCS engine always searching for an optimal script.
var Default = Config{
	Colors:      color.DefaultConfig,
	LineNumbers: false,
	Optimal:     true,
}
