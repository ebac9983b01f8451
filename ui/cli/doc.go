// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for voterslip using Cobra.
// It loads configuration, opens the store per command and drives a
// session.Session. Business rules live in the internal packages.
package cli
