// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

// Package ui groups the user-facing entry points of voterslip. The command
// line interface lives in ui/cli.
package ui
