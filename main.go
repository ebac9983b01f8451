// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for voterslip.
//
// Usage:
//
//	go run . [flags]
//	./voterslip [flags]
//
// See --help for commands and options.
package main

import (
	"os"

	"github.com/toeirei/voterslip/internal/logging"
	"github.com/toeirei/voterslip/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.Errorf("voterslip: %v", err)
		os.Exit(1)
	}
}
