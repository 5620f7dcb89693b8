package main

import (
	"os"

	"github.com/wonny/equityrank/cmd/equityrank/commands"
)

// main is the entry point for the equityrank CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/equityrank [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
