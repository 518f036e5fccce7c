package main

import (
	"os"

	"github.com/wonny/squadpick/cmd/squad/commands"
)

// main is the entry point for the squad CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/squad [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
