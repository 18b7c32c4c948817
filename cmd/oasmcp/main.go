package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/erraggy/oasmcp/cmd/oasmcp/commands"
)

func main() {
	// Optional: load .env when present.
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
