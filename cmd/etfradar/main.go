package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"etfradar/internal/cli"
)

func main() {
	// Optional .env for proxy and logging overrides; absence is fine.
	_ = godotenv.Load()

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
