package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"near-intents/cmd"
)

func main() {
	// Optional; configuration also comes from the environment directly.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
