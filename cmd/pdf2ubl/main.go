package main

import (
	"fmt"
	"os"

	"github.com/brouwerict/PDF2UBL/internal/cli"
	"github.com/subosito/gotenv"
)

func main() {
	// Load .env file if present
	_ = gotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
