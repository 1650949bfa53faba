package main

import (
	"fmt"
	"os"

	"entity-graph/backend/pkg/logger"
)

func main() {
	if err := logger.Init("test"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
