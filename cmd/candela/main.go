package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// Interrupting watch or a long scan is a normal exit, not a failure
		// worth printing.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "candela: %v\n", err)
		}
		os.Exit(1)
	}
}
