package main

import (
	"context"
	"fmt"
	"os"

	"github.com/wippyai/ffi-smoke/smoke"
)

// No flags, no environment: the program's whole surface is its four output
// lines and the exit code.
func main() {
	if err := smoke.Run(context.Background(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
