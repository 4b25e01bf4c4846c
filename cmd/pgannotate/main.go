package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/pgannotate/internal/cli"
	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(pgannotate.ExitPanic)
		}
	}()

	if os.Getenv("PGANNOTATE_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(pgannotate.ExitCodeForError(err))
	}
}
