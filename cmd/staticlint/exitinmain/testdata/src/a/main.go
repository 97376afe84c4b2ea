package main

import (
	"os"
	"syscall"
)

func main() {
	defer cleanup()

	if len(os.Args) > 3 {
		os.Exit(2) // want `os.Exit called in main skips deferred calls`
	}
	if len(os.Args) > 2 {
		syscall.Exit(1) // want `syscall.Exit called in main skips deferred calls`
	}

	fail := func() { os.Exit(1) }
	_ = fail

	helper()
}

func helper() {
	os.Exit(0)
}

func cleanup() {}
