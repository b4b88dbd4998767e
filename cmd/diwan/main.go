// Package main implements the diwan CLI for inspecting a poem corpus offline.
//
// Usage:
//
//	diwan inspect --corpus poems.txt
//	diwan today --corpus https://example.com/poems.txt --date 2026-03-14
//	diwan search --corpus poems.txt --ranked moon
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
