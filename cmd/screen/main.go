// Package main provides the screening CLI.
//
// Usage:
//
//	screen --img spiral.png --wav voice.wav [--age 67] [--draw-weight 0.55] [--voice-weight 0.45]
//
// Model locations and the other settings come from the environment or
// --config, the same keys the server reads.
package main

import (
	"fmt"
	"os"

	"github.com/puja9882/multimodal-parkinsons-detection/cmd/screen/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
