// Command simpleeq renders, plays and analyses audio through a three-band
// equalizer.
//
// Usage:
//
//	simpleeq [--config file] [--preset file] <command> [flags]
//
// Examples:
//
//	simpleeq render in.wav out.wav --bit-depth 24
//	simpleeq play song.flac
//	simpleeq response --measured
//	simpleeq params --save preset.bin
package main

import (
	"os"

	"github.com/cwbudde/simpleeq/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
