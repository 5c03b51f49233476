// Command fstcli exercises the vocabulary file format and the segmentation
// core from the command line: bench drives Process over a
// real text corpus, inspect reports on a compiled vocabulary.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
