// Command sugardemo renders a sample cell grid with sugarloaf and saves the
// last frame as a PNG.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
