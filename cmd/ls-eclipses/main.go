// Command ls-eclipses plans observations of eclipsing binary stars: a
// terminal UI for managing the star catalog and computing the night's
// schedule, plus headless commands and an HTTP API.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
