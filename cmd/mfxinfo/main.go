// Command mfxinfo inspects the plugin bundle: it lists the plugins, prints
// the bundle manifest and runs every plugin against an in-memory host.
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
