// Materna - a pregnancy wellness reminder companion for the terminal.
package main

import (
	"os"

	"github.com/materna-cli/materna/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
