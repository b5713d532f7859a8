// Command bunkplan projects class attendance against a target percentage.
package main

import (
	"os"

	"github.com/Iron-Ham/bunkplan/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
