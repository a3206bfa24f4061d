// Command housereg fits a closed-form linear regression to a housing dataset.
package main

import (
	"os"

	"github.com/YuminosukeSato/housereg/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
