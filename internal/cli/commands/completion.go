package commands

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/housereg/linear"
)

func completeSolvers(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, len(linear.Solvers))
	for i, s := range linear.Solvers {
		names[i] = string(s)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
