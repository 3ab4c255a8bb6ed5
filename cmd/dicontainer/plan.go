package main

import (
	"fmt"

	"github.com/gburgyan/go-dicontainer/manifest"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan <manifest> <contract>",
	Short: "Show the construction order of a contract",
	Long: `Show, dependencies first, every construction a provider performs the first time
the contract is requested. Every implementation of a contract is listed, in
registration order.`,
	Args: cobra.ExactArgs(2),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}

	steps, err := m.Plan(args[1])
	if err != nil {
		return err
	}
	for i, step := range steps {
		fmt.Fprintf(cmd.OutOrStdout(), "%2d. %v\n", i+1, step)
	}
	return nil
}
