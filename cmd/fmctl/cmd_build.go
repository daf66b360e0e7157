package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build <seed-name>",
	Short: "Build a seed scenario and print its feature order",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	m, err := buildSeed(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "model %q (%d features)\n", m.Name(), m.Size())
	for _, h := range m.Features() {
		n, ok := m.Get(h)
		if !ok {
			continue
		}
		fmt.Fprintf(out, "  %s (%s)\n", n.Name, n.Kind)
	}
	return nil
}
