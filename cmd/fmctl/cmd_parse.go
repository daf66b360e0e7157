package main

import (
	"fmt"

	"github.com/spf13/cobra"

	fm "github.com/se-sic/vara-feature-go/pkg/featuremodel"
)

var parseCmd = &cobra.Command{
	Use:   "parse <expr>",
	Short: "Parse a textual constraint and print its round-trip",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	expr, err := fm.ParseConstraint(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), expr.String())
	return nil
}
