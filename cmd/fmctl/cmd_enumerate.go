package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	fm "github.com/se-sic/vara-feature-go/pkg/featuremodel"
)

var enumerateCmd = &cobra.Command{
	Use:   "enumerate <seed-name>",
	Short: "Build a seed scenario, prime the translator, and stream configurations as JSON Lines",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnumerate,
}

func runEnumerate(cmd *cobra.Command, args []string) error {
	m, err := buildSeed(args[0])
	if err != nil {
		return err
	}

	s := fm.NewNaiveSolver()
	if err := fm.Translate(m, s); err != nil {
		return err
	}

	enum := fm.NewEnumerator(s)
	out := cmd.OutOrStdout()
	for {
		config, err := enum.Next()
		if err != nil {
			if kind, ok := fm.KindOf(err); ok && kind == fm.ErrUnsat {
				return nil
			}
			return err
		}
		data, err := json.Marshal(config)
		if err != nil {
			return fmt.Errorf("marshal configuration: %w", err)
		}
		if _, err := fmt.Fprintln(out, string(data)); err != nil {
			return err
		}
	}
}
