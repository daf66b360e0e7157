// Package main implements fmctl, a thin demonstration CLI over the public
// featuremodel facade: parsing a textual constraint, building one of the
// seed scenarios, enumerating its configurations, and watching a
// constraint file for changes.
//
// This binary is a collaborator, not core: the engine works the same
// whether or not fmctl exists.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/se-sic/vara-feature-go/internal/config"
	"github.com/se-sic/vara-feature-go/internal/logging"
)

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fmctl",
	Short: "fmctl - feature-model constraint and enumeration CLI",
	Long: `fmctl parses constraints, builds feature models, and enumerates
their valid configurations through an SMT-style encoding layer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := zapCfg.Build()
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		logging.Init(l)

		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML solver/logging config")

	rootCmd.AddCommand(parseCmd, buildCmd, enumerateCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
