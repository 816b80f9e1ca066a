// Package cli implements the ecoshop-impact command line.
package cli

import (
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/ecoshop-impact/internal/carbon"
	"github.com/rshade/ecoshop-impact/internal/config"
)

// app carries the state shared by subcommands. It is filled in by the
// root command's PersistentPreRunE.
type app struct {
	lookupEnv func(string) (string, bool)
	dotenv    bool

	cfg     config.Config
	logger  zerolog.Logger
	factors *carbon.Factors
	runID   string
}

// NewRootCmd creates the root command reading the process environment and
// an optional .env file.
func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(version, &app{lookupEnv: os.LookupEnv, dotenv: true})
}

// NewRootCmdWithEnv creates the root command with an explicit environment
// lookup. No .env file is read.
func NewRootCmdWithEnv(version string, lookupEnv func(string) (string, bool)) *cobra.Command {
	return newRootCmd(version, &app{lookupEnv: lookupEnv})
}

func newRootCmd(version string, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ecoshop-impact",
		Short:         "Estimate the carbon footprint of cosmetic products",
		Long:          "ecoshop-impact computes materials, transport and manufacturing footprints (kg CO2e) and assigns an eco badge to each product.",
		Version:       version,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "", "log format (auto, console, json)")
	cmd.PersistentFlags().String("factors", "", "YAML file overriding the built-in factor tables")

	cmd.AddCommand(newCalculateCmd(a), newProductCmd(a), newFactorsCmd(a))
	return cmd
}

const rootCmdExample = `  # Calculate footprints for a product catalog
  ecoshop-impact calculate --input data/products.csv

  # Write an Excel workbook without calling the external API
  ecoshop-impact calculate --input products.xlsx --output out.xlsx --no-external

  # Compute a single product from JSON on stdin
  echo '{"id":"1","weight":150}' | ecoshop-impact product

  # Show the effective factor tables
  ecoshop-impact factors --factors overrides.yaml`

// setup resolves configuration, the logger and the factor tables.
// Flags override environment variables, which override defaults.
func (a *app) setup(cmd *cobra.Command) error {
	stderr := cmd.ErrOrStderr()
	bootstrap := config.NewLogger("warn", config.FormatAuto, stderr)

	if a.dotenv {
		config.LoadDotEnv()
	}
	cfg := config.Load(a.lookupEnv, bootstrap)

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if flags.Changed("factors") {
		cfg.FactorsPath, _ = flags.GetString("factors")
	}

	a.runID = uuid.NewString()
	a.logger = config.NewLogger(cfg.LogLevel, cfg.LogFormat, stderr).
		With().
		Str("run_id", a.runID).
		Logger()

	factors, err := carbon.LoadFactors(cfg.FactorsPath)
	if err != nil {
		return err
	}
	if cfg.FactorsPath != "" {
		a.logger.Info().Str("path", cfg.FactorsPath).Msg("loaded factor table overrides")
	}

	a.cfg = cfg
	a.factors = factors
	return nil
}
