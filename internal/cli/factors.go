package cli

import (
	"github.com/spf13/cobra"
)

func newFactorsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "factors",
		Short: "Print the effective factor tables as YAML",
		Long: `Prints the lookup tables used by the calculation: the built-in defaults
with any --factors or ECOSHOP_FACTORS_FILE overrides applied. The output is
a valid override file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := a.factors.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
