package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rshade/ecoshop-impact/internal/batch"
	"github.com/rshade/ecoshop-impact/internal/carbon"
)

// productOutput is the JSON document written by the product command.
type productOutput struct {
	carbon.ImpactResult

	// Details lists the factors behind each sub-score when --explain is set.
	Details map[string]string `json:"details,omitempty"`
}

func newProductCmd(a *app) *cobra.Command {
	var (
		file       string
		noExternal bool
		explain    bool
	)
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Calculate the footprint of a single product given as JSON",
		Example: `  ecoshop-impact product --file product.json
  echo '{"id":"1","packaging_material":"glass_container","weight":150}' | ecoshop-impact product --explain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runProduct(cmd, file, !noExternal, explain)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "product JSON file, or - for stdin")
	cmd.Flags().BoolVar(&noExternal, "no-external", false, "use only the approximate manufacturing formula")
	cmd.Flags().BoolVar(&explain, "explain", false, "include the factors behind each sub-score")

	return cmd
}

func (a *app) runProduct(cmd *cobra.Command, file string, useExternal, explain bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := readInput(cmd.InOrStdin(), file)
	if err != nil {
		return err
	}
	var p carbon.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decoding product: %w", err)
	}

	calc := batch.NewCalculator(batch.PipelineConfig{
		Factors:  a.factors,
		Climatiq: a.cfg.ClimatiqConfig(),
	}, a.logger)

	result, err := calc.ComputeProduct(ctx, p, useExternal && a.cfg.UseExternal)
	if err != nil {
		return err
	}

	out := productOutput{ImpactResult: result}
	if explain {
		out.Details = calc.Describe(p)
	}
	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return err
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(file)
}
