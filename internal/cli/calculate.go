package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoshop-impact/internal/batch"
	"github.com/rshade/ecoshop-impact/internal/carbon"
	"github.com/rshade/ecoshop-impact/internal/dataset"
	"github.com/rshade/ecoshop-impact/internal/observability"
)

type calculateOptions struct {
	input         string
	output        string
	delay         time.Duration
	delayPolicy   string
	noExternal    bool
	metricsListen string
}

func newCalculateCmd(a *app) *cobra.Command {
	var opts calculateOptions
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate footprints for every product in a CSV or XLSX file",
		Long: `Reads a product table, computes materials, transport and manufacturing
footprints for each row, and writes the table back with the columns
huella_materiales, huella_transporte, huella_manufactura, huella_total and
eco_badge appended. Row order and existing columns are preserved.`,
		Example: `  ecoshop-impact calculate --input data/products.csv
  ecoshop-impact calculate --input data/products.csv --delay 500ms --delay-policy external-only
  ecoshop-impact calculate --input data/products.xlsx --output out/impact.xlsx --metrics-listen :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCalculate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "input product table (.csv or .xlsx)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path (default <input>_with_impact.<ext>)")
	cmd.Flags().DurationVar(&opts.delay, "delay", batch.DefaultDelay, "pause between manufacturing estimates")
	cmd.Flags().StringVar(&opts.delayPolicy, "delay-policy", string(batch.DelayAlways), "when to pause (always, external-only)")
	cmd.Flags().BoolVar(&opts.noExternal, "no-external", false, "use only the approximate manufacturing formula")
	cmd.Flags().StringVar(&opts.metricsListen, "metrics-listen", "", "serve Prometheus metrics on this address during the run")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (a *app) runCalculate(cmd *cobra.Command, opts calculateOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	batchOpts, err := a.batchOptions(cmd, opts)
	if err != nil {
		return err
	}
	output := opts.output
	if output == "" {
		output = defaultOutputPath(opts.input)
	}

	table, err := dataset.ReadFile(opts.input)
	if err != nil {
		return err
	}
	products, err := table.Products()
	if err != nil {
		return fmt.Errorf("%s: %w", opts.input, err)
	}
	a.logger.Info().
		Str("path", opts.input).
		Int("products", len(products)).
		Msg("products loaded")

	metrics := observability.NewMetrics()
	listen := opts.metricsListen
	if listen == "" {
		listen = a.cfg.MetricsListen
	}
	if listen != "" {
		serveCtx, stop := context.WithCancel(ctx)
		defer stop()
		go func() {
			if err := metrics.Serve(serveCtx, listen, a.logger); err != nil {
				a.logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}
	batchOpts.Recorder = metrics

	calc := batch.NewCalculator(batch.PipelineConfig{
		Factors:  a.factors,
		Climatiq: a.cfg.ClimatiqConfig(),
		Recorder: metrics,
	}, a.logger)

	results, runErr := batch.NewDriver(calc, batchOpts, a.logger).Run(ctx, products)

	augmented, err := dataset.Augment(table, results)
	if err != nil {
		return err
	}
	if err := dataset.WriteFile(output, augmented); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	a.logger.Info().Str("path", output).Msg("results written")

	summary := carbon.Summarize(results)
	a.logger.Info().
		Int("count", summary.Count).
		Int("failed", summary.Failed).
		Int("external", summary.ExternalCount).
		Float64("mean_kg", summary.MeanKg).
		Msg("batch complete")
	printSummary(cmd.OutOrStdout(), summary, output)

	return runErr
}

func (a *app) batchOptions(cmd *cobra.Command, opts calculateOptions) (batch.Options, error) {
	out := a.cfg.BatchOptions()
	flags := cmd.Flags()
	if flags.Changed("delay") {
		if opts.delay < 0 {
			return out, fmt.Errorf("delay must be >= 0, got %s", opts.delay)
		}
		out.Delay = opts.delay
	}
	if flags.Changed("delay-policy") {
		policy, err := batch.ParseDelayPolicy(opts.delayPolicy)
		if err != nil {
			return out, err
		}
		out.DelayPolicy = policy
	}
	if opts.noExternal {
		out.UseExternal = false
	}
	return out, nil
}

// defaultOutputPath returns <dir>/<name>_with_impact<ext>.
func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_with_impact" + ext
}

func printSummary(w io.Writer, s carbon.Summary, output string) {
	fmt.Fprintf(w, "Results saved to %s\n\n", output)
	fmt.Fprintf(w, "Products: %d calculated, %d failed, %d with external manufacturing estimate\n",
		s.Count, s.Failed, s.ExternalCount)
	if s.Count == 0 {
		return
	}
	fmt.Fprintf(w, "Average footprint: %.3f kg CO2e\n", s.MeanKg)
	fmt.Fprintf(w, "Minimum footprint: %.3f kg CO2e\n", s.MinKg)
	fmt.Fprintf(w, "Maximum footprint: %.3f kg CO2e\n", s.MaxKg)
	fmt.Fprintln(w, "\nBadge distribution:")
	for _, b := range carbon.Badges {
		if n := s.Badges[b]; n > 0 {
			fmt.Fprintf(w, "  %-18s %d\n", b.Display(), n)
		}
	}
}
