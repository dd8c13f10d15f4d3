package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-imd/imd"
	"github.com/cwbudde/algo-imd/internal/config"
	"github.com/cwbudde/algo-imd/internal/record"
)

// minArgs is ORDER plus two frequencies.
const minArgs = 3

var errUsage = errors.New("not enough arguments")

type options struct {
	configPath string
	list       bool
	countOnly  bool
	workers    int
	band       string
	sqlite     string
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "imdcalc [flags] ORDER FREQ1 FREQ2 [FREQ3 ... FREQn]",
		Short: "Enumerate intermodulation distortion products",
		Long: `imdcalc lists every intermodulation product of the given transmit ` +
			`frequencies for an odd order (3, 5, 7, ...). Pure harmonics are ` +
			`excluded and each product is reported once on the positive frequency side.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.configPath == "" && len(args) < minArgs {
				return fmt.Errorf("%w: need ORDER and at least two frequencies", errUsage)
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			plan, err := resolvePlan(cmd, opts, args)
			if err != nil {
				return err
			}

			return run(cmd.Context(), cmd.OutOrStdout(), plan)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML run plan (order, frequencies, workers, band, sqlite, list)")
	flags.BoolVarP(&opts.list, "list", "l", false, "print every product")
	flags.BoolVar(&opts.countOnly, "count-only", false, "count products without keeping them")
	flags.IntVarP(&opts.workers, "workers", "w", 1, "goroutines used for the enumeration")
	flags.StringVarP(&opts.band, "band", "b", "", "only report products inside LOW:HIGH")
	flags.StringVar(&opts.sqlite, "sqlite", "", "record the products into this SQLite database")
	cmd.MarkFlagsMutuallyExclusive("count-only", "list")
	cmd.MarkFlagsMutuallyExclusive("count-only", "sqlite")

	return cmd
}

// resolvePlan merges the optional plan file with positional arguments and
// flags. Arguments and explicitly set flags win over the file.
func resolvePlan(cmd *cobra.Command, opts options, args []string) (*config.Plan, error) {
	plan := &config.Plan{Workers: opts.workers}

	if opts.configPath != "" {
		p, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}

		plan = p
	}

	if len(args) > 0 {
		if len(args) < minArgs {
			return nil, fmt.Errorf("%w: need ORDER and at least two frequencies", errUsage)
		}

		order, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid order %q: %w", args[0], err)
		}

		plan.Order = order
		plan.Frequencies = args[1:]
	}

	flags := cmd.Flags()

	if flags.Changed("workers") || plan.Workers == 0 {
		plan.Workers = opts.workers
	}

	if flags.Changed("list") {
		plan.List = opts.list
	}

	if flags.Changed("sqlite") {
		plan.SQLite = opts.sqlite
	}

	if opts.band != "" {
		band, err := config.ParseBand(opts.band)
		if err != nil {
			return nil, err
		}

		plan.Band = &band
	}

	if opts.countOnly {
		plan.List = false
		plan.SQLite = ""
	}

	return plan, plan.Validate()
}

func run(ctx context.Context, out io.Writer, plan *config.Plan) error {
	logger := log.New(out, "", 0)

	freqs, err := plan.Tones()
	if err != nil {
		return err
	}

	e, err := imd.New(freqs, imd.WithWorkers(plan.Workers))
	if err != nil {
		return err
	}

	logger.Printf("ORDER: %d", plan.Order)
	logger.Printf("FREQUENCIES: %v", freqs)

	start := time.Now()

	var (
		products imd.Products
		count    int
	)

	if needProducts(plan) {
		products, err = e.CalculateContext(ctx, plan.Order)
		if err != nil {
			return err
		}

		if plan.Band != nil {
			products = products.InBand(plan.Band.Low, plan.Band.High)
		}

		count = len(products)
	} else {
		count, err = e.Count(ctx, plan.Order)
		if err != nil {
			return err
		}
	}

	elapsed := time.Since(start)

	logger.Printf("Time taken: %.5f seconds", elapsed.Seconds())

	if plan.Band != nil {
		logger.Printf("Found %d IMD products in band %s", count, plan.Band)
	} else {
		logger.Printf("Found %d IMD products", count)
	}

	if plan.SQLite != "" {
		if err := recordRun(logger, plan, freqs, products); err != nil {
			return err
		}
	}

	if plan.List {
		return printProducts(out, products)
	}

	return nil
}

func needProducts(plan *config.Plan) bool {
	return plan.List || plan.Band != nil || plan.SQLite != ""
}

func recordRun(logger *log.Logger, plan *config.Plan, freqs []float64, products imd.Products) error {
	rec, err := record.New(plan.SQLite)
	if err != nil {
		return err
	}
	defer rec.Close()

	id, err := rec.Record(plan.Order, freqs, products)
	if err != nil {
		return err
	}

	logger.Printf("Recorded run %s in %s", id, rec.Path())

	return nil
}

func printProducts(out io.Writer, products imd.Products) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintf(tw, "Coefficients\tOrder\tFrequency\n"); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}

	for _, p := range products {
		if _, err := fmt.Fprintf(tw, "%v\t%d\t%s\n",
			[]int(p.Coefficients),
			p.Order(),
			strconv.FormatFloat(p.Frequency, 'f', -1, 64),
		); err != nil {
			return fmt.Errorf("failed to write output row: %w", err)
		}
	}

	return tw.Flush()
}
