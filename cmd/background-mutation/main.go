// Package main provides the background-mutation command-line tool.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mutannot/mutannot/internal/cli"
	"github.com/mutannot/mutannot/internal/duckdb"
	"github.com/mutannot/mutannot/internal/output"
	"github.com/mutannot/mutannot/internal/somatic"
	"github.com/mutannot/mutannot/internal/vcf"
)

const toolName = "background-mutation"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	return cli.Execute(newRootCmd(stdout, stderr), args)
}

type options struct {
	inputFile  string
	outputFile string
	statsFile  string
	configFile string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()
	var opts options

	cmd := &cobra.Command{
		Use:   toolName,
		Short: "Process VCF file to extract somatic mutations and calculate background mutation level.",
		Long: `Extract somatic calls from a paired tumor/normal VCF and estimate the
background allele frequency of the normal sample.

The VCF body must have the columns CHROM POS ID REF ALT QUAL FILTER INFO
FORMAT TUMOR NORMAL, with GT:AD:AF leading each sample column.`,
		Example: `  background-mutation -i paired.vcf -o somatic.tsv -s stats.txt
  background-mutation -i paired.vcf.gz -o somatic.tsv -s stats.txt --db results.duckdb`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.Runtime(cli.InitConfig(v, opts.configFile))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackground(cmd, v, opts)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVarP(&opts.inputFile, "input", "i", "", "Input VCF file.")
	f.StringVarP(&opts.outputFile, "output", "o", "", "Output file to save results (somatic mutations).")
	f.StringVarP(&opts.statsFile, "stats", "s", "", "Output file to save stats (background mutation level and RPM).")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	cmd.MarkFlagRequired("stats")

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "Config file (default ~/.mutannot.yaml)")
	pf.String("log-level", "warn", "Log level: debug, info, warn, error")
	pf.String("db", "", "DuckDB file to also store results in (optional)")
	v.BindPFlag(cli.KeyLogLevel, pf.Lookup("log-level"))
	v.BindPFlag(cli.KeyDBPath, pf.Lookup("db"))

	cmd.AddCommand(cli.NewConfigCmd(v, toolName))
	cmd.AddCommand(cli.NewVersionCmd(toolName))

	return cmd
}

func runBackground(cmd *cobra.Command, v *viper.Viper, opts options) error {
	out := cmd.OutOrStdout()

	logger, err := cli.NewLogger(cmd.ErrOrStderr(), v.GetString(cli.KeyLogLevel))
	if err != nil {
		return cli.Runtime(err)
	}
	defer logger.Sync()

	calls, err := loadCalls(opts.inputFile)
	if err != nil {
		return cli.Fail(out, "Error loading VCF file", err)
	}
	logger.Info("loaded calls",
		zap.String("path", opts.inputFile),
		zap.Int("calls", len(calls)))

	calc := somatic.NewCalculator()
	calc.SetLogger(logger)
	stats, err := calc.Summarize(calls)
	if err != nil {
		return cli.Fail(out, "Error processing VCF file", err)
	}

	// The database is written first so that a store failure is reported
	// before any output file or success message.
	if dbPath := v.GetString(cli.KeyDBPath); dbPath != "" {
		if err := storeResults(dbPath, opts.inputFile, stats, logger); err != nil {
			return cli.Fail(out, "Error saving results database", err)
		}
	}

	if err := saveSomatic(opts.outputFile, stats.Somatic); err != nil {
		return cli.Fail(out, "Error saving somatic mutations", err)
	}
	fmt.Fprintf(out, "Found %d somatic mutations present in the Tumor sample but absent in the Normal tissue.\n", stats.SomaticCount())
	fmt.Fprintf(out, "Somatic mutations saved to %s.\n", opts.outputFile)

	if err := saveStats(opts.statsFile, stats, opts.outputFile); err != nil {
		return cli.Fail(out, "Error saving stats file", err)
	}
	fmt.Fprintf(out, "Stats saved to %s.\n", opts.statsFile)

	return nil
}

func loadCalls(path string) ([]*vcf.Call, error) {
	parser, err := vcf.NewParser(path)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	return parser.ReadAll()
}

func saveSomatic(path string, calls []*vcf.Call) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := output.NewSomaticWriter(f).WriteAll(calls); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func saveStats(path string, stats *somatic.Stats, somaticPath string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := output.WriteStats(f, stats, somaticPath); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func storeResults(dbPath, inputFile string, stats *somatic.Stats, logger *zap.Logger) error {
	inputs, err := duckdb.StatFiles(inputFile)
	if err != nil {
		return err
	}

	store, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, err := store.BeginRun(toolName, inputs...)
	if err != nil {
		return err
	}
	if err := store.WriteSomaticCalls(runID, stats.Somatic); err != nil {
		return err
	}
	if err := store.WriteBackgroundStats(runID, stats); err != nil {
		return err
	}

	logger.Info("stored results",
		zap.String("db", dbPath),
		zap.String("run_id", runID),
		zap.Int("somatic", stats.SomaticCount()))
	return nil
}
