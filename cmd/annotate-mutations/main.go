// Package main provides the annotate-mutations command-line tool.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mutannot/mutannot/internal/annotate"
	"github.com/mutannot/mutannot/internal/cli"
	"github.com/mutannot/mutannot/internal/duckdb"
	"github.com/mutannot/mutannot/internal/mutation"
	"github.com/mutannot/mutannot/internal/output"
	"github.com/mutannot/mutannot/internal/region"
)

const toolName = "annotate-mutations"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	return cli.Execute(newRootCmd(stdout, stderr), args)
}

type options struct {
	referenceFile string
	mutationFile  string
	outputFile    string
	configFile    string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()
	var opts options

	cmd := &cobra.Command{
		Use:   toolName,
		Short: "Annotate mutations using reference data.",
		Long: `Annotate point mutations with the reference regions that contain them.

Each mutation is reported once per containing region. Mutations outside every
region are reported once with "Not Found" as gene, region and sequence.`,
		Example: `  annotate-mutations --reference_file regions.csv --mutation_file mutations.tsv --output_file annotated.tsv

  # Also persist the results in DuckDB
  annotate-mutations --reference_file regions.csv --mutation_file mutations.tsv --output_file annotated.tsv --db results.duckdb`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.Runtime(cli.InitConfig(v, opts.configFile))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(cmd, v, opts)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVar(&opts.referenceFile, "reference_file", "", "Path to the reference data file (CSV format).")
	f.StringVar(&opts.mutationFile, "mutation_file", "", "Path to the mutation data file (TSV format).")
	f.StringVar(&opts.outputFile, "output_file", "", "Path to the output annotated file.")
	cmd.MarkFlagRequired("reference_file")
	cmd.MarkFlagRequired("mutation_file")
	cmd.MarkFlagRequired("output_file")

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

func runAnnotate(cmd *cobra.Command, v *viper.Viper, opts options) error {
	out := cmd.OutOrStdout()

	logger, err := cli.NewLogger(cmd.ErrOrStderr(), v.GetString(cli.KeyLogLevel))
	if err != nil {
		return cli.Runtime(err)
	}
	defer logger.Sync()

	regions, err := region.Load(opts.referenceFile)
	if err != nil {
		return cli.Fail(out, "Error loading reference file", err)
	}
	logger.Info("loaded reference regions",
		zap.String("path", opts.referenceFile),
		zap.Int("regions", len(regions)))

	mutations, err := loadMutations(opts.mutationFile)
	if err != nil {
		return cli.Fail(out, "Error loading mutation file", err)
	}
	logger.Info("loaded mutations",
		zap.String("path", opts.mutationFile),
		zap.Int("mutations", len(mutations)))

	ann := annotate.NewAnnotator(regions)
	ann.SetLogger(logger)
	anns, _ := ann.AnnotateAll(mutations)

	// The database is written first so that a store failure is reported
	// before any output file or success message.
	if dbPath := v.GetString(cli.KeyDBPath); dbPath != "" {
		if err := storeAnnotations(dbPath, opts, anns, logger); err != nil {
			return cli.Fail(out, "Error saving results database", err)
		}
	}

	if err := saveAnnotations(opts.outputFile, anns); err != nil {
		return cli.Fail(out, "Error saving annotated file", err)
	}
	fmt.Fprintf(out, "Annotated mutations saved to %s\n", opts.outputFile)

	return nil
}

func loadMutations(path string) ([]*mutation.Mutation, error) {
	parser, err := mutation.NewParser(path)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	return parser.ReadAll()
}

func saveAnnotations(path string, anns []*annotate.Annotation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := annotate.WriteAll(output.NewTabWriter(f), anns); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func storeAnnotations(dbPath string, opts options, anns []*annotate.Annotation, logger *zap.Logger) error {
	inputs, err := duckdb.StatFiles(opts.referenceFile, opts.mutationFile)
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
	if err := store.WriteAnnotations(runID, anns); err != nil {
		return err
	}

	logger.Info("stored annotations",
		zap.String("db", dbPath),
		zap.String("run_id", runID),
		zap.Int("rows", len(anns)))
	return nil
}
