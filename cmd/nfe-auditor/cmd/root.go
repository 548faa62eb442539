package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fiscalia/nfe-auditor/internal/extract"
	"github.com/fiscalia/nfe-auditor/internal/processor"
	"github.com/fiscalia/nfe-auditor/internal/refdata"
)

var (
	version = "1.0.0"

	// Global flags
	verbose       bool
	outputFormat  string
	refdataFile   string
	pathTableFile string
	tolerance     string
	apiKey        string
	llmBaseURL    string
	llmModel      string
)

var rootCmd = &cobra.Command{
	Use:   "nfe-auditor",
	Short: "Normalize and audit Brazilian NFe-style invoice XML",
	Long: `NFe Auditor extracts a canonical record from loosely structured
invoice XML and audits it with a configurable rule set.

The extractor tolerates mixed encodings, arbitrary namespace prefixes
and fields that moved between issuer software versions. The audit
checks arithmetic consistency, fiscal identifier formats and purchase
order alignment against externally supplied reference data.

Examples:
  # Audit a single invoice
  nfe-auditor audit nota.xml

  # Extract the canonical record as JSON
  nfe-auditor extract nota.xml -f json

  # Audit with custom reference data and tolerance
  nfe-auditor audit nota.xml --refdata refdata.yaml --tolerance 0.05

  # Run the HTTP API
  nfe-auditor serve --address :8080`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "text", "Output format (text, json)")
	rootCmd.PersistentFlags().StringVar(&refdataFile, "refdata", "", "Reference data file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&pathTableFile, "paths", "", "Candidate path table file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&tolerance, "tolerance", "", "Arithmetic tolerance (default 0.01)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key for narrative analysis (env: LLM_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&llmBaseURL, "llm-base-url", "", "LLM API base URL (env: LLM_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&llmModel, "llm-model", "", "LLM model (env: LLM_MODEL)")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if apiKey == "" {
		apiKey = os.Getenv("LLM_API_KEY")
	}
	if llmBaseURL == "" {
		llmBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if llmModel == "" {
		llmModel = os.Getenv("LLM_MODEL")
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// buildPipeline assembles a pipeline from the global flags.
func buildPipeline(logger zerolog.Logger) (*processor.Pipeline, error) {
	opts := []processor.Option{processor.WithLogger(logger)}

	if refdataFile != "" {
		ref, err := refdata.Load(refdataFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, processor.WithReferenceData(ref))
	}

	if pathTableFile != "" {
		table, err := refdata.LoadPathTable(pathTableFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, processor.WithPathTable(table))
	} else {
		opts = append(opts, processor.WithPathTable(extract.DefaultPathTable()))
	}

	if tolerance != "" {
		tol, err := decimal.NewFromString(tolerance)
		if err != nil {
			return nil, err
		}
		opts = append(opts, processor.WithTolerance(tol))
	}

	return processor.NewPipeline(opts...), nil
}
