package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fiscalia/nfe-auditor/internal/model"
	"github.com/fiscalia/nfe-auditor/internal/report"
)

var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Extract canonical records from invoice files",
	Long: `Extract the canonical invoice record from each file without
running the audit.

Examples:
  nfe-auditor extract nota.xml
  nfe-auditor extract *.xml -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

type extractResult struct {
	File        string                  `json:"file"`
	Invoice     *model.CanonicalInvoice `json:"invoice,omitempty"`
	Diagnostics []model.Diagnostic      `json:"diagnostics,omitempty"`
	Error       string                  `json:"error,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	pipeline, err := buildPipeline(logger)
	if err != nil {
		return err
	}

	results := make([]*extractResult, 0, len(args))
	failed := false
	for _, file := range args {
		result := &extractResult{File: file}

		data, err := os.ReadFile(file)
		if err != nil {
			result.Error = fmt.Sprintf("failed to read file: %v", err)
			results = append(results, result)
			failed = true
			continue
		}

		pr := pipeline.ProcessBytes(context.Background(), data)
		if pr.Error != nil {
			result.Error = pr.Error.Error()
			failed = true
		} else {
			result.Invoice = pr.Invoice
			result.Diagnostics = pr.Diagnostics
		}
		results = append(results, result)
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	} else {
		printExtractTable(results)
	}

	if failed {
		return fmt.Errorf("extraction failed for some files")
	}
	return nil
}

func printExtractTable(results []*extractResult) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tID\tDATE\tEMITTER\tRECIPIENT\tITEMS\tTOTAL")
	fmt.Fprintln(tw, "----\t--\t----\t-------\t---------\t-----\t-----")
	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\tERROR: %s\t\t\t\t\t\n", r.File, r.Error)
			continue
		}
		inv := r.Invoice
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.File,
			inv.ID,
			inv.EmissionDate,
			inv.Emitter.Name,
			inv.Recipient.Name,
			len(inv.Items),
			report.FormatBRL(inv.TotalValue),
		)
	}
	tw.Flush()
}
