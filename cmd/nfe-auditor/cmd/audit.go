package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fiscalia/nfe-auditor/internal/llm"
	"github.com/fiscalia/nfe-auditor/internal/model"
	"github.com/fiscalia/nfe-auditor/internal/processor"
)

var (
	analyze      bool
	auditTimeout time.Duration
)

var auditCmd = &cobra.Command{
	Use:   "audit [files...]",
	Short: "Audit invoice files",
	Long: `Extract each invoice and evaluate the audit rule set against it.

The exit code is non-zero when any document is malformed or any audit
reports FAILED.

Examples:
  nfe-auditor audit nota.xml
  nfe-auditor audit *.xml -f json
  nfe-auditor audit nota.xml --analyze --api-key <key>`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().BoolVar(&analyze, "analyze", false, "Append a narrative analysis of the report (requires --api-key)")
	auditCmd.Flags().DurationVar(&auditTimeout, "timeout", 2*time.Minute, "Processing timeout per file")
}

// auditResult is the JSON shape of one audited file.
type auditResult struct {
	File        string                  `json:"file"`
	Invoice     *model.CanonicalInvoice `json:"invoice,omitempty"`
	Report      *model.AuditReport      `json:"report,omitempty"`
	Diagnostics []model.Diagnostic      `json:"diagnostics,omitempty"`
	Analysis    string                  `json:"analysis,omitempty"`
	Error       string                  `json:"error,omitempty"`

	text string
}

func runAudit(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	pipeline, err := buildPipeline(logger)
	if err != nil {
		return err
	}

	var analyst *llm.Analyst
	if analyze {
		if apiKey == "" {
			return fmt.Errorf("--analyze requires an API key (--api-key or LLM_API_KEY)")
		}
		var clientOpts []llm.ClientOption
		if llmBaseURL != "" {
			clientOpts = append(clientOpts, llm.WithBaseURL(llmBaseURL))
		}
		if llmModel != "" {
			clientOpts = append(clientOpts, llm.WithModel(llmModel))
		}
		analyst = llm.NewAnalyst(llm.NewClient(apiKey, clientOpts...))
	}

	results := make([]*auditResult, 0, len(args))
	failed := false
	for _, file := range args {
		result := auditFile(pipeline, analyst, file)
		results = append(results, result)
		if result.Error != "" || (result.Report != nil && result.Report.Status == model.StatusFailed) {
			failed = true
		}
	}

	if err := outputAuditResults(results); err != nil {
		return err
	}
	if failed {
		return fmt.Errorf("audit failed for some files")
	}
	return nil
}

func auditFile(pipeline *processor.Pipeline, analyst *llm.Analyst, file string) *auditResult {
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	result := &auditResult{File: file}

	data, err := os.ReadFile(file)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read file: %v", err)
		return result
	}

	pr := pipeline.ProcessBytes(ctx, data)
	if pr.Error != nil {
		result.Error = pr.Error.Error()
		return result
	}

	result.Invoice = pr.Invoice
	result.Report = pr.Report
	result.Diagnostics = pr.Diagnostics
	result.text = pr.Text

	if analyst != nil {
		analysis, err := analyst.AnalyzeReport(ctx, pr.Text)
		if err != nil {
			result.Error = fmt.Sprintf("narrative analysis failed: %v", err)
			return result
		}
		result.Analysis = analysis
	}

	return result
}

func outputAuditResults(results []*auditResult) error {
	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}

	for i, r := range results {
		if i > 0 {
			fmt.Println()
		}
		if r.Error != "" {
			fmt.Printf("✗ %s: %s\n", r.File, r.Error)
			continue
		}
		fmt.Println(r.text)
		for _, d := range r.Diagnostics {
			fmt.Printf("  ⚠ %s\n", d)
		}
		if r.Analysis != "" {
			fmt.Println("\nAnalysis:")
			fmt.Println(r.Analysis)
		}
	}
	return nil
}
