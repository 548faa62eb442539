package nfeaudit

import (
	"context"
	"io"

	"github.com/shopspring/decimal"

	"github.com/fiscalia/nfe-auditor/internal/processor"
)

// Options configures an Auditor. The zero value uses the built-in NFe
// path table, the bundled reference data and the default rule set.
type Options struct {
	// ReferenceData supplies the tax-rate table, registries and an
	// optional purchase order. Nil uses the bundled defaults.
	ReferenceData *ReferenceData

	// Rules replaces the default rule set entirely.
	Rules []Rule

	// Tolerance is the arithmetic-consistency tolerance for the default
	// rules. Zero means one centavo.
	Tolerance decimal.Decimal
}

// Result is the outcome of auditing one document.
type Result struct {
	Invoice     *CanonicalInvoice
	Report      *AuditReport
	Diagnostics []Diagnostic
	// Text is the deterministic plain-text rendering of summary and
	// audit report.
	Text string
}

// Auditor runs the normalization, extraction and audit pipeline.
type Auditor struct {
	pipeline *processor.Pipeline
}

// NewAuditor creates an auditor with the given options.
func NewAuditor(opts Options) *Auditor {
	var pOpts []processor.Option
	if opts.ReferenceData != nil {
		pOpts = append(pOpts, processor.WithReferenceData(opts.ReferenceData))
	}
	if opts.Rules != nil {
		pOpts = append(pOpts, processor.WithRules(opts.Rules...))
	}
	if !opts.Tolerance.IsZero() {
		pOpts = append(pOpts, processor.WithTolerance(opts.Tolerance))
	}
	return &Auditor{pipeline: processor.NewPipeline(pOpts...)}
}

// Audit processes one document. The returned error is non-nil only for
// a malformed document; every other degradation shows up in
// Result.Diagnostics or as audit findings.
func (a *Auditor) Audit(ctx context.Context, r io.Reader) (*Result, error) {
	pr := a.pipeline.Process(ctx, r)
	if pr.Error != nil {
		return nil, pr.Error
	}
	return &Result{
		Invoice:     pr.Invoice,
		Report:      pr.Report,
		Diagnostics: pr.Diagnostics,
		Text:        pr.Text,
	}, nil
}

// AuditBytes processes raw document bytes.
func (a *Auditor) AuditBytes(ctx context.Context, data []byte) (*Result, error) {
	pr := a.pipeline.ProcessBytes(ctx, data)
	if pr.Error != nil {
		return nil, pr.Error
	}
	return &Result{
		Invoice:     pr.Invoice,
		Report:      pr.Report,
		Diagnostics: pr.Diagnostics,
		Text:        pr.Text,
	}, nil
}
