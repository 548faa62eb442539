// Package processor wires the stages together: sanitize, parse,
// extract, aggregate, audit, format. Each stage is synchronous; the
// only fatal condition is a document that cannot be parsed as XML.
package processor

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fiscalia/nfe-auditor/internal/audit"
	"github.com/fiscalia/nfe-auditor/internal/extract"
	"github.com/fiscalia/nfe-auditor/internal/model"
	"github.com/fiscalia/nfe-auditor/internal/refdata"
	"github.com/fiscalia/nfe-auditor/internal/report"
	"github.com/fiscalia/nfe-auditor/internal/sanitize"
	"github.com/fiscalia/nfe-auditor/internal/xmlpath"
)

// Result is the outcome of processing one document. Either Error is a
// MalformedDocumentError and everything else is empty, or Invoice and
// Report are fully populated; there is no partial in-between.
type Result struct {
	Invoice     *model.CanonicalInvoice `json:"invoice,omitempty"`
	Report      *model.AuditReport      `json:"report,omitempty"`
	Diagnostics []model.Diagnostic      `json:"diagnostics,omitempty"`
	Text        string                  `json:"text,omitempty"`
	Error       error                   `json:"-"`
}

// Pipeline processes invoice documents. Concurrent use on independent
// documents is safe; reference data is read-only for the duration of a
// run.
type Pipeline struct {
	sanitizer *sanitize.Sanitizer
	paths     extract.PathTable
	ref       *refdata.ReferenceData
	engine    *audit.Engine
	logger    zerolog.Logger
}

// Option configures the pipeline.
type Option func(*config)

type config struct {
	paths     extract.PathTable
	ref       *refdata.ReferenceData
	rules     []audit.Rule
	tolerance decimal.Decimal
	logger    zerolog.Logger
}

// WithPathTable overrides the candidate-path table.
func WithPathTable(paths extract.PathTable) Option {
	return func(c *config) {
		c.paths = paths
	}
}

// WithReferenceData supplies the tax-rate table and registries.
func WithReferenceData(ref *refdata.ReferenceData) Option {
	return func(c *config) {
		c.ref = ref
	}
}

// WithRules replaces the default rule set.
func WithRules(rules ...audit.Rule) Option {
	return func(c *config) {
		c.rules = rules
	}
}

// WithTolerance sets the arithmetic-consistency tolerance used by the
// default rules.
func WithTolerance(tolerance decimal.Decimal) Option {
	return func(c *config) {
		c.tolerance = tolerance
	}
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// NewPipeline creates a pipeline. Without options it uses the built-in
// NFe path table, the bundled reference data and the default rule set.
func NewPipeline(opts ...Option) *Pipeline {
	cfg := &config{
		paths:  extract.DefaultPathTable(),
		ref:    refdata.Default(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	rules := cfg.rules
	if rules == nil {
		rules = audit.DefaultRules(cfg.tolerance)
	}

	return &Pipeline{
		sanitizer: sanitize.New(),
		paths:     cfg.paths,
		ref:       cfg.ref,
		engine:    audit.NewEngine(rules),
		logger:    cfg.logger,
	}
}

// Process reads one document and runs the full pipeline.
func (p *Pipeline) Process(ctx context.Context, r io.Reader) *Result {
	data, err := io.ReadAll(r)
	if err != nil {
		return &Result{Error: model.NewMalformedDocumentError("failed to read input", err)}
	}
	return p.ProcessBytes(ctx, data)
}

// ProcessBytes runs the full pipeline on raw document bytes.
func (p *Pipeline) ProcessBytes(ctx context.Context, data []byte) *Result {
	text, diags := p.sanitizer.Clean(data)

	doc, err := xmlpath.Parse(text)
	if err != nil {
		p.logger.Debug().Err(err).Msg("document rejected by XML parser")
		return &Result{Error: model.NewMalformedDocumentError("XML parsing failed", err)}
	}

	extractor := extract.New(p.paths)
	inv, extractDiags := extractor.Extract(doc)
	diags = append(diags, extractDiags...)

	aggregator := extract.NewAggregator(p.paths)
	diags = append(diags, aggregator.Aggregate(extractor.Anchor(doc), inv)...)

	rep := p.engine.Audit(inv, p.ref)

	p.logger.Info().
		Str("invoice_id", inv.ID).
		Str("status", string(rep.Status)).
		Int("findings", len(rep.Findings)).
		Int("diagnostics", len(diags)).
		Msg("document audited")

	return &Result{
		Invoice:     inv,
		Report:      rep,
		Diagnostics: diags,
		Text:        report.Render(inv, rep),
	}
}
