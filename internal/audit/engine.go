// Package audit evaluates pluggable pass/fail rules against a canonical
// invoice and externally supplied reference data.
package audit

import (
	"fmt"
	"time"

	"github.com/fiscalia/nfe-auditor/internal/model"
	"github.com/fiscalia/nfe-auditor/internal/refdata"
)

// Rule is one audit check. Evaluate must treat both arguments as
// read-only; it may be called concurrently for independent invoices.
type Rule interface {
	// ID identifies the rule in findings.
	ID() string

	// Evaluate runs the check against the invoice and reference data.
	Evaluate(inv *model.CanonicalInvoice, ref *refdata.ReferenceData) model.RuleOutcome
}

// RuleFunc adapts a plain function into a Rule.
type RuleFunc struct {
	RuleID string
	Fn     func(inv *model.CanonicalInvoice, ref *refdata.ReferenceData) model.RuleOutcome
}

func (r RuleFunc) ID() string { return r.RuleID }

func (r RuleFunc) Evaluate(inv *model.CanonicalInvoice, ref *refdata.ReferenceData) model.RuleOutcome {
	return r.Fn(inv, ref)
}

// Engine runs every registered rule and collects a finding per failure.
type Engine struct {
	rules []Rule
	now   func() time.Time
}

// Option configures the engine.
type Option func(*Engine)

// WithClock overrides the audit timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine with the given rules. Order of rules is
// the order findings appear in the report.
func NewEngine(rules []Rule, opts ...Option) *Engine {
	e := &Engine{
		rules: rules,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register appends a rule to the evaluation list.
func (e *Engine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Audit evaluates every rule. A rule that panics does not abort the
// audit: the panic is converted into a finding for that rule and the
// remaining rules still run. Status is FAILED iff at least one finding
// was collected.
func (e *Engine) Audit(inv *model.CanonicalInvoice, ref *refdata.ReferenceData) *model.AuditReport {
	findings := make([]model.AuditFinding, 0, len(e.rules))

	for _, rule := range e.rules {
		outcome := e.evaluate(rule, inv, ref)
		if !outcome.Passed {
			findings = append(findings, model.AuditFinding{
				RuleID:  rule.ID(),
				Message: outcome.Message,
			})
		}
	}

	return model.NewAuditReport(inv.ID, e.now().UTC(), findings)
}

// evaluate isolates a single rule so one broken evaluator cannot take
// the whole audit down.
func (e *Engine) evaluate(rule Rule, inv *model.CanonicalInvoice, ref *refdata.ReferenceData) (outcome model.RuleOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = model.Fail(fmt.Sprintf("rule %s failed to evaluate: %v", rule.ID(), r))
		}
	}()
	return rule.Evaluate(inv, ref)
}
