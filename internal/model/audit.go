package model

import "time"

// AuditStatus is the overall outcome of an audit run.
type AuditStatus string

const (
	StatusPassed AuditStatus = "PASSED"
	StatusFailed AuditStatus = "FAILED"
)

// RuleOutcome is the result of evaluating a single audit rule.
type RuleOutcome struct {
	Passed  bool
	Message string
}

// Pass returns a passing outcome.
func Pass() RuleOutcome {
	return RuleOutcome{Passed: true}
}

// Fail returns a failing outcome with the given message.
func Fail(message string) RuleOutcome {
	return RuleOutcome{Passed: false, Message: message}
}

// AuditFinding records one failed rule.
type AuditFinding struct {
	RuleID  string `json:"rule_id"`
	Message string `json:"message"`
}

// AuditReport is the immutable result of auditing one CanonicalInvoice.
// Status is derived: FAILED iff Findings is non-empty.
type AuditReport struct {
	InvoiceID      string         `json:"invoice_id"`
	AuditTimestamp time.Time      `json:"audit_timestamp"`
	Findings       []AuditFinding `json:"findings"`
	Status         AuditStatus    `json:"status"`
}

// NewAuditReport builds a report with the derived status.
func NewAuditReport(invoiceID string, ts time.Time, findings []AuditFinding) *AuditReport {
	status := StatusPassed
	if len(findings) > 0 {
		status = StatusFailed
	}
	return &AuditReport{
		InvoiceID:      invoiceID,
		AuditTimestamp: ts,
		Findings:       findings,
		Status:         status,
	}
}
