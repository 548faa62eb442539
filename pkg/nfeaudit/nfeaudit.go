// Package nfeaudit provides the public API for normalizing and auditing
// NFe-style invoice XML.
//
// Example usage:
//
//	auditor := nfeaudit.NewAuditor(nfeaudit.Options{})
//	result, err := auditor.Audit(ctx, reader)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Text)
package nfeaudit

import (
	"github.com/fiscalia/nfe-auditor/internal/audit"
	"github.com/fiscalia/nfe-auditor/internal/model"
	"github.com/fiscalia/nfe-auditor/internal/refdata"
)

// Re-export core types for the public API
type (
	CanonicalInvoice = model.CanonicalInvoice
	LineItem         = model.LineItem
	Party            = model.Party
	AuditReport      = model.AuditReport
	AuditFinding     = model.AuditFinding
	AuditStatus      = model.AuditStatus
	RuleOutcome      = model.RuleOutcome
	Diagnostic       = model.Diagnostic

	Rule          = audit.Rule
	RuleFunc      = audit.RuleFunc
	ReferenceData = refdata.ReferenceData
	PurchaseOrder = refdata.PurchaseOrder
)

// Re-export statuses
const (
	StatusPassed = model.StatusPassed
	StatusFailed = model.StatusFailed
)

// Re-export tax codes
const (
	TaxICMS   = model.TaxICMS
	TaxIPI    = model.TaxIPI
	TaxPIS    = model.TaxPIS
	TaxCOFINS = model.TaxCOFINS
)

// Re-export error types
type (
	MalformedDocumentError = model.MalformedDocumentError
)

// DefaultReferenceData returns the bundled mock reference tables.
func DefaultReferenceData() *ReferenceData {
	return refdata.Default()
}

// LoadReferenceData reads reference data from a YAML or JSON file.
func LoadReferenceData(path string) (*ReferenceData, error) {
	return refdata.Load(path)
}
