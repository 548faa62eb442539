package model

import (
	"github.com/shopspring/decimal"
)

// Tax families tracked per invoice. Keys in CanonicalInvoice.Taxes are
// drawn from this set plus the {FAMILY}_TOTAL document-level variants.
const (
	TaxICMS   = "ICMS"
	TaxIPI    = "IPI"
	TaxPIS    = "PIS"
	TaxCOFINS = "COFINS"
)

// TotalSuffix marks document-level totals in the tax map (e.g. ICMS_TOTAL).
const TotalSuffix = "_TOTAL"

// TaxFamilies lists the known per-item tax families in a fixed order.
var TaxFamilies = []string{TaxICMS, TaxIPI, TaxPIS, TaxCOFINS}

// Party identifies an invoice participant. TaxID holds either a CNPJ
// (corporate, 14 digits) or a CPF (individual, 11 digits).
type Party struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
}

// LineItem is a single product/service row of an invoice.
type LineItem struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CanonicalInvoice is the schema-independent record produced by the
// extraction pipeline. It is built once per document and never mutated
// afterwards; absence of a key in Taxes means the amount was not found,
// not that it is zero.
type CanonicalInvoice struct {
	ID           string                     `json:"id"`
	EmissionDate string                     `json:"emission_date"`
	TotalValue   decimal.Decimal            `json:"total_value"`
	Emitter      Party                      `json:"emitter"`
	Recipient    Party                      `json:"recipient"`
	Items        []LineItem                 `json:"items"`
	Taxes        map[string]decimal.Decimal `json:"taxes"`
}

// ItemSubtotal sums the declared line totals in document order.
func (inv *CanonicalInvoice) ItemSubtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range inv.Items {
		sum = sum.Add(item.LineTotal)
	}
	return sum
}

// TaxAmount returns the aggregated amount for a tax code and whether it
// was present in the document.
func (inv *CanonicalInvoice) TaxAmount(code string) (decimal.Decimal, bool) {
	v, ok := inv.Taxes[code]
	return v, ok
}

// IsKnownTaxCode reports whether code belongs to the closed key set:
// one of the four families or its _TOTAL variant.
func IsKnownTaxCode(code string) bool {
	for _, fam := range TaxFamilies {
		if code == fam || code == fam+TotalSuffix {
			return true
		}
	}
	return false
}
