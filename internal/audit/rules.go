package audit

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fiscalia/nfe-auditor/internal/model"
	"github.com/fiscalia/nfe-auditor/internal/money"
	"github.com/fiscalia/nfe-auditor/internal/refdata"
)

// DefaultRules returns the built-in rule set. Tolerance applies to
// every arithmetic comparison; pass a zero decimal to use the default
// of one centavo.
func DefaultRules(tolerance decimal.Decimal) []Rule {
	if tolerance.IsZero() {
		tolerance = money.DefaultTolerance
	}
	return []Rule{
		ArithmeticConsistency{Tolerance: tolerance},
		FiscalIdentifiers{},
		TaxCodeSet{},
		PartyRegistry{},
		PurchaseOrderAlignment{Tolerance: tolerance},
	}
}

// ArithmeticConsistency checks that each line's quantity × unit price
// matches its declared line total and that the item subtotal matches
// the declared document total, within the configured tolerance.
type ArithmeticConsistency struct {
	Tolerance decimal.Decimal
}

func (ArithmeticConsistency) ID() string { return "arithmetic-consistency" }

func (r ArithmeticConsistency) Evaluate(inv *model.CanonicalInvoice, _ *refdata.ReferenceData) model.RuleOutcome {
	var problems []string

	for i, item := range inv.Items {
		expected := money.Mul(item.Quantity, item.UnitPrice)
		if !money.WithinTolerance(expected, item.LineTotal, r.Tolerance) {
			problems = append(problems, fmt.Sprintf(
				"item %d: %s × %s = %s but line total is %s",
				i+1, item.Quantity, item.UnitPrice, expected, item.LineTotal))
		}
	}

	subtotal := inv.ItemSubtotal()
	if len(inv.Items) > 0 && !money.WithinTolerance(subtotal, inv.TotalValue, r.Tolerance) {
		problems = append(problems, fmt.Sprintf(
			"item subtotal %s does not match declared total %s",
			subtotal, inv.TotalValue))
	}

	if len(problems) > 0 {
		return model.Fail("tax calculations are inconsistent: " + strings.Join(problems, "; "))
	}
	return model.Pass()
}

// FiscalIdentifiers checks that emitter and recipient carry identifiers
// in a known format: 14 digits (CNPJ) or 11 digits (CPF), ignoring
// punctuation. Only structure is checked, not registry validity.
type FiscalIdentifiers struct{}

func (FiscalIdentifiers) ID() string { return "fiscal-identifiers" }

func (FiscalIdentifiers) Evaluate(inv *model.CanonicalInvoice, _ *refdata.ReferenceData) model.RuleOutcome {
	var problems []string

	if msg := checkTaxID("emitter", inv.Emitter.TaxID); msg != "" {
		problems = append(problems, msg)
	}
	if msg := checkTaxID("recipient", inv.Recipient.TaxID); msg != "" {
		problems = append(problems, msg)
	}

	if len(problems) > 0 {
		return model.Fail("inconsistent fiscal codes detected: " + strings.Join(problems, "; "))
	}
	return model.Pass()
}

func checkTaxID(role, id string) string {
	digits := digitsOnly(id)
	if digits == "" {
		return role + " tax identifier is missing"
	}
	if len(digits) != 11 && len(digits) != 14 {
		return fmt.Sprintf("%s tax identifier %q is neither a CPF (11 digits) nor a CNPJ (14 digits)", role, id)
	}
	return ""
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// TaxCodeSet checks that every key of the tax map belongs to the closed
// set of known families and their _TOTAL variants.
type TaxCodeSet struct{}

func (TaxCodeSet) ID() string { return "tax-code-set" }

func (TaxCodeSet) Evaluate(inv *model.CanonicalInvoice, _ *refdata.ReferenceData) model.RuleOutcome {
	var unknown []string
	for code := range inv.Taxes {
		if !model.IsKnownTaxCode(code) {
			unknown = append(unknown, code)
		}
	}
	if len(unknown) > 0 {
		return model.Fail("unknown tax codes: " + strings.Join(unknown, ", "))
	}
	return model.Pass()
}

// PartyRegistry checks the emitter against the supplier registry and
// the recipient against the customer registry. Sides with an empty
// identifier or an empty registry are skipped; identifier format is the
// FiscalIdentifiers rule's job.
type PartyRegistry struct{}

func (PartyRegistry) ID() string { return "party-registry" }

func (PartyRegistry) Evaluate(inv *model.CanonicalInvoice, ref *refdata.ReferenceData) model.RuleOutcome {
	var problems []string

	if len(ref.Suppliers) > 0 && inv.Emitter.TaxID != "" {
		if _, ok := ref.SupplierByID(inv.Emitter.TaxID); !ok {
			problems = append(problems, fmt.Sprintf("emitter %q is not a registered supplier", inv.Emitter.TaxID))
		}
	}
	if len(ref.Customers) > 0 && inv.Recipient.TaxID != "" {
		if _, ok := ref.CustomerByID(inv.Recipient.TaxID); !ok {
			problems = append(problems, fmt.Sprintf("recipient %q is not a registered customer", inv.Recipient.TaxID))
		}
	}

	if len(problems) > 0 {
		return model.Fail(strings.Join(problems, "; "))
	}
	return model.Pass()
}

// PurchaseOrderAlignment cross-checks the invoice against the reference
// purchase order when one was supplied; without an order the rule
// passes.
type PurchaseOrderAlignment struct {
	Tolerance decimal.Decimal
}

func (PurchaseOrderAlignment) ID() string { return "purchase-order-alignment" }

func (r PurchaseOrderAlignment) Evaluate(inv *model.CanonicalInvoice, ref *refdata.ReferenceData) model.RuleOutcome {
	order := ref.Order
	if order == nil {
		return model.Pass()
	}

	var problems []string

	if len(order.Lines) != len(inv.Items) {
		problems = append(problems, fmt.Sprintf(
			"order %s has %d lines but the invoice has %d items",
			order.Number, len(order.Lines), len(inv.Items)))
	}
	if !order.Total.IsZero() && !money.WithinTolerance(order.Total, inv.TotalValue, r.Tolerance) {
		problems = append(problems, fmt.Sprintf(
			"order total %s diverges from invoice total %s",
			order.Total, inv.TotalValue))
	}

	if len(problems) > 0 {
		return model.Fail("divergence between purchase order and invoice: " + strings.Join(problems, "; "))
	}
	return model.Pass()
}
