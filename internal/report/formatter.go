// Package report renders canonical invoices and audit reports as
// deterministic plain text. Both renderings are pure functions of their
// inputs: identical inputs produce byte-identical output.
package report

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fiscalia/nfe-auditor/internal/model"
)

// FormatInvoice renders the fixed-layout invoice summary: header, item
// table, item subtotal, tax breakdown and grand total.
func FormatInvoice(inv *model.CanonicalInvoice) string {
	var b strings.Builder

	b.WriteString("Invoice Summary\n")
	b.WriteString("===============\n")
	fmt.Fprintf(&b, "Invoice ID:    %s\n", orDash(inv.ID))
	fmt.Fprintf(&b, "Emission date: %s\n", orDash(inv.EmissionDate))
	fmt.Fprintf(&b, "Emitter:       %s\n", formatParty(inv.Emitter))
	fmt.Fprintf(&b, "Recipient:     %s\n", formatParty(inv.Recipient))
	b.WriteString("\n")

	writeItemTable(&b, inv.Items)
	fmt.Fprintf(&b, "Item subtotal: %s\n", FormatBRL(inv.ItemSubtotal()))
	b.WriteString("\n")

	writeTaxTable(&b, inv)
	fmt.Fprintf(&b, "Grand total:   %s\n", FormatBRL(inv.TotalValue))

	return b.String()
}

// FormatAuditReport renders an audit report: invoice id, timestamp,
// status line and either the finding list or an explicit no-issues
// marker.
func FormatAuditReport(rep *model.AuditReport) string {
	var b strings.Builder

	b.WriteString("Invoice Audit Report\n")
	b.WriteString("--------------------\n")
	fmt.Fprintf(&b, "Invoice ID: %s\n", orDash(rep.InvoiceID))
	fmt.Fprintf(&b, "Audit Date: %s\n", rep.AuditTimestamp.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Status:     %s\n", rep.Status)
	b.WriteString("\n")

	b.WriteString("Issues Found:\n")
	if len(rep.Findings) == 0 {
		b.WriteString("No issues found\n")
		return b.String()
	}
	for _, f := range rep.Findings {
		fmt.Fprintf(&b, "- [%s] %s\n", f.RuleID, f.Message)
	}
	return b.String()
}

// Render produces the full pipeline output: invoice summary followed by
// the audit section.
func Render(inv *model.CanonicalInvoice, rep *model.AuditReport) string {
	return FormatInvoice(inv) + "\n" + FormatAuditReport(rep)
}

func writeItemTable(b *strings.Builder, items []model.LineItem) {
	b.WriteString("Items:\n")
	if len(items) == 0 {
		b.WriteString("  (none)\n")
		return
	}

	tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  #\tCODE\tDESCRIPTION\tQTY\tUNIT PRICE\tLINE TOTAL")
	for i, item := range items {
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			orDash(item.Code),
			orDash(item.Description),
			item.Quantity.String(),
			FormatBRL(item.UnitPrice),
			FormatBRL(item.LineTotal),
		)
	}
	tw.Flush()
}

// writeTaxTable lists tax amounts in the fixed family order, per-item
// aggregates first, document-level totals after. Absent keys are not
// printed; absence means "not found", not zero.
func writeTaxTable(b *strings.Builder, inv *model.CanonicalInvoice) {
	b.WriteString("Taxes:\n")

	printed := false
	for _, family := range model.TaxFamilies {
		if amount, ok := inv.TaxAmount(family); ok {
			fmt.Fprintf(b, "  %-13s%s\n", family, FormatBRL(amount))
			printed = true
		}
	}
	for _, family := range model.TaxFamilies {
		key := family + model.TotalSuffix
		if amount, ok := inv.TaxAmount(key); ok {
			fmt.Fprintf(b, "  %-13s%s\n", key, FormatBRL(amount))
			printed = true
		}
	}
	if !printed {
		b.WriteString("  (none)\n")
	}
}

func formatParty(p model.Party) string {
	switch {
	case p.Name == "" && p.TaxID == "":
		return "-"
	case p.TaxID == "":
		return p.Name
	case p.Name == "":
		return p.TaxID
	default:
		return fmt.Sprintf("%s (%s)", p.Name, p.TaxID)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
