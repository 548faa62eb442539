package extract

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/fiscalia/nfe-auditor/internal/model"
	"github.com/fiscalia/nfe-auditor/internal/money"
	"github.com/fiscalia/nfe-auditor/internal/xmlpath"
)

// Aggregator walks per-item tax substructures and the document-level
// totals block and fills the invoice tax map.
//
// Per-family aggregation is an overwrite, not a sum: when several line
// items carry an amount for the same family, the last item processed
// determines the final value. Summing would be the more natural
// accounting semantic, but the overwrite behavior is load-bearing for
// downstream consumers; see the regression test before changing it.
type Aggregator struct {
	paths PathTable
}

// NewAggregator creates an aggregator using the given path table.
func NewAggregator(paths PathTable) *Aggregator {
	return &Aggregator{paths: paths}
}

// Aggregate fills inv.Taxes from the document anchored at anchor.
// Missing amounts leave their key absent; absence is distinguishable
// from an explicit zero.
func (a *Aggregator) Aggregate(anchor *etree.Element, inv *model.CanonicalInvoice) []model.Diagnostic {
	var diags []model.Diagnostic

	itemSeen := false
	for i, itemEl := range xmlpath.FindAll(anchor, a.paths.Items...) {
		taxBlock := xmlpath.Find(itemEl, a.paths.TaxBlock...)
		if taxBlock == nil {
			continue
		}
		itemSeen = true
		a.aggregateBlock(taxBlock, inv, fmt.Sprintf("items[%d]", i), &diags)
	}

	// Flat layouts put a single tax block next to the items instead of
	// inside each one.
	if !itemSeen {
		if taxBlock := xmlpath.Find(anchor, a.paths.TaxBlock...); taxBlock != nil {
			a.aggregateBlock(taxBlock, inv, "document", &diags)
		}
	}

	a.aggregateTotals(anchor, inv, &diags)
	return diags
}

// aggregateBlock reads one tax substructure. For each known family it
// looks for the family element, then for the amount element (v{FAMILY})
// anywhere beneath it; a family element whose own text is numeric is
// accepted as the amount directly.
func (a *Aggregator) aggregateBlock(taxBlock *etree.Element, inv *model.CanonicalInvoice, scope string, diags *[]model.Diagnostic) {
	for _, family := range model.TaxFamilies {
		famEl := xmlpath.Find(taxBlock, family, "//"+family)
		if famEl == nil {
			continue
		}

		amountEl := xmlpath.Find(famEl, "v"+family, "//v"+family)
		text := ""
		if amountEl != nil {
			text = strings.TrimSpace(amountEl.Text())
		} else {
			text = strings.TrimSpace(famEl.Text())
		}
		if text == "" {
			continue
		}

		amount, ok := money.FromStringOrZero(text)
		if !ok {
			*diags = append(*diags, model.NewCoercionDiagnostic(
				fmt.Sprintf("%s.taxes.%s", scope, family),
				fmt.Sprintf("cannot parse %q as a number, defaulted to 0", text)))
		}
		// Overwrite on purpose: last item wins.
		inv.Taxes[family] = amount
	}
}

// aggregateTotals stores document-level family totals under the
// {FAMILY}_TOTAL keys, independent of the per-item aggregation.
func (a *Aggregator) aggregateTotals(anchor *etree.Element, inv *model.CanonicalInvoice, diags *[]model.Diagnostic) {
	totals := xmlpath.Find(anchor, a.paths.TotalsBlock...)
	if totals == nil {
		return
	}

	for _, family := range model.TaxFamilies {
		el := xmlpath.Find(totals, "v"+family)
		if el == nil {
			continue
		}
		text := strings.TrimSpace(el.Text())
		if text == "" {
			continue
		}
		amount, ok := money.FromStringOrZero(text)
		if !ok {
			*diags = append(*diags, model.NewCoercionDiagnostic(
				fmt.Sprintf("totals.%s", family),
				fmt.Sprintf("cannot parse %q as a number, defaulted to 0", text)))
		}
		inv.Taxes[family+model.TotalSuffix] = amount
	}
}
