// Package extract builds a CanonicalInvoice from a parsed invoice tree.
// Every field is resolved through an ordered candidate-path list because
// issuing software disagrees on where semantically identical fields
// live. Numeric coercion never aborts extraction: unparsable values
// default to zero and leave a diagnostic behind.
package extract

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/fiscalia/nfe-auditor/internal/model"
	"github.com/fiscalia/nfe-auditor/internal/money"
	"github.com/fiscalia/nfe-auditor/internal/xmlpath"
)

// Extractor drives the path resolver over every semantic field.
type Extractor struct {
	paths PathTable
}

// New creates an extractor using the given path table.
func New(paths PathTable) *Extractor {
	return &Extractor{paths: paths}
}

// NewDefault creates an extractor with the built-in NFe path table.
func NewDefault() *Extractor {
	return New(DefaultPathTable())
}

// Extract builds the canonical record from a parsed document. Missing
// fields degrade to empty/zero defaults; the returned diagnostics list
// records every defaulted coercion. Tax aggregation is a separate pass
// (see Aggregator).
func (e *Extractor) Extract(doc *etree.Document) (*model.CanonicalInvoice, []model.Diagnostic) {
	anchor := e.Anchor(doc)
	var diags []model.Diagnostic

	inv := &model.CanonicalInvoice{
		ID:           xmlpath.Text(anchor, e.paths.InvoiceNumber, ""),
		EmissionDate: xmlpath.Text(anchor, e.paths.EmissionDate, ""),
		Taxes:        make(map[string]decimal.Decimal),
	}
	inv.TotalValue = e.coerceAmount(anchor, e.paths.TotalValue, "total_value", &diags)

	inv.Emitter = model.Party{
		Name:  xmlpath.Text(anchor, e.paths.EmitterName, ""),
		TaxID: xmlpath.Text(anchor, e.paths.EmitterTaxID, ""),
	}
	inv.Recipient = model.Party{
		Name:  xmlpath.Text(anchor, e.paths.RecipientName, ""),
		TaxID: e.recipientTaxID(anchor),
	}

	for i, itemEl := range xmlpath.FindAll(anchor, e.paths.Items...) {
		inv.Items = append(inv.Items, e.extractItem(itemEl, i, &diags))
	}

	return inv, diags
}

// Anchor locates the element field paths resolve against, falling back
// to the document root when no anchor path matches.
func (e *Extractor) Anchor(doc *etree.Document) *etree.Element {
	root := doc.Root()
	if anchor := xmlpath.Find(root, e.paths.Anchor...); anchor != nil {
		return anchor
	}
	return root
}

// recipientTaxID prefers the individual identifier (CPF) and falls back
// to the corporate one (CNPJ) only when the individual field is absent.
func (e *Extractor) recipientTaxID(anchor *etree.Element) string {
	if id := xmlpath.Text(anchor, e.paths.RecipientIndividualID, ""); id != "" {
		return id
	}
	return xmlpath.Text(anchor, e.paths.RecipientCorporateID, "")
}

func (e *Extractor) extractItem(itemEl *etree.Element, index int, diags *[]model.Diagnostic) model.LineItem {
	field := func(name string) string {
		return fmt.Sprintf("items[%d].%s", index, name)
	}
	return model.LineItem{
		Code:        xmlpath.Text(itemEl, e.paths.ItemCode, ""),
		Description: xmlpath.Text(itemEl, e.paths.ItemDescription, ""),
		Quantity:    e.coerceAmount(itemEl, e.paths.ItemQuantity, field("quantity"), diags),
		UnitPrice:   e.coerceAmount(itemEl, e.paths.ItemUnitPrice, field("unit_price"), diags),
		LineTotal:   e.coerceAmount(itemEl, e.paths.ItemLineTotal, field("line_total"), diags),
	}
}

// coerceAmount resolves a numeric field and parses it. An absent field
// is simply zero; a present but unparsable one is zero plus a
// diagnostic.
func (e *Extractor) coerceAmount(node *etree.Element, paths []string, field string, diags *[]model.Diagnostic) decimal.Decimal {
	text := xmlpath.Text(node, paths, "")
	if text == "" {
		return money.Zero
	}
	d, ok := money.FromStringOrZero(text)
	if !ok {
		*diags = append(*diags, model.NewCoercionDiagnostic(field,
			fmt.Sprintf("cannot parse %q as a number, defaulted to 0", text)))
	}
	return d
}
