package extract

// PathTable holds the ordered candidate paths for every semantic field.
// It is data, not code: a deployment can swap the whole table (see
// refdata.LoadPathTable) without touching extraction logic. Paths use
// the xmlpath syntax and are ordered most- to least-specific; the first
// match wins.
type PathTable struct {
	// Anchor locates the element the field paths are resolved against.
	// When no anchor path matches, the document root is used.
	Anchor []string `mapstructure:"anchor"`

	InvoiceNumber []string `mapstructure:"invoice_number"`
	EmissionDate  []string `mapstructure:"emission_date"`
	TotalValue    []string `mapstructure:"total_value"`

	EmitterName  []string `mapstructure:"emitter_name"`
	EmitterTaxID []string `mapstructure:"emitter_tax_id"`

	RecipientName []string `mapstructure:"recipient_name"`
	// Individual identifier (CPF) is preferred; the corporate one (CNPJ)
	// is consulted only when no individual identifier is present.
	RecipientIndividualID []string `mapstructure:"recipient_individual_id"`
	RecipientCorporateID  []string `mapstructure:"recipient_corporate_id"`

	// Items lists candidate line-item containers. The first path that
	// yields at least one element wins and later candidates are not
	// probed, even if they would also match.
	Items []string `mapstructure:"items"`

	ItemCode        []string `mapstructure:"item_code"`
	ItemDescription []string `mapstructure:"item_description"`
	ItemQuantity    []string `mapstructure:"item_quantity"`
	ItemUnitPrice   []string `mapstructure:"item_unit_price"`
	ItemLineTotal   []string `mapstructure:"item_line_total"`

	// TaxBlock locates the per-item tax substructure relative to an item.
	TaxBlock []string `mapstructure:"tax_block"`
	// TotalsBlock locates the document-level totals relative to the anchor.
	TotalsBlock []string `mapstructure:"totals_block"`
}

// DefaultPathTable covers the NFe layout plus the flat layouts some
// issuing software emits.
func DefaultPathTable() PathTable {
	return PathTable{
		Anchor: []string{"//infNFe", "infNFe", "//NFe"},

		InvoiceNumber: []string{"ide/nNF", "//nNF", "invoice_id", "//invoice_id"},
		EmissionDate:  []string{"ide/dhEmi", "ide/dEmi", "//dhEmi", "//dEmi"},
		TotalValue:    []string{"total/ICMSTot/vNF", "//ICMSTot/vNF", "//vNF", "total", "//total"},

		EmitterName:  []string{"emit/xNome", "//emit/xNome", "//supplier_name"},
		EmitterTaxID: []string{"emit/CNPJ", "emit/CPF", "//emit/CNPJ", "//supplier_id"},

		RecipientName:         []string{"dest/xNome", "//dest/xNome", "//customer_name"},
		RecipientIndividualID: []string{"dest/CPF", "//dest/CPF"},
		RecipientCorporateID:  []string{"dest/CNPJ", "//dest/CNPJ", "//customer_id"},

		Items: []string{"det", "//det", "//items/item", "//item"},

		ItemCode:        []string{"prod/cProd", "cProd", "code"},
		ItemDescription: []string{"prod/xProd", "xProd", "description"},
		ItemQuantity:    []string{"prod/qCom", "qCom", "quantity"},
		ItemUnitPrice:   []string{"prod/vUnCom", "vUnCom", "unit_price"},
		ItemLineTotal:   []string{"prod/vProd", "vProd", "total"},

		TaxBlock:    []string{"imposto", "//imposto", "taxes"},
		TotalsBlock: []string{"total/ICMSTot", "//ICMSTot"},
	}
}
