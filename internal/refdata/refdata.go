// Package refdata models the externally supplied reference data the
// audit consumes: the tax-rate table, the customer and supplier
// registries, and an optional purchase order to cross-check against.
// Data is loaded from configuration files, not computed; Default mirrors
// the bundled mock tables so the auditor works out of the box.
package refdata

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// TaxRate describes the configured rates for one tax family. Families
// without a reduced rate leave it at zero.
type TaxRate struct {
	StandardRate decimal.Decimal `mapstructure:"standard_rate"`
	ReducedRate  decimal.Decimal `mapstructure:"reduced_rate"`
}

// RegisteredParty is an entry of the customer or supplier registry,
// keyed externally by fiscal identifier.
type RegisteredParty struct {
	Name      string `mapstructure:"name"`
	TaxRegime string `mapstructure:"tax_regime"`
}

// OrderLine is one expected line of a purchase order.
type OrderLine struct {
	Description string          `mapstructure:"description"`
	Quantity    decimal.Decimal `mapstructure:"quantity"`
	UnitPrice   decimal.Decimal `mapstructure:"unit_price"`
}

// PurchaseOrder is the reference order an invoice may be checked
// against. Nil means no order was supplied and the alignment rule is
// skipped.
type PurchaseOrder struct {
	Number string          `mapstructure:"number"`
	Lines  []OrderLine     `mapstructure:"lines"`
	Total  decimal.Decimal `mapstructure:"total"`
}

// ReferenceData bundles everything the audit rules read. It is treated
// as read-only for the duration of a pipeline run.
type ReferenceData struct {
	TaxRates  map[string]TaxRate         `mapstructure:"tax_rates"`
	Customers map[string]RegisteredParty `mapstructure:"customers"`
	Suppliers map[string]RegisteredParty `mapstructure:"suppliers"`
	Order     *PurchaseOrder             `mapstructure:"order"`
}

// Default returns the bundled mock reference tables.
func Default() *ReferenceData {
	return &ReferenceData{
		TaxRates: map[string]TaxRate{
			"ICMS":   {StandardRate: decimal.NewFromFloat(0.18), ReducedRate: decimal.NewFromFloat(0.12)},
			"IPI":    {StandardRate: decimal.NewFromFloat(0.15)},
			"PIS":    {StandardRate: decimal.NewFromFloat(0.0165)},
			"COFINS": {StandardRate: decimal.NewFromFloat(0.076)},
		},
		Customers: map[string]RegisteredParty{
			"123": {Name: "Company A", TaxRegime: "normal"},
			"456": {Name: "Company B", TaxRegime: "simplified"},
		},
		Suppliers: map[string]RegisteredParty{
			"789": {Name: "Supplier X", TaxRegime: "normal"},
			"012": {Name: "Supplier Y", TaxRegime: "simplified"},
		},
	}
}

// Load reads reference data from a YAML or JSON file.
func Load(path string) (*ReferenceData, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read reference data: %w", err)
	}

	var data ReferenceData
	if err := v.Unmarshal(&data, viper.DecodeHook(decimalDecodeHook())); err != nil {
		return nil, fmt.Errorf("decode reference data: %w", err)
	}
	return &data, nil
}

// CustomerByID resolves a registry entry tolerating formatted
// identifiers (punctuation is ignored).
func (r *ReferenceData) CustomerByID(taxID string) (RegisteredParty, bool) {
	p, ok := r.Customers[normalizeID(taxID)]
	return p, ok
}

// SupplierByID resolves a supplier registry entry.
func (r *ReferenceData) SupplierByID(taxID string) (RegisteredParty, bool) {
	p, ok := r.Suppliers[normalizeID(taxID)]
	return p, ok
}

func normalizeID(id string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, id)
}
