package refdata_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiscalia/nfe-auditor/internal/refdata"
)

func TestDefault(t *testing.T) {
	ref := refdata.Default()

	icms, ok := ref.TaxRates["ICMS"]
	require.True(t, ok)
	assert.True(t, icms.StandardRate.Equal(decimal.NewFromFloat(0.18)))
	assert.True(t, icms.ReducedRate.Equal(decimal.NewFromFloat(0.12)))

	ipi, ok := ref.TaxRates["IPI"]
	require.True(t, ok)
	assert.True(t, ipi.StandardRate.Equal(decimal.NewFromFloat(0.15)))
	assert.True(t, ipi.ReducedRate.IsZero())

	assert.Len(t, ref.Customers, 2)
	assert.Len(t, ref.Suppliers, 2)
	assert.Nil(t, ref.Order)
}

func TestRegistryLookupIgnoresFormatting(t *testing.T) {
	ref := refdata.Default()

	p, ok := ref.CustomerByID("1-2.3")
	require.True(t, ok)
	assert.Equal(t, "Company A", p.Name)

	_, ok = ref.CustomerByID("999")
	assert.False(t, ok)

	s, ok := ref.SupplierByID("78.9")
	require.True(t, ok)
	assert.Equal(t, "Supplier X", s.Name)
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTempFile(t, "refdata.yaml", `
tax_rates:
  ICMS:
    standard_rate: "0.18"
    reduced_rate: 0.12
customers:
  "11222333000181":
    name: Acme Ltda
    tax_regime: normal
suppliers:
  "44555666000172":
    name: Fornecedor Z
order:
  number: PO-42
  lines:
    - description: Widget
      quantity: 3
      unit_price: "25.50"
  total: "76.50"
`)

	ref, err := refdata.Load(path)
	require.NoError(t, err)

	icms := ref.TaxRates["ICMS"]
	assert.True(t, icms.StandardRate.Equal(decimal.NewFromFloat(0.18)))
	assert.True(t, icms.ReducedRate.Equal(decimal.NewFromFloat(0.12)))

	c, ok := ref.CustomerByID("11.222.333/0001-81")
	require.True(t, ok)
	assert.Equal(t, "Acme Ltda", c.Name)

	require.NotNil(t, ref.Order)
	assert.Equal(t, "PO-42", ref.Order.Number)
	require.Len(t, ref.Order.Lines, 1)
	assert.True(t, ref.Order.Lines[0].UnitPrice.Equal(decimal.NewFromFloat(25.50)))
	assert.True(t, ref.Order.Total.Equal(decimal.NewFromFloat(76.50)))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := refdata.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadPathTable(t *testing.T) {
	path := writeTempFile(t, "paths.yaml", `
invoice_number:
  - custom/number
  - //nNF
`)

	table, err := refdata.LoadPathTable(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"custom/number", "//nNF"}, table.InvoiceNumber)

	// Unmentioned fields keep their built-in candidates.
	assert.NotEmpty(t, table.Items)
	assert.NotEmpty(t, table.TotalsBlock)
}
