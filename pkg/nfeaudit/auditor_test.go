package nfeaudit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiscalia/nfe-auditor/pkg/nfeaudit"
)

const sampleDocument = `<NFe><infNFe>
	<ide><nNF>12345</nNF><dhEmi>2025-07-01</dhEmi></ide>
	<emit><CNPJ>11222333000181</CNPJ><xNome>Supplier X</xNome></emit>
	<dest><CNPJ>44555666000172</CNPJ><xNome>Company A</xNome></dest>
	<det><prod><cProd>P1</cProd><xProd>Product A</xProd><qCom>2</qCom><vUnCom>100.00</vUnCom><vProd>200.00</vProd></prod></det>
	<total><ICMSTot><vNF>200.00</vNF></ICMSTot></total>
</infNFe></NFe>`

func TestAuditBytes(t *testing.T) {
	auditor := nfeaudit.NewAuditor(nfeaudit.Options{})

	result, err := auditor.AuditBytes(context.Background(), []byte(sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, "12345", result.Invoice.ID)
	assert.Equal(t, "12345", result.Report.InvoiceID)
	assert.NotEmpty(t, result.Text)
}

func TestAuditBytes_MalformedDocument(t *testing.T) {
	auditor := nfeaudit.NewAuditor(nfeaudit.Options{})

	_, err := auditor.AuditBytes(context.Background(), []byte("<invalid"))
	require.Error(t, err)

	var malformed *nfeaudit.MalformedDocumentError
	assert.True(t, errors.As(err, &malformed))
}

func TestAuditBytes_CustomRules(t *testing.T) {
	alwaysFail := nfeaudit.RuleFunc{
		RuleID: "always-fail",
		Fn: func(*nfeaudit.CanonicalInvoice, *nfeaudit.ReferenceData) nfeaudit.RuleOutcome {
			return nfeaudit.RuleOutcome{Passed: false, Message: "nope"}
		},
	}
	auditor := nfeaudit.NewAuditor(nfeaudit.Options{Rules: []nfeaudit.Rule{alwaysFail}})

	result, err := auditor.AuditBytes(context.Background(), []byte(sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, nfeaudit.StatusFailed, result.Report.Status)
	require.Len(t, result.Report.Findings, 1)
	assert.Equal(t, "always-fail", result.Report.Findings[0].RuleID)
}
