package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiscalia/nfe-auditor/internal/processor"
	"github.com/fiscalia/nfe-auditor/internal/server"
)

const sampleDocument = `<NFe><infNFe>
	<ide><nNF>12345</nNF><dhEmi>2025-07-01</dhEmi></ide>
	<emit><CNPJ>11222333000181</CNPJ><xNome>Supplier X</xNome></emit>
	<dest><CNPJ>44555666000172</CNPJ><xNome>Company A</xNome></dest>
	<det><prod><cProd>P1</cProd><xProd>Product A</xProd><qCom>2</qCom><vUnCom>100.00</vUnCom><vProd>200.00</vProd></prod></det>
	<total><ICMSTot><vNF>200.00</vNF></ICMSTot></total>
</infNFe></NFe>`

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	return server.New(&server.Config{Address: ":0"}, processor.NewPipeline(), nil, zerolog.Nop())
}

func doRequest(t *testing.T, s *server.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, newTestServer(t), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestExtract(t *testing.T) {
	rec := doRequest(t, newTestServer(t), http.MethodPost, "/api/v1/extract", sampleDocument)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Invoice struct {
			ID string `json:"id"`
		} `json:"invoice"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "12345", resp.Invoice.ID)
	assert.NotContains(t, rec.Body.String(), `"report"`)
}

func TestAudit(t *testing.T) {
	rec := doRequest(t, newTestServer(t), http.MethodPost, "/api/v1/audit", sampleDocument)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Report struct {
			InvoiceID string `json:"invoice_id"`
			Status    string `json:"status"`
		} `json:"report"`
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "12345", resp.Report.InvoiceID)
	assert.NotEmpty(t, resp.Report.Status)
	assert.Contains(t, resp.Text, "Invoice Audit Report")
}

func TestAudit_MalformedDocument(t *testing.T) {
	rec := doRequest(t, newTestServer(t), http.MethodPost, "/api/v1/audit", "<invalid")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestAudit_EmptyBody(t *testing.T) {
	rec := doRequest(t, newTestServer(t), http.MethodPost, "/api/v1/audit", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAudit_AnalyzeWithoutAnalyst(t *testing.T) {
	rec := doRequest(t, newTestServer(t), http.MethodPost, "/api/v1/audit?analyze=true", sampleDocument)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not configured")
}
