package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fiscalia/nfe-auditor/internal/model"
)

// extractResponse carries the canonical record without the audit.
type extractResponse struct {
	Invoice     *model.CanonicalInvoice `json:"invoice"`
	Diagnostics []model.Diagnostic      `json:"diagnostics,omitempty"`
}

// auditResponse carries the full pipeline result.
type auditResponse struct {
	Invoice     *model.CanonicalInvoice `json:"invoice"`
	Report      *model.AuditReport      `json:"report"`
	Diagnostics []model.Diagnostic      `json:"diagnostics,omitempty"`
	Text        string                  `json:"text"`
	Analysis    string                  `json:"analysis,omitempty"`
}

// handleExtract parses the posted XML document and returns the
// canonical invoice without running the audit.
func (s *Server) handleExtract(c *gin.Context) {
	data, ok := s.readBody(c)
	if !ok {
		return
	}

	result := s.pipeline.ProcessBytes(c.Request.Context(), data)
	if result.Error != nil {
		s.writeError(c, result.Error)
		return
	}

	c.JSON(http.StatusOK, extractResponse{
		Invoice:     result.Invoice,
		Diagnostics: result.Diagnostics,
	})
}

// handleAudit runs the full pipeline. With ?analyze=true and a
// configured analyst the response additionally carries a narrative
// analysis of the report.
func (s *Server) handleAudit(c *gin.Context) {
	data, ok := s.readBody(c)
	if !ok {
		return
	}

	result := s.pipeline.ProcessBytes(c.Request.Context(), data)
	if result.Error != nil {
		s.writeError(c, result.Error)
		return
	}

	resp := auditResponse{
		Invoice:     result.Invoice,
		Report:      result.Report,
		Diagnostics: result.Diagnostics,
		Text:        result.Text,
	}

	if c.Query("analyze") == "true" {
		if s.analyst == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "narrative analysis is not configured"})
			return
		}
		analysis, err := s.analyst.AnalyzeReport(c.Request.Context(), result.Text)
		if err != nil {
			s.logger.Error().Err(err).Msg("narrative analysis failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "narrative analysis failed"})
			return
		}
		resp.Analysis = analysis
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) writeError(c *gin.Context, err error) {
	var malformed *model.MalformedDocumentError
	if errors.As(err, &malformed) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": malformed.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
