package llm

import (
	"context"
	"fmt"
)

const analystSystemPrompt = "You are a tax audit assistant. " +
	"You analyze invoice audit reports and explain their findings to accountants."

const analystPromptTemplate = `Analyze this audit report and provide insights:

%s

Please provide:
1. Summary of findings
2. Risk assessment
3. Recommended actions`

// Analyst produces narrative analyses of audit reports.
type Analyst struct {
	client *Client
}

// NewAnalyst creates an analyst backed by the given client.
func NewAnalyst(client *Client) *Analyst {
	return &Analyst{client: client}
}

// AnalyzeReport asks the model for a summary, risk assessment and
// recommended actions for the rendered report text.
func (a *Analyst) AnalyzeReport(ctx context.Context, reportText string) (string, error) {
	return a.client.Complete(ctx, analystSystemPrompt,
		fmt.Sprintf(analystPromptTemplate, reportText))
}
