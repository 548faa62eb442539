package audit_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiscalia/nfe-auditor/internal/audit"
	"github.com/fiscalia/nfe-auditor/internal/model"
	"github.com/fiscalia/nfe-auditor/internal/refdata"
)

var auditTime = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() audit.Option {
	return audit.WithClock(func() time.Time { return auditTime })
}

func passingRule(id string) audit.Rule {
	return audit.RuleFunc{
		RuleID: id,
		Fn: func(*model.CanonicalInvoice, *refdata.ReferenceData) model.RuleOutcome {
			return model.Pass()
		},
	}
}

func failingRule(id, message string) audit.Rule {
	return audit.RuleFunc{
		RuleID: id,
		Fn: func(*model.CanonicalInvoice, *refdata.ReferenceData) model.RuleOutcome {
			return model.Fail(message)
		},
	}
}

func panickingRule(id string) audit.Rule {
	return audit.RuleFunc{
		RuleID: id,
		Fn: func(*model.CanonicalInvoice, *refdata.ReferenceData) model.RuleOutcome {
			panic("boom")
		},
	}
}

func TestAudit_AllRulesPass(t *testing.T) {
	engine := audit.NewEngine([]audit.Rule{passingRule("a"), passingRule("b")}, fixedClock())

	rep := engine.Audit(&model.CanonicalInvoice{ID: "INV-1"}, refdata.Default())

	assert.Equal(t, "INV-1", rep.InvoiceID)
	assert.Equal(t, auditTime, rep.AuditTimestamp)
	assert.Equal(t, model.StatusPassed, rep.Status)
	assert.Empty(t, rep.Findings)
}

func TestAudit_StatusFailedIffFindings(t *testing.T) {
	engine := audit.NewEngine([]audit.Rule{
		passingRule("ok"),
		failingRule("bad", "something is off"),
	}, fixedClock())

	rep := engine.Audit(&model.CanonicalInvoice{ID: "INV-2"}, refdata.Default())

	assert.Equal(t, model.StatusFailed, rep.Status)
	require.Len(t, rep.Findings, 1)
	assert.Equal(t, "bad", rep.Findings[0].RuleID)
	assert.Equal(t, "something is off", rep.Findings[0].Message)
}

func TestAudit_PanickingRuleDoesNotAbort(t *testing.T) {
	engine := audit.NewEngine([]audit.Rule{
		panickingRule("broken"),
		failingRule("after", "still evaluated"),
	}, fixedClock())

	rep := engine.Audit(&model.CanonicalInvoice{ID: "INV-3"}, refdata.Default())

	require.Len(t, rep.Findings, 2)
	assert.Equal(t, "broken", rep.Findings[0].RuleID)
	assert.Contains(t, rep.Findings[0].Message, "failed to evaluate")
	assert.Contains(t, rep.Findings[0].Message, "boom")
	assert.Equal(t, "after", rep.Findings[1].RuleID)
}

func TestAudit_FindingOrderFollowsRuleOrder(t *testing.T) {
	engine := audit.NewEngine([]audit.Rule{
		failingRule("first", "1"),
		failingRule("second", "2"),
		failingRule("third", "3"),
	}, fixedClock())

	rep := engine.Audit(&model.CanonicalInvoice{}, refdata.Default())

	require.Len(t, rep.Findings, 3)
	assert.Equal(t, "first", rep.Findings[0].RuleID)
	assert.Equal(t, "second", rep.Findings[1].RuleID)
	assert.Equal(t, "third", rep.Findings[2].RuleID)
}

func TestAudit_Register(t *testing.T) {
	engine := audit.NewEngine(nil, fixedClock())
	engine.Register(failingRule("late", "added after construction"))

	rep := engine.Audit(&model.CanonicalInvoice{}, refdata.Default())
	require.Len(t, rep.Findings, 1)
	assert.Equal(t, "late", rep.Findings[0].RuleID)
}

func TestDefaultRules_ToleranceDefaulting(t *testing.T) {
	rules := audit.DefaultRules(decimal.Zero)
	require.NotEmpty(t, rules)

	ids := make([]string, 0, len(rules))
	for _, r := range rules {
		ids = append(ids, r.ID())
	}
	assert.Contains(t, ids, "arithmetic-consistency")
	assert.Contains(t, ids, "fiscal-identifiers")
	assert.Contains(t, ids, "tax-code-set")
	assert.Contains(t, ids, "party-registry")
	assert.Contains(t, ids, "purchase-order-alignment")
}
