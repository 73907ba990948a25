package rules

import (
	"context"
	"errors"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"

	"schema-warden.io/warden/internal/check"
)

// LintRuleName is the registry name for the schema-recommended lint bundle.
const LintRuleName = "lint"

// LintRuleset runs the schema-recommended rule bundle against a subgraph's
// SDL, with the proposed supergraph supplying cross-reference context for
// rules like type-existence. Findings at the error tier become ERROR
// violations, everything else WARNING; the config override table can remap
// individual rules either way.
type LintRuleset struct {
	cfg      RulesetConfig
	disabled map[string]bool
}

// NewLintRuleset creates the lint strategy from a validated config.
func NewLintRuleset(cfg RulesetConfig) *LintRuleset {
	disabled := make(map[string]bool, len(cfg.Disabled))
	for _, id := range cfg.Disabled {
		disabled[id] = true
	}
	return &LintRuleset{cfg: cfg, disabled: disabled}
}

// Name implements check.Rule.
func (l *LintRuleset) Name() string { return LintRuleName }

// Evaluate implements check.Rule. Empty source is never linted; the caller
// decides what a missing document means.
func (l *LintRuleset) Evaluate(ctx context.Context, subgraphName, source, supergraph string) ([]check.Violation, error) {
	if strings.TrimSpace(source) == "" {
		return nil, nil
	}

	findings := l.run(subgraphName, source, supergraph)

	violations := make([]check.Violation, 0, len(findings))
	for _, f := range findings {
		violations = append(violations, l.toViolation(subgraphName, source, f))
	}
	return violations, nil
}

func (l *LintRuleset) run(subgraphName, source, supergraph string) []Finding {
	doc, err := parser.ParseSchema(&ast.Source{Name: subgraphName, Input: source})
	if err != nil {
		return parseFailureFindings(err)
	}

	cx := newLintContext(doc, supergraphTypeNames(subgraphName, supergraph))

	var findings []Finding
	for _, rule := range builtinRules {
		if l.disabled[rule.id] {
			continue
		}
		findings = append(findings, rule.run(cx)...)
	}
	return findings
}

func (l *LintRuleset) toViolation(subgraphName, source string, f Finding) check.Violation {
	severity := f.Severity
	if override, ok := l.cfg.SeverityOverrides[f.RuleID]; ok {
		severity = override
	}
	level := check.LevelWarning
	if severity == SeverityError {
		level = check.LevelError
	}

	rule := f.RuleID
	if rule == "" {
		rule = "unknown"
	}

	start := check.ToCoordinate(source, f.Line, f.Column)
	end := start
	if f.EndLine > 0 && f.EndColumn > 0 {
		end = check.ToCoordinate(source, f.EndLine, f.EndColumn)
	}

	return check.Violation{
		Level:   level,
		Message: f.Message,
		Rule:    rule,
		SourceLocations: []check.SourceLocation{{
			SubgraphName: subgraphName,
			Start:        start,
			End:          end,
		}},
	}
}

// parseFailureFindings maps SDL parse errors to invalid-graphql-schema
// findings at the reported error positions.
func parseFailureFindings(err error) []Finding {
	var list gqlerror.List
	if errors.As(err, &list) {
		findings := make([]Finding, 0, len(list))
		for _, gqlErr := range list {
			findings = append(findings, parseErrorFinding(gqlErr))
		}
		return findings
	}

	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) {
		return []Finding{parseErrorFinding(gqlErr)}
	}

	return []Finding{{
		RuleID:   RuleInvalidSchema,
		Severity: SeverityError,
		Message:  err.Error(),
		Line:     1,
		Column:   1,
	}}
}

func parseErrorFinding(gqlErr *gqlerror.Error) Finding {
	f := Finding{
		RuleID:   RuleInvalidSchema,
		Severity: SeverityError,
		Message:  gqlErr.Message,
		Line:     1,
		Column:   1,
	}
	if len(gqlErr.Locations) > 0 {
		f.Line = gqlErr.Locations[0].Line
		f.Column = gqlErr.Locations[0].Column
	}
	return f
}

// supergraphTypeNames parses the composed schema and indexes its type names.
// An unparsable or absent supergraph yields an empty index; cross-reference
// rules then stand down rather than guess.
func supergraphTypeNames(subgraphName, supergraph string) map[string]bool {
	if strings.TrimSpace(supergraph) == "" {
		return nil
	}
	doc, err := parser.ParseSchema(&ast.Source{Name: subgraphName + ".supergraph", Input: supergraph})
	if err != nil {
		return nil
	}
	names := make(map[string]bool, len(doc.Definitions))
	for _, def := range allDefinitions(doc) {
		names[def.Name] = true
	}
	return names
}
