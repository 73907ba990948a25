package rules

import (
	"context"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"schema-warden.io/warden/internal/check"
)

// ContactRuleName is the registry name and violation rule id for the
// required-contact-directive strategy.
const ContactRuleName = "contact-directive"

// Messages reported by the contact rule. Fixed strings: the orchestrator UI
// keys annotations off them.
const (
	msgContactMissing    = "Subgraphs must contain a contact directive"
	msgContactValues     = "Contact directive values are not all present"
	msgContactArgs       = "Contact directive must have a name, url, and description"
	contactDirectiveName = "contact"
)

// contactRequiredArgs are the argument names every contact directive must
// carry, enforcing the ownership-metadata policy.
var contactRequiredArgs = []string{"name", "url", "description"}

// ContactDirective enforces the organizational metadata policy: every
// subgraph schema must declare ownership via a @contact directive on its
// schema definition or extension, with name, url and description arguments
// all present and non-empty. The policy is independent of GraphQL validity;
// a syntactically perfect schema without contact info still fails.
type ContactDirective struct{}

// NewContactDirective creates the contact-directive rule strategy.
func NewContactDirective() ContactDirective {
	return ContactDirective{}
}

// Name implements check.Rule.
func (ContactDirective) Name() string { return ContactRuleName }

// Evaluate implements check.Rule. A parse failure is returned as an error so
// the pipeline can record it against this subgraph without aborting others.
func (ContactDirective) Evaluate(ctx context.Context, subgraphName, source, supergraph string) ([]check.Violation, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: subgraphName, Input: source})
	if err != nil {
		return nil, err
	}

	directive := findContactDirective(doc)
	if directive == nil {
		// Directive absence has no single position, so no source location.
		return []check.Violation{{
			Level:   check.LevelError,
			Message: msgContactMissing,
			Rule:    ContactRuleName,
		}}, nil
	}

	location := directiveLocation(subgraphName, source, directive)

	var violations []check.Violation
	if !contactValuesPresent(directive.Arguments) {
		violations = append(violations, check.Violation{
			Level:           check.LevelError,
			Message:         msgContactValues,
			Rule:            ContactRuleName,
			SourceLocations: []check.SourceLocation{location},
		})
	}
	if !contactArgsComplete(directive.Arguments) {
		violations = append(violations, check.Violation{
			Level:           check.LevelError,
			Message:         msgContactArgs,
			Rule:            ContactRuleName,
			SourceLocations: []check.SourceLocation{location},
		})
	}
	return violations, nil
}

// findContactDirective looks for @contact on a schema definition first, then
// on schema extensions.
func findContactDirective(doc *ast.SchemaDocument) *ast.Directive {
	for _, schema := range doc.Schema {
		if d := schema.Directives.ForName(contactDirectiveName); d != nil {
			return d
		}
	}
	for _, ext := range doc.SchemaExtension {
		if d := ext.Directives.ForName(contactDirectiveName); d != nil {
			return d
		}
	}
	return nil
}

// contactValuesPresent reports whether every argument has both a field name
// and a non-empty value.
func contactValuesPresent(args ast.ArgumentList) bool {
	for _, arg := range args {
		if arg.Name == "" || arg.Value == nil || arg.Value.Raw == "" {
			return false
		}
	}
	return true
}

// contactArgsComplete reports whether the argument name set is a superset of
// the required names. Extra arguments are allowed.
func contactArgsComplete(args ast.ArgumentList) bool {
	present := make(map[string]bool, len(args))
	for _, arg := range args {
		present[arg.Name] = true
	}
	for _, required := range contactRequiredArgs {
		if !present[required] {
			return false
		}
	}
	return true
}

// directiveLocation computes the span from the directive's @ token through
// its closing parenthesis (or the end of its name when it has no arguments).
// The parser only records the position of the leading token, so the end is
// recovered by scanning the source. The scan anchors on the byte offset
// derived from the (line, column) position: the parser's own offsets count
// runes and drift under multi-byte text.
func directiveLocation(subgraphName, source string, d *ast.Directive) check.SourceLocation {
	start := check.ToCoordinate(source, d.Position.Line, d.Position.Column)

	// The parser positions directives at the name token; step back over the
	// leading @ so the span covers the whole directive.
	if start.ByteOffset > 0 && source[start.ByteOffset-1] == '@' {
		start = check.Coordinate{
			Line:       start.Line,
			Column:     start.Column - 1,
			ByteOffset: start.ByteOffset - 1,
		}
	}

	end := check.CoordinateAt(source, directiveEndOffset(source, start.ByteOffset))
	return check.SourceLocation{
		SubgraphName: subgraphName,
		Start:        start,
		End:          end,
	}
}

// directiveEndOffset scans from the byte offset of a directive's leading
// token and returns the offset just past the directive.
func directiveEndOffset(source string, start int) int {
	i := start
	if i < len(source) && source[i] == '@' {
		i++
	}
	for i < len(source) && isNameByte(source[i]) {
		i++
	}
	nameEnd := i

	// Optional argument list. GraphQL treats commas and line breaks as
	// insignificant, so skip them looking for the opening parenthesis.
	j := i
	for j < len(source) && isIgnoredByte(source[j]) {
		j++
	}
	if j >= len(source) || source[j] != '(' {
		return nameEnd
	}

	depth := 0
	for j < len(source) {
		switch source[j] {
		case '(':
			depth++
			j++
		case ')':
			depth--
			j++
			if depth == 0 {
				return j
			}
		case '"':
			j = skipString(source, j)
		default:
			j++
		}
	}
	return nameEnd
}

// skipString advances past a GraphQL string literal starting at offset i
// (which must point at a double quote) and returns the offset just past its
// closing quote. Handles both block strings and escaped quotes.
func skipString(source string, i int) int {
	if strings.HasPrefix(source[i:], `"""`) {
		rest := source[i+3:]
		for {
			idx := strings.Index(rest, `"""`)
			if idx < 0 {
				return len(source)
			}
			if idx > 0 && rest[idx-1] == '\\' {
				rest = rest[idx+3:]
				continue
			}
			return len(source) - len(rest) + idx + 3
		}
	}

	j := i + 1
	for j < len(source) {
		switch source[j] {
		case '\\':
			j += 2
		case '"':
			return j + 1
		case '\n':
			// Unterminated single-line string; the parser already rejected
			// this form, stop at the line break.
			return j
		default:
			j++
		}
	}
	return j
}

func isNameByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

func isIgnoredByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == ','
}
