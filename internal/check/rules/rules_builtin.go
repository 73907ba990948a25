package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// RuleInvalidSchema is the finding id for SDL that does not parse. It is not
// part of builtinRules because it is raised before AST rules can run.
const RuleInvalidSchema = "invalid-graphql-schema"

// Finding is one raw lint result before translation into a Violation.
// EndLine/EndColumn are zero when the rule knows only a point position.
type Finding struct {
	RuleID    string
	Message   string
	Severity  Severity
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// lintContext is the per-run view shared by the builtin rules: the parsed
// subgraph document plus the set of type names known to the composed
// supergraph (empty when no supergraph text was supplied).
type lintContext struct {
	doc        *ast.SchemaDocument
	defined    map[string]*ast.Definition
	supergraph map[string]bool
}

type builtinRule struct {
	id       string
	severity Severity
	run      func(cx *lintContext) []Finding
}

// builtinRules is the schema-recommended bundle, evaluated in order so
// finding order is deterministic for a given document.
var builtinRules = []builtinRule{
	{id: "types-are-capitalized", severity: SeverityWarning, run: typesAreCapitalized},
	{id: "fields-are-camel-cased", severity: SeverityWarning, run: fieldsAreCamelCased},
	{id: "enum-values-all-caps", severity: SeverityWarning, run: enumValuesAllCaps},
	{id: "types-have-descriptions", severity: SeverityWarning, run: typesHaveDescriptions},
	{id: "deprecations-have-a-reason", severity: SeverityWarning, run: deprecationsHaveAReason},
	{id: "relay-page-info-spec", severity: SeverityWarning, run: relayPageInfoSpec},
	{id: "defined-types-are-used", severity: SeverityWarning, run: definedTypesAreUsed},
	{id: "type-existence", severity: SeverityError, run: typeExistence},
}

var (
	camelCaseRe = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
	allCapsRe   = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
)

// builtinScalars are the GraphQL spec scalars, never flagged by type checks.
var builtinScalars = map[string]bool{
	"String":  true,
	"Int":     true,
	"Float":   true,
	"Boolean": true,
	"ID":      true,
}

func newLintContext(doc *ast.SchemaDocument, supergraph map[string]bool) *lintContext {
	defined := make(map[string]*ast.Definition, len(doc.Definitions))
	for _, def := range doc.Definitions {
		defined[def.Name] = def
	}
	return &lintContext{doc: doc, defined: defined, supergraph: supergraph}
}

func findingAt(id string, severity Severity, pos *ast.Position, message string) Finding {
	f := Finding{RuleID: id, Severity: severity, Message: message, Line: 1, Column: 1}
	if pos != nil {
		f.Line = pos.Line
		f.Column = pos.Column
	}
	return f
}

func typesAreCapitalized(cx *lintContext) []Finding {
	var out []Finding
	for _, def := range allDefinitions(cx.doc) {
		if isInternalName(def.Name) || len(def.Name) == 0 {
			continue
		}
		first := def.Name[0]
		if first >= 'a' && first <= 'z' {
			out = append(out, findingAt("types-are-capitalized", SeverityWarning, def.Position,
				fmt.Sprintf("Type %q should begin with a capital letter", def.Name)))
		}
	}
	return out
}

func fieldsAreCamelCased(cx *lintContext) []Finding {
	var out []Finding
	for _, def := range allDefinitions(cx.doc) {
		if def.Kind != ast.Object && def.Kind != ast.Interface && def.Kind != ast.InputObject {
			continue
		}
		for _, field := range def.Fields {
			if isInternalName(field.Name) {
				continue
			}
			if !camelCaseRe.MatchString(field.Name) {
				out = append(out, findingAt("fields-are-camel-cased", SeverityWarning, field.Position,
					fmt.Sprintf("Field %q of type %q should be camelCase", field.Name, def.Name)))
			}
		}
	}
	return out
}

func enumValuesAllCaps(cx *lintContext) []Finding {
	var out []Finding
	for _, def := range allDefinitions(cx.doc) {
		if def.Kind != ast.Enum {
			continue
		}
		for _, value := range def.EnumValues {
			if !allCapsRe.MatchString(value.Name) {
				out = append(out, findingAt("enum-values-all-caps", SeverityWarning, value.Position,
					fmt.Sprintf("Enum value %q of enum %q should be ALL_CAPS", value.Name, def.Name)))
			}
		}
	}
	return out
}

func typesHaveDescriptions(cx *lintContext) []Finding {
	var out []Finding
	for _, def := range cx.doc.Definitions {
		if isInternalName(def.Name) || def.BuiltIn {
			continue
		}
		if strings.TrimSpace(def.Description) == "" {
			out = append(out, findingAt("types-have-descriptions", SeverityWarning, def.Position,
				fmt.Sprintf("Type %q is missing a description", def.Name)))
		}
	}
	return out
}

func deprecationsHaveAReason(cx *lintContext) []Finding {
	var out []Finding
	flag := func(owner string, directives ast.DirectiveList) {
		d := directives.ForName("deprecated")
		if d == nil {
			return
		}
		reason := d.Arguments.ForName("reason")
		if reason == nil || reason.Value == nil || strings.TrimSpace(reason.Value.Raw) == "" {
			out = append(out, findingAt("deprecations-have-a-reason", SeverityWarning, d.Position,
				fmt.Sprintf("Deprecation of %q is missing a reason", owner)))
		}
	}
	for _, def := range allDefinitions(cx.doc) {
		for _, field := range def.Fields {
			flag(def.Name+"."+field.Name, field.Directives)
		}
		for _, value := range def.EnumValues {
			flag(def.Name+"."+value.Name, value.Directives)
		}
	}
	return out
}

func relayPageInfoSpec(cx *lintContext) []Finding {
	var out []Finding
	for _, def := range allDefinitions(cx.doc) {
		if def.Kind != ast.Object || !strings.HasSuffix(def.Name, "Connection") {
			continue
		}
		pageInfo := def.Fields.ForName("pageInfo")
		if pageInfo == nil || pageInfo.Type == nil || pageInfo.Type.Name() != "PageInfo" || !pageInfo.Type.NonNull {
			out = append(out, findingAt("relay-page-info-spec", SeverityWarning, def.Position,
				fmt.Sprintf("Connection type %q must have a non-nullable pageInfo: PageInfo! field", def.Name)))
		}
	}
	return out
}

func definedTypesAreUsed(cx *lintContext) []Finding {
	used := referencedTypeNames(cx.doc)
	roots := rootTypeNames(cx.doc)

	var out []Finding
	for _, def := range cx.doc.Definitions {
		if isInternalName(def.Name) || def.BuiltIn || def.Kind == ast.Object && roots[def.Name] {
			continue
		}
		if !used[def.Name] {
			out = append(out, findingAt("defined-types-are-used", SeverityWarning, def.Position,
				fmt.Sprintf("Type %q is defined but never used", def.Name)))
		}
	}
	return out
}

// typeExistence cross-references every named type against the local
// document, the builtin scalars, and the supergraph. It only runs with
// supergraph context: without the composed schema, references into sibling
// subgraphs would be indistinguishable from typos.
func typeExistence(cx *lintContext) []Finding {
	if len(cx.supergraph) == 0 {
		return nil
	}

	seen := make(map[string]*ast.Position)
	record := func(t *ast.Type) {
		if t == nil {
			return
		}
		name := t.Name()
		if name == "" || builtinScalars[name] || isInternalName(name) {
			return
		}
		if _, ok := seen[name]; !ok {
			seen[name] = t.Position
		}
	}
	for _, def := range allDefinitions(cx.doc) {
		for _, field := range def.Fields {
			record(field.Type)
			for _, arg := range field.Arguments {
				record(arg.Type)
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []Finding
	for _, name := range names {
		if _, local := cx.defined[name]; local {
			continue
		}
		if cx.supergraph[name] {
			continue
		}
		out = append(out, findingAt("type-existence", SeverityError, seen[name],
			fmt.Sprintf("Type %q is not defined in this subgraph or the supergraph", name)))
	}
	return out
}

// allDefinitions returns type definitions plus type extensions, so rules see
// `extend type Query { ... }` fields as well.
func allDefinitions(doc *ast.SchemaDocument) []*ast.Definition {
	defs := make([]*ast.Definition, 0, len(doc.Definitions)+len(doc.Extensions))
	defs = append(defs, doc.Definitions...)
	defs = append(defs, doc.Extensions...)
	return defs
}

func referencedTypeNames(doc *ast.SchemaDocument) map[string]bool {
	used := make(map[string]bool)
	mark := func(t *ast.Type) {
		if t != nil && t.Name() != "" {
			used[t.Name()] = true
		}
	}
	for _, def := range allDefinitions(doc) {
		for _, field := range def.Fields {
			mark(field.Type)
			for _, arg := range field.Arguments {
				mark(arg.Type)
			}
		}
		for _, member := range def.Types {
			used[member] = true
		}
		for _, iface := range def.Interfaces {
			used[iface] = true
		}
	}
	for _, directive := range doc.Directives {
		for _, arg := range directive.Arguments {
			mark(arg.Type)
		}
	}
	return used
}

// rootTypeNames returns the operation root types: the conventional
// Query/Mutation/Subscription names plus anything bound by a schema block.
func rootTypeNames(doc *ast.SchemaDocument) map[string]bool {
	roots := map[string]bool{
		"Query":        true,
		"Mutation":     true,
		"Subscription": true,
	}
	for _, schema := range doc.Schema {
		for _, op := range schema.OperationTypes {
			roots[op.Type] = true
		}
	}
	for _, ext := range doc.SchemaExtension {
		for _, op := range ext.OperationTypes {
			roots[op.Type] = true
		}
	}
	return roots
}

// isInternalName reports introspection and federation machinery names, which
// are exempt from style rules.
func isInternalName(name string) bool {
	return strings.HasPrefix(name, "__") || strings.HasPrefix(name, "_")
}
