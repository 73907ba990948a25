// Package rules contains the governance rule strategies evaluated against
// subgraph SDL during a schema check, and the registry that dispatches them
// by name.
package rules

import (
	"fmt"
	"sort"

	"schema-warden.io/warden/internal/check"
)

// Registry holds named rule strategies. Handlers select strategies by the
// names carried in configuration, so adding a check variant is a config
// change rather than a new pipeline.
type Registry struct {
	rules map[string]check.Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]check.Rule)}
}

// Register adds a rule strategy under its name.
func (r *Registry) Register(rule check.Rule) error {
	name := rule.Name()
	if _, exists := r.rules[name]; exists {
		return fmt.Errorf("rule %q already registered", name)
	}
	r.rules[name] = rule
	return nil
}

// Get returns the rule registered under name.
func (r *Registry) Get(name string) (check.Rule, bool) {
	rule, ok := r.rules[name]
	return rule, ok
}

// Select resolves a list of strategy names into rules, in the given order.
// Unknown names are an error so a typo in config fails at bootstrap instead
// of silently skipping a rule.
func (r *Registry) Select(names []string) ([]check.Rule, error) {
	selected := make([]check.Rule, 0, len(names))
	for _, name := range names {
		rule, ok := r.rules[name]
		if !ok {
			return nil, fmt.Errorf("unknown rule strategy %q (registered: %v)", name, r.Names())
		}
		selected = append(selected, rule)
	}
	return selected, nil
}

// Names returns the registered strategy names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
