package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	registry := NewRegistry()
	require.NoError(t, registry.Register(NewContactDirective()))
	require.NoError(t, registry.Register(NewLintRuleset(RulesetConfig{})))
	return registry
}

func TestRegistry_Select(t *testing.T) {
	registry := newTestRegistry(t)

	selected, err := registry.Select([]string{LintRuleName, ContactRuleName})
	require.NoError(t, err)
	require.Len(t, selected, 2)
	// Order follows the requested names, not registration order.
	require.Equal(t, LintRuleName, selected[0].Name())
	require.Equal(t, ContactRuleName, selected[1].Name())
}

func TestRegistry_SelectSubset(t *testing.T) {
	registry := newTestRegistry(t)

	selected, err := registry.Select([]string{ContactRuleName})
	require.NoError(t, err)
	require.Len(t, selected, 1)
	require.Equal(t, ContactRuleName, selected[0].Name())
}

func TestRegistry_SelectUnknown(t *testing.T) {
	registry := newTestRegistry(t)

	_, err := registry.Select([]string{"contact-directiv"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "contact-directiv")
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(NewContactDirective()))
	require.Error(t, registry.Register(NewContactDirective()))
}

func TestRegistry_Names(t *testing.T) {
	registry := newTestRegistry(t)
	require.Equal(t, []string{ContactRuleName, LintRuleName}, registry.Names())
}
