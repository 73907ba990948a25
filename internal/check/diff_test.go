package check

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChangedSubgraphs(t *testing.T) {
	testCases := []struct {
		name     string
		base     SchemaRef
		proposed SchemaRef
		want     []SubgraphRef
	}{
		{
			name: "changed and added subgraphs in proposed order",
			base: SchemaRef{Subgraphs: []SubgraphRef{
				{Name: "a", Hash: "h1"},
				{Name: "b", Hash: "h2"},
			}},
			proposed: SchemaRef{Subgraphs: []SubgraphRef{
				{Name: "a", Hash: "h1"},
				{Name: "b", Hash: "h3"},
				{Name: "c", Hash: "h4"},
			}},
			want: []SubgraphRef{
				{Name: "b", Hash: "h3"},
				{Name: "c", Hash: "h4"},
			},
		},
		{
			name: "empty base means everything changed",
			base: SchemaRef{},
			proposed: SchemaRef{Subgraphs: []SubgraphRef{
				{Name: "a", Hash: "h1"},
				{Name: "b", Hash: "h2"},
			}},
			want: []SubgraphRef{
				{Name: "a", Hash: "h1"},
				{Name: "b", Hash: "h2"},
			},
		},
		{
			name: "removed subgraphs are not reported",
			base: SchemaRef{Subgraphs: []SubgraphRef{
				{Name: "a", Hash: "h1"},
				{Name: "b", Hash: "h2"},
			}},
			proposed: SchemaRef{Subgraphs: []SubgraphRef{
				{Name: "a", Hash: "h1"},
			}},
			want: nil,
		},
		{
			name:     "both absent",
			base:     SchemaRef{},
			proposed: SchemaRef{},
			want:     nil,
		},
		{
			name: "same name different hash",
			base: SchemaRef{Subgraphs: []SubgraphRef{
				{Name: "a", Hash: "h1"},
			}},
			proposed: SchemaRef{Subgraphs: []SubgraphRef{
				{Name: "a", Hash: "h9"},
			}},
			want: []SubgraphRef{
				{Name: "a", Hash: "h9"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ChangedSubgraphs(tc.base, tc.proposed)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestChangedSubgraphs_Idempotent(t *testing.T) {
	base := SchemaRef{Subgraphs: []SubgraphRef{{Name: "a", Hash: "h1"}}}
	proposed := SchemaRef{Subgraphs: []SubgraphRef{
		{Name: "a", Hash: "h2"},
		{Name: "b", Hash: "h3"},
	}}

	first := ChangedSubgraphs(base, proposed)
	second := ChangedSubgraphs(base, proposed)
	require.Equal(t, first, second)
}
