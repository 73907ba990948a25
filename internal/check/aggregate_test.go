package check

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	testCases := []struct {
		name        string
		perSubgraph [][]Violation
		wantStatus  CheckStatus
		wantCount   int
	}{
		{
			name: "warning plus error fails",
			perSubgraph: [][]Violation{
				{{Level: LevelWarning, Message: "w", Rule: "r1"}},
				{{Level: LevelError, Message: "e", Rule: "r2"}},
			},
			wantStatus: StatusFailure,
			wantCount:  2,
		},
		{
			name: "only warnings succeed",
			perSubgraph: [][]Violation{
				{{Level: LevelWarning, Message: "w1", Rule: "r1"}},
				{{Level: LevelWarning, Message: "w2", Rule: "r1"}},
			},
			wantStatus: StatusSuccess,
			wantCount:  2,
		},
		{
			name:        "no violations succeed",
			perSubgraph: [][]Violation{nil, nil},
			wantStatus:  StatusSuccess,
			wantCount:   0,
		},
		{
			name:        "no subgraphs succeed",
			perSubgraph: nil,
			wantStatus:  StatusSuccess,
			wantCount:   0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Aggregate("task-1", "wf-1", tc.perSubgraph)
			require.Equal(t, tc.wantStatus, got.Status)
			require.Len(t, got.Violations, tc.wantCount)
			require.Equal(t, "task-1", got.TaskID)
			require.Equal(t, "wf-1", got.WorkflowID)
			require.NotNil(t, got.Violations, "violations must serialize as [], not null")
		})
	}
}

func TestAggregate_PreservesOrder(t *testing.T) {
	perSubgraph := [][]Violation{
		{
			{Level: LevelWarning, Message: "first", Rule: "r"},
			{Level: LevelWarning, Message: "second", Rule: "r"},
		},
		{
			{Level: LevelError, Message: "third", Rule: "r"},
		},
	}

	got := Aggregate("t", "w", perSubgraph)
	require.Equal(t, []string{"first", "second", "third"}, []string{
		got.Violations[0].Message,
		got.Violations[1].Message,
		got.Violations[2].Message,
	})
}
