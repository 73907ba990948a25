package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"schema-warden.io/warden/internal/check"
	apperrors "schema-warden.io/warden/internal/pkg/errors"
)

func testResult() check.CheckResult {
	return check.CheckResult{
		TaskID:     "task-1",
		WorkflowID: "wf-1",
		Status:     check.StatusFailure,
		Violations: []check.Violation{
			{Level: check.LevelError, Message: "bad", Rule: "stub"},
		},
	}
}

func TestOrchestratorClient_ReportCheckResult(t *testing.T) {
	var gotPath, gotAPIKey string
	var gotReq callbackRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get(APIKeyHeader)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"__typename": "CheckWorkflowTask"}`))
	}))
	defer srv.Close()

	client := NewOrchestratorClient(srv.URL, "key-123", 5*time.Second)
	defer client.Close()

	err := client.ReportCheckResult(context.Background(), "graph-1", "current", testResult())
	require.NoError(t, err)

	require.Equal(t, "/checks/result", gotPath)
	require.Equal(t, "key-123", gotAPIKey)
	require.Equal(t, "graph-1", gotReq.GraphID)
	require.Equal(t, "current", gotReq.GraphVariant)
	require.Equal(t, "task-1", gotReq.Input.TaskID)
	require.Equal(t, check.StatusFailure, gotReq.Input.Status)
}

func TestOrchestratorClient_ReportCheckResult_TypedErrors(t *testing.T) {
	testCases := []struct {
		typename string
		wantCode string
	}{
		{typename: "PermissionError", wantCode: apperrors.CodePermissionError},
		{typename: "TaskError", wantCode: apperrors.CodeTaskError},
		{typename: "ValidationError", wantCode: apperrors.CodeValidationError},
	}

	for _, tc := range testCases {
		t.Run(tc.typename, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"__typename": "` + tc.typename + `", "message": "nope"}`))
			}))
			defer srv.Close()

			client := NewOrchestratorClient(srv.URL, "key-123", 5*time.Second)
			defer client.Close()

			err := client.ReportCheckResult(context.Background(), "graph-1", "current", testResult())
			require.Error(t, err)

			appErr, ok := apperrors.IsAppError(err)
			require.True(t, ok)
			require.Equal(t, tc.wantCode, appErr.Code)
			require.Equal(t, http.StatusBadGateway, appErr.HTTPStatus)
			require.Contains(t, appErr.Message, "nope")
		})
	}
}

func TestOrchestratorClient_ReportCheckResult_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewOrchestratorClient(srv.URL, "key-123", 5*time.Second)
	defer client.Close()

	err := client.ReportCheckResult(context.Background(), "graph-1", "current", testResult())
	require.Error(t, err)

	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperrors.CodeReportingFailed, appErr.Code)
}
