package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "schema-warden.io/warden/internal/pkg/errors"
)

func TestResolverClient_FetchDocuments(t *testing.T) {
	var gotPath, gotAPIKey string
	var gotReq documentRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get(APIKeyHeader)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"hash": "p2", "source": "type Product { id: ID }"},
			{"hash": "missing", "source": null},
			{"hash": "r1", "source": "type Review { id: ID }"}
		]`))
	}))
	defer srv.Close()

	client := NewResolverClient(srv.URL, "key-123", 5*time.Second)
	defer client.Close()

	docs, err := client.FetchDocuments(context.Background(), "graph-1", []string{"p2", "missing", "r1"})
	require.NoError(t, err)

	require.Equal(t, "/documents", gotPath)
	require.Equal(t, "key-123", gotAPIKey)
	require.Equal(t, "graph-1", gotReq.GraphID)
	require.Equal(t, []string{"p2", "missing", "r1"}, gotReq.Hashes)

	// Null sources are dropped, not returned as empty strings.
	require.Equal(t, map[string]string{
		"p2": "type Product { id: ID }",
		"r1": "type Review { id: ID }",
	}, docs)
}

func TestResolverClient_FetchDocuments_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewResolverClient(srv.URL, "key-123", 5*time.Second)
	defer client.Close()

	_, err := client.FetchDocuments(context.Background(), "graph-1", []string{"p2"})
	require.Error(t, err)

	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperrors.CodeResolutionFailed, appErr.Code)
}

func TestResolverClient_FetchDocuments_Unreachable(t *testing.T) {
	// Reserved TEST-NET address, nothing listens there.
	client := NewResolverClient("http://192.0.2.1:1", "key-123", 100*time.Millisecond)
	defer client.Close()

	_, err := client.FetchDocuments(context.Background(), "graph-1", []string{"p2"})
	require.Error(t, err)

	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperrors.CodeResolutionFailed, appErr.Code)
}
