// Package platform contains the HTTP clients for the two external
// collaborators: the document-source store that resolves content hashes to
// schema text, and the orchestrating check service that receives the final
// verdict. Both are constructed once at bootstrap and injected into the
// pipeline, so tests substitute fakes through the interfaces the pipeline
// consumes.
package platform

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resty.dev/v3"

	apperrors "schema-warden.io/warden/internal/pkg/errors"
)

// APIKeyHeader authenticates both collaborator calls.
const APIKeyHeader = "x-api-key"

// ResolverClient talks to the document-source store.
type ResolverClient struct {
	http *resty.Client
}

// NewResolverClient creates a resolver client for the given base URL.
func NewResolverClient(baseURL, apiKey string, timeout time.Duration) *ResolverClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader(APIKeyHeader, apiKey).
		SetHeader("Content-Type", "application/json")
	return &ResolverClient{http: client}
}

// Close releases the underlying transport.
func (c *ResolverClient) Close() error {
	return c.http.Close()
}

type documentRequest struct {
	GraphID string   `json:"graphId"`
	Hashes  []string `json:"hashes"`
}

// documentEntry tolerates null sources: a hash the store cannot resolve
// comes back with source = null and is simply absent from the result map.
type documentEntry struct {
	Hash   string  `json:"hash"`
	Source *string `json:"source"`
}

// FetchDocuments resolves content hashes to schema source text in one
// batched call. The returned map contains only hashes that resolved to a
// non-null source.
func (c *ResolverClient) FetchDocuments(ctx context.Context, graphID string, hashes []string) (map[string]string, error) {
	var entries []documentEntry
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(documentRequest{GraphID: graphID, Hashes: hashes}).
		SetResult(&entries).
		Post("/documents")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeResolutionFailed,
			"document resolver request failed", http.StatusServiceUnavailable)
	}
	if res.IsError() {
		return nil, apperrors.New(apperrors.CodeResolutionFailed,
			fmt.Sprintf("document resolver returned %s", res.Status()),
			http.StatusServiceUnavailable)
	}

	docs := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.Source == nil {
			continue
		}
		docs[entry.Hash] = *entry.Source
	}
	return docs, nil
}
