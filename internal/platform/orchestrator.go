package platform

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resty.dev/v3"

	"schema-warden.io/warden/internal/check"
	apperrors "schema-warden.io/warden/internal/pkg/errors"
)

// OrchestratorClient delivers check verdicts back to the orchestrating check
// service.
type OrchestratorClient struct {
	http *resty.Client
}

// NewOrchestratorClient creates an orchestrator client for the given base URL.
func NewOrchestratorClient(baseURL, apiKey string, timeout time.Duration) *OrchestratorClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader(APIKeyHeader, apiKey).
		SetHeader("Content-Type", "application/json")
	return &OrchestratorClient{http: client}
}

// Close releases the underlying transport.
func (c *OrchestratorClient) Close() error {
	return c.http.Close()
}

type callbackRequest struct {
	GraphID      string            `json:"graphId"`
	GraphVariant string            `json:"graphVariant"`
	Input        check.CheckResult `json:"input"`
}

// callbackResponse is either a result echo or a typed error. The orchestrator
// discriminates by typename.
type callbackResponse struct {
	Typename string `json:"__typename"`
	Message  string `json:"message,omitempty"`
}

// typedErrorCodes maps the orchestrator's error typenames to AppError codes.
var typedErrorCodes = map[string]string{
	"PermissionError": apperrors.CodePermissionError,
	"TaskError":       apperrors.CodeTaskError,
	"ValidationError": apperrors.CodeValidationError,
}

// ReportCheckResult posts the final verdict. Typed errors in the response
// come back as AppErrors; the pipeline logs them and never retries — a retry
// could double-report a completed check.
func (c *OrchestratorClient) ReportCheckResult(ctx context.Context, graphID, graphVariant string, result check.CheckResult) error {
	var body callbackResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(callbackRequest{GraphID: graphID, GraphVariant: graphVariant, Input: result}).
		SetResult(&body).
		Post("/checks/result")
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeReportingFailed,
			"check result callback failed", http.StatusBadGateway)
	}
	if res.IsError() {
		return apperrors.New(apperrors.CodeReportingFailed,
			fmt.Sprintf("orchestrator returned %s", res.Status()),
			http.StatusBadGateway)
	}

	if code, ok := typedErrorCodes[body.Typename]; ok {
		return apperrors.New(code,
			fmt.Sprintf("orchestrator rejected check result: %s", body.Message),
			http.StatusBadGateway)
	}
	return nil
}
