package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"schema-warden.io/warden/internal/check"
	apperrors "schema-warden.io/warden/internal/pkg/errors"
	"schema-warden.io/warden/internal/pkg/logger"
)

// SignatureHeader carries the webhook HMAC signature.
const SignatureHeader = "x-apollo-signature"

// maxEventBytes bounds the webhook body; schema refs are small, the sources
// themselves travel through the document resolver.
const maxEventBytes = 1 << 20

// PostCheckWebhook handles POST /webhooks/check.
//
// The signature is verified against the exact raw body bytes before any
// parsing; re-serializing the parsed event would invalidate it. Auth failure
// is the only non-200 outcome of a completed request: pass and fail verdicts
// both return 200 with body "OK", since the verdict travels through the
// orchestrator callback, not this response.
func (s *Server) PostCheckWebhook(c *gin.Context) {
	// Read one byte past the limit so an oversized body is detected rather
	// than silently truncated into a bogus signature mismatch.
	rawBody, err := io.ReadAll(io.LimitReader(c.Request.Body, maxEventBytes+1))
	if err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.CodeEventMalformed,
			"failed to read webhook body", http.StatusBadRequest))
		return
	}
	if len(rawBody) > maxEventBytes {
		_ = c.Error(apperrors.New(apperrors.CodeEventTooLarge,
			"webhook body exceeds the maximum event size", http.StatusRequestEntityTooLarge))
		return
	}

	if !check.VerifySignature(rawBody, c.GetHeader(SignatureHeader), s.cfg.Security.WebhookSecret) {
		logger.Warn("Webhook signature rejected",
			zap.String("remote_addr", c.ClientIP()),
		)
		c.String(http.StatusForbidden, "Signature is invalid")
		return
	}

	var event check.CheckEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.CodeEventMalformed,
			"webhook body is not a valid check event", http.StatusBadRequest))
		return
	}

	// The pipeline reports its verdict to the orchestrator before Run
	// returns, so a 200 here always means the callback was attempted.
	if _, err := s.runner.Run(c.Request.Context(), event); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.CodeCheckAbandoned,
			"check abandoned before completion", http.StatusInternalServerError))
		return
	}

	c.String(http.StatusOK, "OK")
}
