// Package handlers implements the HTTP surface of the schema warden
// service: the check webhook plus health and diagnostics endpoints.
package handlers

import (
	"context"

	"schema-warden.io/warden/internal/check"
	"schema-warden.io/warden/internal/config"
	"schema-warden.io/warden/internal/pkg/worker"
)

// CheckRunner executes one schema check end to end and reports the verdict
// before returning. Satisfied by check.Pipeline; faked in handler tests.
type CheckRunner interface {
	Run(ctx context.Context, event check.CheckEvent) (check.CheckResult, error)
}

// Server holds the handler dependencies.
type Server struct {
	cfg    *config.Config
	runner CheckRunner
	pool   *worker.Pool
}

// NewServer creates the handler set.
func NewServer(cfg *config.Config, runner CheckRunner, pool *worker.Pool) *Server {
	return &Server{
		cfg:    cfg,
		runner: runner,
		pool:   pool,
	}
}
