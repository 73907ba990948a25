// Package app is the composition root; bootstrap stays orchestration-only.
package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"schema-warden.io/warden/internal/api/handlers"
	"schema-warden.io/warden/internal/check"
	"schema-warden.io/warden/internal/check/rules"
	"schema-warden.io/warden/internal/config"
	"schema-warden.io/warden/internal/pkg/logger"
	"schema-warden.io/warden/internal/pkg/worker"
	"schema-warden.io/warden/internal/platform"
)

// Application holds composed application dependencies.
type Application struct {
	Config *config.Config
	Router *gin.Engine
	Pool   *worker.Pool

	resolver     *platform.ResolverClient
	orchestrator *platform.OrchestratorClient
}

// Bootstrap initializes all dependencies using manual DI: config → pool →
// collaborator clients → rule registry → pipeline → HTTP server.
func Bootstrap(cfg *config.Config) (*Application, error) {
	pool, err := worker.NewPool("evaluation", cfg.Worker.EvaluationPoolSize)
	if err != nil {
		return nil, fmt.Errorf("init worker pool: %w", err)
	}

	resolver := platform.NewResolverClient(
		cfg.Platform.ResolverURL, cfg.Security.APIKey, cfg.Platform.Timeout)
	orchestrator := platform.NewOrchestratorClient(
		cfg.Platform.OrchestratorURL, cfg.Security.APIKey, cfg.Platform.Timeout)

	ruleset, err := rules.LoadRuleset(cfg.Lint.RulesetPath)
	if err != nil {
		pool.Shutdown()
		return nil, fmt.Errorf("load lint ruleset: %w", err)
	}

	registry := rules.NewRegistry()
	if err := registry.Register(rules.NewContactDirective()); err != nil {
		pool.Shutdown()
		return nil, fmt.Errorf("register rules: %w", err)
	}
	if err := registry.Register(rules.NewLintRuleset(ruleset)); err != nil {
		pool.Shutdown()
		return nil, fmt.Errorf("register rules: %w", err)
	}

	selected, err := registry.Select(cfg.Check.Rules)
	if err != nil {
		pool.Shutdown()
		return nil, fmt.Errorf("select rule strategies: %w", err)
	}

	pipeline := check.NewPipeline(
		resolver, orchestrator, selected, pool, cfg.Check.Deadline, logger.L())

	server := handlers.NewServer(cfg, pipeline, pool)

	return &Application{
		Config:       cfg,
		Router:       newRouter(server),
		Pool:         pool,
		resolver:     resolver,
		orchestrator: orchestrator,
	}, nil
}

// Shutdown releases the worker pool and client transports.
func (a *Application) Shutdown() {
	a.Pool.Shutdown()
	if err := a.resolver.Close(); err != nil {
		logger.Warn("Resolver client close failed")
	}
	if err := a.orchestrator.Close(); err != nil {
		logger.Warn("Orchestrator client close failed")
	}
}
