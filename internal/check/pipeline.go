package check

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"schema-warden.io/warden/internal/pkg/worker"
)

// Diagnostic rule ids for failures of the pipeline itself, as opposed to
// governance rule findings. They participate in aggregation like any other
// violation so a broken check fails loudly instead of under-reporting.
const (
	RuleSourceResolution = "source-resolution"
	RuleEvaluation       = "evaluation"
)

// DocumentResolver maps content hashes to schema source text. A single
// batched call covers the supergraph plus all changed subgraphs. Missing
// sources are absent from the returned map, never an error.
type DocumentResolver interface {
	FetchDocuments(ctx context.Context, graphID string, hashes []string) (map[string]string, error)
}

// ResultReporter delivers the final verdict to the orchestrating check
// service.
type ResultReporter interface {
	ReportCheckResult(ctx context.Context, graphID, graphVariant string, result CheckResult) error
}

// Rule evaluates one subgraph's source text and returns its violations.
// supergraph carries the composed schema for rules that need cross-reference
// context; it may be empty.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, subgraphName, source, supergraph string) ([]Violation, error)
}

// Pipeline runs one schema check end to end: diff, batched source fetch,
// concurrent rule evaluation, aggregation, and the orchestrator callback.
// All collaborators are injected so tests can substitute fakes.
type Pipeline struct {
	resolver DocumentResolver
	reporter ResultReporter
	rules    []Rule
	pool     *worker.Pool
	deadline time.Duration
	log      *zap.Logger
}

// NewPipeline constructs a Pipeline. deadline bounds one check run; zero
// means no explicit deadline beyond the caller's context. A nil logger is
// replaced with a no-op logger.
func NewPipeline(resolver DocumentResolver, reporter ResultReporter, rules []Rule, pool *worker.Pool, deadline time.Duration, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		resolver: resolver,
		reporter: reporter,
		rules:    rules,
		pool:     pool,
		deadline: deadline,
		log:      log,
	}
}

// Run executes the check described by event and reports the verdict before
// returning. The returned CheckResult is what was reported.
//
// If ctx is cancelled before the callback fires the unit of work is
// abandoned: no callback, no partial result. Exceeding the pipeline deadline
// is not abandonment; the affected subgraphs contribute diagnostic ERROR
// violations and the (failed) verdict is still reported.
func (p *Pipeline) Run(ctx context.Context, event CheckEvent) (CheckResult, error) {
	runCtx := ctx
	if p.deadline > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.deadline)
		defer cancel()
	}

	changed := ChangedSubgraphs(event.BaseSchema, event.ProposedSchema)
	p.log.Info("Schema check started",
		zap.String("graph_id", event.GraphID),
		zap.String("task_id", event.TaskID),
		zap.Int("changed_subgraphs", len(changed)),
	)

	docs := p.fetchDocuments(runCtx, event, changed)
	supergraph := docs[event.ProposedSchema.Hash]

	perSubgraph := p.evaluateAll(runCtx, changed, docs, supergraph)

	if errors.Is(ctx.Err(), context.Canceled) {
		p.log.Warn("Schema check abandoned: request cancelled",
			zap.String("task_id", event.TaskID),
		)
		return CheckResult{}, ctx.Err()
	}

	result := Aggregate(event.TaskID, event.WorkflowID, perSubgraph)
	p.log.Info("Schema check evaluated",
		zap.String("task_id", event.TaskID),
		zap.String("status", string(result.Status)),
		zap.Int("violations", len(result.Violations)),
	)

	// The callback must complete before the webhook response is written, so
	// it runs here rather than after returning. It survives an expired run
	// deadline but not client abandonment (checked above).
	reportCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := p.reporter.ReportCheckResult(reportCtx, event.GraphID, event.GraphVariant, result); err != nil {
		// Logged, never retried. The orchestrator shows the check as pending
		// until it hears back; retrying here could double-report.
		p.log.Error("Check result callback failed",
			zap.String("task_id", event.TaskID),
			zap.String("workflow_id", event.WorkflowID),
			zap.Error(err),
		)
	}

	return result, nil
}

// fetchDocuments performs the single batched resolve covering the proposed
// supergraph hash plus all changed subgraph hashes. A transport failure
// degrades to an empty lookup table; the per-subgraph evaluation then raises
// diagnostic violations for every missing source.
func (p *Pipeline) fetchDocuments(ctx context.Context, event CheckEvent, changed []SubgraphRef) map[string]string {
	hashes := make([]string, 0, len(changed)+1)
	hashes = append(hashes, event.ProposedSchema.Hash)
	for _, sg := range changed {
		hashes = append(hashes, sg.Hash)
	}

	docs, err := p.resolver.FetchDocuments(ctx, event.GraphID, hashes)
	if err != nil {
		p.log.Error("Document resolution failed",
			zap.String("graph_id", event.GraphID),
			zap.Int("hashes", len(hashes)),
			zap.Error(err),
		)
		return map[string]string{}
	}
	return docs
}

// evaluateAll runs rule evaluation for every changed subgraph concurrently
// over the worker pool. Result slots are indexed so aggregation order matches
// the diff order regardless of completion order.
func (p *Pipeline) evaluateAll(ctx context.Context, changed []SubgraphRef, docs map[string]string, supergraph string) [][]Violation {
	slots := make([][]Violation, len(changed))

	var wg sync.WaitGroup
	var mu sync.Mutex
	for i, sg := range changed {
		i, sg := i, sg
		wg.Add(1)
		task := func(taskCtx context.Context) {
			defer wg.Done()
			vs := p.evaluateSubgraph(taskCtx, sg, docs, supergraph)
			mu.Lock()
			slots[i] = vs
			mu.Unlock()
		}
		if err := p.pool.Submit(ctx, task); err != nil {
			wg.Done()
			mu.Lock()
			slots[i] = []Violation{diagnostic(RuleEvaluation,
				fmt.Sprintf("Evaluation could not be scheduled for subgraph %q: %v", sg.Name, err))}
			mu.Unlock()
		}
	}
	wg.Wait()

	return slots
}

// evaluateSubgraph runs every configured rule against one subgraph. Rule
// errors and panics are contained here; they surface as diagnostic ERROR
// violations for this subgraph and never abort the sibling evaluations.
func (p *Pipeline) evaluateSubgraph(ctx context.Context, sg SubgraphRef, docs map[string]string, supergraph string) []Violation {
	if err := ctx.Err(); err != nil {
		return []Violation{diagnostic(RuleEvaluation,
			fmt.Sprintf("Evaluation aborted for subgraph %q: %v", sg.Name, err))}
	}

	source, ok := docs[sg.Hash]
	if !ok || strings.TrimSpace(source) == "" {
		return []Violation{diagnostic(RuleSourceResolution,
			fmt.Sprintf("No source document available for subgraph %q", sg.Name))}
	}

	var violations []Violation
	for _, rule := range p.rules {
		vs, err := p.runRule(ctx, rule, sg.Name, source, supergraph)
		if err != nil {
			p.log.Warn("Rule evaluation failed",
				zap.String("rule", rule.Name()),
				zap.String("subgraph", sg.Name),
				zap.Error(err),
			)
			violations = append(violations, diagnostic(RuleEvaluation,
				fmt.Sprintf("Rule %q could not evaluate subgraph %q: %v", rule.Name(), sg.Name, err)))
			continue
		}
		violations = append(violations, vs...)
	}
	return violations
}

func (p *Pipeline) runRule(ctx context.Context, rule Rule, name, source, supergraph string) (vs []Violation, err error) {
	defer func() {
		if r := recover(); r != nil {
			vs = nil
			err = fmt.Errorf("rule panicked: %v", r)
		}
	}()
	return rule.Evaluate(ctx, name, source, supergraph)
}

func diagnostic(rule, message string) Violation {
	return Violation{
		Level:   LevelError,
		Message: message,
		Rule:    rule,
	}
}
