package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/frontaudit/internal/analyzer"
	"github.com/nao1215/frontaudit/internal/model"
	"golang.org/x/sync/errgroup"
)

// Auditor analyzes a fixed list of targets and aggregates the results.
type Auditor struct {
	// provider supplies target contents.
	provider ContentProvider

	// targets is the ordered list of files to analyze.
	targets []model.AnalysisTarget

	// concurrency is the maximum number of targets analyzed at once.
	concurrency int

	// logger is used for run-level logging.
	logger *slog.Logger

	// now returns the run timestamp.
	now func() time.Time
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithLogger sets a custom logger for the auditor.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Auditor) {
		a.logger = logger
	}
}

// WithConcurrency sets the maximum number of targets analyzed in parallel.
// Values below 1 are ignored. Report order does not depend on it.
func WithConcurrency(n int) Option {
	return func(a *Auditor) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithClock sets the function used to stamp the report.
func WithClock(now func() time.Time) Option {
	return func(a *Auditor) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an Auditor over the given targets.
// The target slice is copied so later changes by the caller have no effect.
func New(provider ContentProvider, targets []model.AnalysisTarget, opts ...Option) *Auditor {
	a := &Auditor{
		provider:    provider,
		targets:     append([]model.AnalysisTarget(nil), targets...),
		concurrency: 1,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = slog.Default()
	}

	return a
}

// Run analyzes every target and returns the aggregate report.
//
// Design decision: We use errgroup.SetLimit for bounded parallelism,
// but each result is written to its own slot and collected in target order
// afterwards. With the default concurrency of 1 targets are processed
// strictly one after another.
func (a *Auditor) Run(ctx context.Context) (*model.AuditReport, error) {
	report := model.NewAuditReport(a.now())

	a.logger.Info("starting audit",
		"targets", len(a.targets),
		"concurrency", a.concurrency,
	)

	results := make([]*model.FileReport, len(a.targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, target := range a.targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			fr, err := a.analyzeTarget(gctx, target)
			if err != nil {
				return err
			}
			results[i] = fr
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, fr := range results {
		if fr != nil {
			report.Add(*fr)
		}
	}

	a.logger.Info("audit complete",
		"files", len(report.Files),
		"findings", report.TotalFindings(),
		"warnings", report.WarningCount(),
	)

	return report, nil
}

// analyzeTarget loads, decodes and analyzes one target.
// It returns nil without error when the target does not exist.
func (a *Auditor) analyzeTarget(ctx context.Context, target model.AnalysisTarget) (*model.FileReport, error) {
	data, err := a.provider.Content(ctx, target.Name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			a.logger.Debug("skipping missing target", "target", target.Name)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", target.Name, err)
	}

	content := Decode(data)
	findings := analyzer.Analyze(target, content)

	for _, f := range findings {
		a.logger.Debug("finding",
			"target", target.Name,
			"type", f.Type,
			"value", f.Value,
		)
	}

	return &model.FileReport{
		Target:   target,
		Findings: findings,
		Digest:   Digest(content),
	}, nil
}

// RunAudit analyzes targets sequentially with default options.
func RunAudit(ctx context.Context, provider ContentProvider, targets []model.AnalysisTarget) (*model.AuditReport, error) {
	return New(provider, targets).Run(ctx)
}
