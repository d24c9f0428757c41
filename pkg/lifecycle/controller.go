// Package lifecycle raises tickets for failing tests and resolves them once the tests pass again.
package lifecycle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/LambdaTest/jira-reporter/pkg/constants"
	"github.com/LambdaTest/jira-reporter/pkg/core"
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	"github.com/LambdaTest/jira-reporter/pkg/issuebuilder"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/LambdaTest/jira-reporter/pkg/metrics"
	"github.com/LambdaTest/jira-reporter/pkg/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/LambdaTest/jira-reporter/pkg/lifecycle")

// Controller applies the raise and resolve algorithms to build results.
// It spawns no goroutines; concurrent callers are serialized per (job, test).
type Controller struct {
	configStore core.JobConfigStore
	issueStore  core.TestIssueStore
	metadata    core.MetadataLoader
	tracker     core.IssueTracker
	locker      core.KeyedLocker
	builder     *issuebuilder.Builder
	logger      lumber.Logger
	now         func() time.Time

	// RemoteTimeout bounds every tracker call.
	RemoteTimeout time.Duration
}

// New returns a lifecycle controller.
func New(
	configStore core.JobConfigStore,
	issueStore core.TestIssueStore,
	metadata core.MetadataLoader,
	tracker core.IssueTracker,
	locker core.KeyedLocker,
	builder *issuebuilder.Builder,
	logger lumber.Logger,
) *Controller {
	return &Controller{
		configStore:   configStore,
		issueStore:    issueStore,
		metadata:      metadata,
		tracker:       tracker,
		locker:        locker,
		builder:       builder,
		logger:        logger,
		now:           time.Now,
		RemoteTimeout: constants.DefaultRemoteTimeout,
	}
}

// Process raises and resolves tickets for the tests of one build. Per-test failures
// are reported in the returned report and never abort the batch.
func (c *Controller) Process(ctx context.Context, build *core.BuildResults) *core.Report {
	job := build.ConfigJob()
	ctx, span := tracer.Start(ctx, "lifecycle.Process", trace.WithAttributes(
		attribute.String("job", build.Job),
		attribute.String("config_job", job),
		attribute.Int64("build_number", build.BuildNumber),
	))
	defer span.End()

	report := &core.Report{
		ID:          utils.GenerateUUID(),
		Job:         build.Job,
		ConfigJob:   job,
		BuildNumber: build.BuildNumber,
		StartedAt:   c.now(),
	}
	defer func() {
		report.FinishedAt = c.now()
		metrics.ObserveReport(report)
	}()

	cfg, err := c.configStore.GetConfig(ctx, job)
	if err != nil {
		c.logger.Errorf("failed to read tracker configuration of job %s: %v", job, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "config read failed")
		return report
	}
	if cfg == nil || (!cfg.AutoRaiseIssue && !cfg.AutoResolveIssue) {
		c.logger.Debugf("ticket automation disabled for job %s", job)
		return report
	}

	results := build.Flatten()
	p := &pass{build: build, cfg: cfg, job: job, logger: c.logger.WithFields(lumber.Fields{
		"job":         job,
		"buildNumber": build.BuildNumber,
		"reportID":    report.ID,
	})}
	p.known, p.prefiltered = c.prefilter(ctx, job, cfg, results)

	if cfg.AutoRaiseIssue {
		for _, test := range results {
			if !test.IsFailed() {
				continue
			}
			report.Outcomes = append(report.Outcomes, p.log(c.raise(ctx, p, test)))
		}
	}
	if cfg.AutoResolveIssue {
		for _, test := range results {
			if !test.IsFixed() {
				continue
			}
			if out := c.resolve(ctx, p, test); out != nil {
				report.Outcomes = append(report.Outcomes, p.log(out))
			}
		}
	}
	span.SetAttributes(attribute.Int("outcomes", len(report.Outcomes)))
	return report
}

// pass is the state shared by the actions of one Process call.
type pass struct {
	build       *core.BuildResults
	cfg         *core.JobConfig
	job         string
	known       map[core.TestIdentity]string
	prefiltered bool
	logger      lumber.Logger
}

func (p *pass) log(out *core.Outcome) *core.Outcome {
	switch out.Status {
	case core.OutcomeFailed:
		p.logger.Errorf("%s", out)
	case core.OutcomeCancelled, core.OutcomeDailyCapReached, core.OutcomeNoTransitionFound:
		p.logger.Warnf("%s", out)
	default:
		p.logger.Infof("%s", out)
	}
	return out
}

// mapped returns the key found by the prefilter. ok is false when the prefilter
// failed and the store has to be consulted.
func (p *pass) mapped(id core.TestIdentity) (key string, ok bool) {
	if !p.prefiltered {
		return core.NoIssue, false
	}
	return p.known[id], true
}

// prefilter looks up the mappings of every candidate test in one query.
func (c *Controller) prefilter(ctx context.Context, job string, cfg *core.JobConfig,
	results []*core.TestCaseResult) (map[core.TestIdentity]string, bool) {
	ids := make([]core.TestIdentity, 0, len(results))
	for _, test := range results {
		if (cfg.AutoRaiseIssue && test.IsFailed()) || (cfg.AutoResolveIssue && test.IsFixed()) {
			ids = append(ids, test.Identity())
		}
	}
	if len(ids) == 0 {
		return nil, true
	}
	known, err := c.issueStore.FindIssueKeys(ctx, job, ids)
	if err != nil {
		c.logger.Warnf("bulk mapping lookup failed for job %s, checking tests one by one: %v", job, err)
		return nil, false
	}
	return known, true
}

func (c *Controller) raise(ctx context.Context, p *pass, test *core.TestCaseResult) *core.Outcome {
	id := test.Identity()
	out := &core.Outcome{Action: core.ActionRaise, TestID: id, DisplayName: test.Title()}
	ctx, span := tracer.Start(ctx, "lifecycle.raise", trace.WithAttributes(attribute.String("test", string(id))))
	defer span.End()
	defer record(span, out)

	if ctx.Err() != nil {
		return cancelled(out, ctx.Err())
	}
	if key, ok := p.mapped(id); ok && key != core.NoIssue {
		out.Status, out.IssueKey = core.OutcomeAlreadyTracked, key
		return out
	}

	unlock, err := c.locker.Lock(ctx, core.LockKey{Job: p.job, Test: id})
	if err != nil {
		return cancelled(out, err)
	}
	defer unlock()

	// another build may have raised it while we waited
	key, err := c.issueStore.GetTestIssueKey(ctx, p.job, id)
	if err != nil {
		return failed(ctx, out, err)
	}
	if key != core.NoIssue {
		out.Status, out.IssueKey = core.OutcomeAlreadyTracked, key
		return out
	}

	cfg := p.cfg
	if cfg.MaxBugsPerDay.Valid {
		var count int
		err := c.remote(ctx, func(ctx context.Context) (err error) {
			count, err = c.tracker.CountIssuesCreatedToday(ctx, c.tracker.Username(), cfg.ProjectKey)
			return err
		})
		if err != nil {
			return failed(ctx, out, err)
		}
		if int64(count) >= cfg.MaxBugsPerDay.Int64 {
			out.Status, out.Error = core.OutcomeDailyCapReached, errs.ErrDailyCapReached.Error()
			return out
		}
	}

	req := c.builder.Build(cfg, c.schema(ctx, p), issuebuilder.NewVars(p.build, test))

	if cfg.PreventDuplicateIssue {
		var matches []*core.Issue
		err := c.remote(ctx, func(ctx context.Context) (err error) {
			matches, err = c.tracker.SearchIssues(ctx,
				issuebuilder.DuplicateJQL(cfg.ProjectKey, cfg.IssueType, req.Summary), constants.MaxJQLResults)
			return err
		})
		if err != nil {
			return failed(ctx, out, err)
		}
		if len(matches) > 0 {
			out.Status, out.IssueKey = core.OutcomeDuplicateFound, matches[0].Key
			return out
		}
	}

	var issue *core.Issue
	err = c.remote(ctx, func(ctx context.Context) (err error) {
		issue, err = c.tracker.CreateIssue(ctx, req)
		return err
	})
	if err != nil {
		return failed(ctx, out, err)
	}
	out.Status, out.IssueKey = core.OutcomeCreated, issue.Key

	// duplicate prevention relies on the tracker search instead of the local mapping
	if !cfg.PreventDuplicateIssue {
		if err := c.addMapping(context.WithoutCancel(ctx), p.job, id, issue.Key); err != nil {
			p.logger.Errorf("created issue %s but failed to map test %s: %v", issue.Key, id, err)
			out.Error = err.Error()
		}
	}
	return out
}

func (c *Controller) resolve(ctx context.Context, p *pass, test *core.TestCaseResult) *core.Outcome {
	id := test.Identity()
	if key, ok := p.mapped(id); ok && key == core.NoIssue {
		return nil
	}
	out := &core.Outcome{Action: core.ActionResolve, TestID: id, DisplayName: test.Title()}
	ctx, span := tracer.Start(ctx, "lifecycle.resolve", trace.WithAttributes(attribute.String("test", string(id))))
	defer span.End()
	defer record(span, out)

	if ctx.Err() != nil {
		return cancelled(out, ctx.Err())
	}
	unlock, err := c.locker.Lock(ctx, core.LockKey{Job: p.job, Test: id})
	if err != nil {
		return cancelled(out, err)
	}
	defer unlock()

	key, err := c.issueStore.GetTestIssueKey(ctx, p.job, id)
	if err != nil {
		return failed(ctx, out, err)
	}
	if key == core.NoIssue {
		return nil
	}
	out.IssueKey = key

	var issue *core.Issue
	if err := c.remote(ctx, func(ctx context.Context) (err error) {
		issue, err = c.tracker.GetIssue(ctx, key)
		return err
	}); err != nil {
		return failed(ctx, out, err)
	}
	if strings.EqualFold(issue.StatusCategory, constants.DoneStatusCategory) {
		out.Status = core.OutcomeAlreadyResolved
		return out
	}

	var transitions []*core.Transition
	if err := c.remote(ctx, func(ctx context.Context) (err error) {
		transitions, err = c.tracker.GetTransitions(ctx, key)
		return err
	}); err != nil {
		return failed(ctx, out, err)
	}
	transition := resolveTransition(transitions)
	if transition == nil {
		out.Status, out.Error = core.OutcomeNoTransitionFound, errs.ErrNoTransitionFound.Error()
		return out
	}
	if err := c.remote(ctx, func(ctx context.Context) error {
		return c.tracker.ExecuteTransition(ctx, key, transition.ID)
	}); err != nil {
		return failed(ctx, out, err)
	}
	out.Status = core.OutcomeResolved
	return out
}

// resolveTransition picks the first transition whose name contains the resolve keyword.
func resolveTransition(transitions []*core.Transition) *core.Transition {
	for _, t := range transitions {
		if strings.Contains(strings.ToLower(t.Name), constants.ResolveTransitionKeyword) {
			return t
		}
	}
	return nil
}

// schema loads the create screen of the configured issue type. Without it the request
// is built from the declared field kinds.
func (c *Controller) schema(ctx context.Context, p *pass) *core.CacheEntry {
	var entry *core.CacheEntry
	err := c.remote(ctx, func(ctx context.Context) (err error) {
		entry, err = c.metadata.Load(ctx, p.cfg.ProjectKey, p.cfg.IssueType)
		return err
	})
	if err != nil {
		p.logger.Warnf("could not load create metadata of %s/%d, sending fields as configured: %v",
			p.cfg.ProjectKey, p.cfg.IssueType, err)
		return nil
	}
	return entry
}

func (c *Controller) addMapping(ctx context.Context, job string, id core.TestIdentity, key string) error {
	err := c.issueStore.AddTestToIssueMapping(ctx, job, id, key)
	if !errors.Is(err, errs.ErrJobNotRegistered) {
		return err
	}
	if err := c.issueStore.Register(ctx, job); err != nil {
		return err
	}
	return c.issueStore.AddTestToIssueMapping(ctx, job, id, key)
}

// remote runs fn bounded by RemoteTimeout.
func (c *Controller) remote(ctx context.Context, fn func(ctx context.Context) error) error {
	if c.RemoteTimeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, c.RemoteTimeout)
	defer cancel()
	return fn(ctx)
}

func failed(ctx context.Context, out *core.Outcome, err error) *core.Outcome {
	if ctx.Err() != nil {
		return cancelled(out, err)
	}
	out.Status, out.Error = core.OutcomeFailed, err.Error()
	return out
}

func cancelled(out *core.Outcome, err error) *core.Outcome {
	out.Status, out.Error = core.OutcomeCancelled, err.Error()
	return out
}

func record(span trace.Span, out *core.Outcome) {
	span.SetAttributes(attribute.String("status", string(out.Status)))
	if out.IssueKey != "" {
		span.SetAttributes(attribute.String("issue_key", out.IssueKey))
	}
	if out.Status == core.OutcomeFailed {
		span.SetStatus(codes.Error, out.Error)
	}
}
