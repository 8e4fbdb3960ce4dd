package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"FundCorr/internal/domain/models"
	"FundCorr/internal/domain/repository"
	"FundCorr/internal/services/features"
	"FundCorr/pkg/logger"
	"FundCorr/pkg/queue"
	"FundCorr/pkg/util"
)

// Run-level failures. Per-identifier failures never surface here; they go
// into the result's error ledger instead.
var (
	ErrNoIdentifiers      = errors.New("collector: no identifiers provided")
	ErrTooManyIdentifiers = errors.New("collector: too many identifiers")
)

const paceKey = "okanebox"

// FundCollector orchestrates one collection run: it normalizes the raw
// identifiers, resolves display names, fetches each fund's quota history
// under pacing, and builds the per-fund return series.
//
// Failures are isolated per identifier. Every input ends up either as a
// series keyed by its normalized identifier or as one ledger entry, so
// the sum of both always equals the input count.
type FundCollector struct {
	source   repository.QuotaSource
	names    repository.NameResolver
	pacer    repository.Pacer
	metrics  repository.Metrics
	progress repository.ProgressSink
	log      *logger.Logger
	maxFunds int
	pool     *queue.Pool
}

// CollectorOption configures a FundCollector.
type CollectorOption func(*FundCollector)

// WithMaxFunds caps the number of identifiers per run.
func WithMaxFunds(n int) CollectorOption {
	return func(c *FundCollector) {
		if n > 0 {
			c.maxFunds = n
		}
	}
}

// WithWorkers sets the number of concurrent fetch workers. One worker
// (the default) collects strictly in input order.
func WithWorkers(n int) CollectorOption {
	return func(c *FundCollector) {
		if n > 0 {
			c.pool = queue.NewPool(n)
		}
	}
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m repository.Metrics) CollectorOption {
	return func(c *FundCollector) { c.metrics = m }
}

// WithProgress attaches a progress sink for per-identifier stage events.
func WithProgress(p repository.ProgressSink) CollectorOption {
	return func(c *FundCollector) { c.progress = p }
}

// WithLogger attaches a structured logger.
func WithLogger(log *logger.Logger) CollectorOption {
	return func(c *FundCollector) { c.log = log }
}

// NewFundCollector wires a collector over its data sources.
func NewFundCollector(source repository.QuotaSource, names repository.NameResolver, pacer repository.Pacer, opts ...CollectorOption) *FundCollector {
	c := &FundCollector{
		source:   source,
		names:    names,
		pacer:    pacer,
		maxFunds: 10,
		pool:     queue.NewPool(1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect runs one collection over the given raw identifiers and returns
// the run's series plus its error ledger. Only run-level preconditions
// (empty input, too many identifiers) produce an error.
//
// runID names the run for progress subscribers; callers that want to
// observe the run live pick the id themselves and subscribe before
// calling. An empty runID gets a generated one.
func (c *FundCollector) Collect(ctx context.Context, runID string, raws []string) (*models.CollectionResult, error) {
	if len(raws) == 0 {
		return nil, ErrNoIdentifiers
	}
	if len(raws) > c.maxFunds {
		return nil, fmt.Errorf("%w: got %d, limit %d", ErrTooManyIdentifiers, len(raws), c.maxFunds)
	}
	if runID == "" {
		runID = uuid.NewString()
	}

	result := &models.CollectionResult{
		RunID:  runID,
		Series: make(map[string]*models.ReturnSeries, len(raws)),
	}

	var mu sync.Mutex
	fail := func(identifier string, kind models.ErrorKind, reason string) {
		mu.Lock()
		result.Errors = append(result.Errors, models.ErrorRecord{
			Identifier: identifier,
			Kind:       kind,
			Reason:     reason,
		})
		mu.Unlock()
		c.recordError(kind)
		c.publish(models.ProgressEvent{
			RunID:      result.RunID,
			Identifier: identifier,
			Stage:      models.StageFailed,
			Kind:       kind,
			Reason:     reason,
			Timestamp:  time.Now().UTC(),
		})
	}

	// Duplicates after normalization would silently collapse into one
	// series and break the one-outcome-per-input accounting, so the
	// second occurrence becomes a ledger entry instead.
	seen := make(map[string]struct{}, len(raws))
	tasks := make([]queue.Task, 0, len(raws))
	for _, raw := range raws {
		id := util.NormalizeCNPJ(raw)
		if id == "" {
			fail(raw, models.ErrKindInvalidIdentifier, "no digits in identifier")
			continue
		}
		if _, dup := seen[id]; dup {
			fail(raw, models.ErrKindInvalidIdentifier, fmt.Sprintf("duplicate of %s", id))
			continue
		}
		seen[id] = struct{}{}

		tasks = append(tasks, func(ctx context.Context) {
			series, err := c.collectOne(ctx, result.RunID, id)
			if err != nil {
				fail(id, models.KindOf(err), models.ReasonOf(err))
				return
			}
			mu.Lock()
			result.Series[id] = series
			mu.Unlock()
			c.publish(models.ProgressEvent{
				RunID:       result.RunID,
				Identifier:  id,
				DisplayName: series.DisplayName,
				Stage:       models.StageCollected,
				Timestamp:   time.Now().UTC(),
			})
		})
	}

	c.pool.Run(ctx, tasks)

	if c.log != nil {
		c.log.Info("collection run finished",
			logger.String("run_id", result.RunID),
			logger.Int("requested", len(raws)),
			logger.Int("collected", len(result.Series)),
			logger.Int("failed", len(result.Errors)))
	}
	return result, nil
}

// CollectOne fetches and builds the series of a single normalized
// identifier, outside of any run. Used by the single-fund endpoint.
// No progress events are emitted: there is no run id to subscribe to.
func (c *FundCollector) CollectOne(ctx context.Context, id string) (*models.ReturnSeries, error) {
	return c.collectOne(ctx, "", id)
}

func (c *FundCollector) collectOne(ctx context.Context, runID, id string) (*models.ReturnSeries, error) {
	start := time.Now()

	c.publish(models.ProgressEvent{
		RunID: runID, Identifier: id, Stage: models.StageResolving, Timestamp: time.Now().UTC(),
	})
	name := c.names.DisplayName(ctx, id)

	c.publish(models.ProgressEvent{
		RunID: runID, Identifier: id, DisplayName: name, Stage: models.StageFetching, Timestamp: time.Now().UTC(),
	})
	if err := c.pacer.Wait(ctx, paceKey); err != nil {
		c.recordFetch("canceled")
		return nil, models.WrapCollectError(models.ErrKindTransport, id, err, "pacing interrupted")
	}
	records, err := c.source.FetchHistory(ctx, id)
	if err != nil {
		c.recordFetch("error")
		return nil, err
	}
	c.recordFetch("success")

	c.publish(models.ProgressEvent{
		RunID: runID, Identifier: id, DisplayName: name, Stage: models.StageBuilding, Timestamp: time.Now().UTC(),
	})
	series, err := features.BuildReturnSeries(id, name, records)
	if err != nil {
		return nil, err
	}

	if c.metrics != nil {
		c.metrics.RecordSeriesPoints(id, series.Observations())
		c.metrics.RecordLatency("collect_one", time.Since(start).Seconds())
	}
	if c.log != nil {
		c.log.Debug("fund collected",
			logger.String("identifier", id),
			logger.String("display_name", name),
			logger.Int("observations", series.Observations()),
			logger.Duration("elapsed", time.Since(start)))
	}
	return series, nil
}

func (c *FundCollector) publish(ev models.ProgressEvent) {
	// runless collections would otherwise fan out under the "" key
	if c.progress != nil && ev.RunID != "" {
		c.progress.Publish(ev)
	}
}

func (c *FundCollector) recordFetch(outcome string) {
	if c.metrics != nil {
		c.metrics.RecordFetch(outcome)
	}
}

func (c *FundCollector) recordError(kind models.ErrorKind) {
	if c.metrics != nil {
		c.metrics.RecordError(string(kind))
	}
}
