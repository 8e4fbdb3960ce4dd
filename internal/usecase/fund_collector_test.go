package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FundCorr/internal/domain/models"
)

type stubSource struct {
	mu      sync.Mutex
	calls   []string
	records map[string][]models.QuotaRecord
	errs    map[string]error
}

func (s *stubSource) FetchHistory(ctx context.Context, cnpj string) ([]models.QuotaRecord, error) {
	s.mu.Lock()
	s.calls = append(s.calls, cnpj)
	s.mu.Unlock()
	if err, ok := s.errs[cnpj]; ok {
		return nil, err
	}
	return s.records[cnpj], nil
}

type stubNames struct{}

func (stubNames) DisplayName(ctx context.Context, cnpj string) string {
	return "Fundo_" + cnpj[len(cnpj)-6:]
}

type noPace struct{}

func (noPace) Wait(ctx context.Context, key string) error { return nil }

type eventRecorder struct {
	mu     sync.Mutex
	events []models.ProgressEvent
}

func (r *eventRecorder) Publish(ev models.ProgressEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func quotaHistory(quotas ...float64) []models.QuotaRecord {
	records := make([]models.QuotaRecord, len(quotas))
	for i, q := range quotas {
		date := quotaDay(i + 1)
		value := decimal.NewFromFloat(q)
		records[i] = models.QuotaRecord{Date: &date, Quota: &value}
	}
	return records
}

func quotaDay(n int) string {
	return "2024-01-" + string(rune('0'+n/10)) + string(rune('0'+n%10))
}

const (
	cnpjA = "13823084000105"
	cnpjB = "09636393000107"
)

func newTestCollector(source *stubSource, opts ...CollectorOption) *FundCollector {
	return NewFundCollector(source, stubNames{}, noPace{}, opts...)
}

func TestCollectHappyPath(t *testing.T) {
	source := &stubSource{records: map[string][]models.QuotaRecord{
		cnpjA: quotaHistory(100, 101, 102),
		cnpjB: quotaHistory(50, 49, 51),
	}}
	c := newTestCollector(source)

	result, err := c.Collect(context.Background(), "", []string{"13.823.084/0001-05", cnpjB})
	require.NoError(t, err)
	require.NotEmpty(t, result.RunID)

	assert.Len(t, result.Series, 2)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, result.Outcomes())

	a := result.Series[cnpjA]
	require.NotNil(t, a)
	assert.Equal(t, "Fundo_000105", a.DisplayName)
	assert.Equal(t, 2, a.Observations())
}

func TestCollectIsolatesFailures(t *testing.T) {
	source := &stubSource{
		records: map[string][]models.QuotaRecord{
			cnpjA: quotaHistory(100, 101, 102),
		},
		errs: map[string]error{
			cnpjB: models.NewCollectError(models.ErrKindStatus, cnpjB, "unexpected status 503"),
		},
	}
	c := newTestCollector(source)

	result, err := c.Collect(context.Background(), "", []string{cnpjA, cnpjB})
	require.NoError(t, err)

	assert.Len(t, result.Series, 1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, cnpjB, result.Errors[0].Identifier)
	assert.Equal(t, models.ErrKindStatus, result.Errors[0].Kind)
	assert.Equal(t, 2, result.Outcomes())
}

func TestCollectInvalidIdentifier(t *testing.T) {
	source := &stubSource{records: map[string][]models.QuotaRecord{
		cnpjA: quotaHistory(100, 101),
		cnpjB: quotaHistory(50, 51),
	}}
	c := newTestCollector(source)

	result, err := c.Collect(context.Background(), "", []string{cnpjA, "no-digits-here", cnpjB})
	require.NoError(t, err)

	assert.Len(t, result.Series, 2)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "no-digits-here", result.Errors[0].Identifier)
	assert.Equal(t, models.ErrKindInvalidIdentifier, result.Errors[0].Kind)
	assert.Equal(t, 3, result.Outcomes())
	// the invalid entry never reaches the remote source
	assert.Len(t, source.calls, 2)
}

func TestCollectDuplicateIdentifier(t *testing.T) {
	source := &stubSource{records: map[string][]models.QuotaRecord{
		cnpjA: quotaHistory(100, 101, 102),
	}}
	c := newTestCollector(source)

	// same fund written two different ways
	result, err := c.Collect(context.Background(), "", []string{cnpjA, "13.823.084/0001-05"})
	require.NoError(t, err)

	assert.Len(t, result.Series, 1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.ErrKindInvalidIdentifier, result.Errors[0].Kind)
	assert.Equal(t, 2, result.Outcomes())
	assert.Len(t, source.calls, 1)
}

func TestCollectEmptySeriesGoesToLedger(t *testing.T) {
	source := &stubSource{records: map[string][]models.QuotaRecord{
		cnpjA: quotaHistory(100), // one observation, no return computable
		cnpjB: quotaHistory(50, 51),
	}}
	c := newTestCollector(source)

	result, err := c.Collect(context.Background(), "", []string{cnpjA, cnpjB})
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.ErrKindEmptySeries, result.Errors[0].Kind)
	assert.Len(t, result.Series, 1)
}

func TestCollectRunPreconditions(t *testing.T) {
	c := newTestCollector(&stubSource{}, WithMaxFunds(3))

	_, err := c.Collect(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrNoIdentifiers)

	_, err = c.Collect(context.Background(), "", []string{"1", "2", "3", "4"})
	assert.ErrorIs(t, err, ErrTooManyIdentifiers)
}

func TestCollectPublishesProgress(t *testing.T) {
	source := &stubSource{records: map[string][]models.QuotaRecord{
		cnpjA: quotaHistory(100, 101),
	}}
	rec := &eventRecorder{}
	c := newTestCollector(source, WithProgress(rec))

	result, err := c.Collect(context.Background(), "", []string{cnpjA})
	require.NoError(t, err)

	stages := make([]string, len(rec.events))
	for i, ev := range rec.events {
		assert.Equal(t, result.RunID, ev.RunID)
		stages[i] = ev.Stage
	}
	assert.Equal(t, []string{
		models.StageResolving,
		models.StageFetching,
		models.StageBuilding,
		models.StageCollected,
	}, stages)
}

func TestCollectUsesProvidedRunID(t *testing.T) {
	source := &stubSource{records: map[string][]models.QuotaRecord{
		cnpjA: quotaHistory(100, 101),
	}}
	rec := &eventRecorder{}
	c := newTestCollector(source, WithProgress(rec))

	// the caller picks the id up front so it can subscribe to progress
	// before the run starts
	result, err := c.Collect(context.Background(), "4f9c5ab2-0c4f-4e8a-9a56-1f2d3c4b5a69", []string{cnpjA})
	require.NoError(t, err)
	assert.Equal(t, "4f9c5ab2-0c4f-4e8a-9a56-1f2d3c4b5a69", result.RunID)

	require.NotEmpty(t, rec.events)
	for _, ev := range rec.events {
		assert.Equal(t, result.RunID, ev.RunID)
	}
}

func TestCollectOneEmitsNoProgress(t *testing.T) {
	source := &stubSource{records: map[string][]models.QuotaRecord{
		cnpjA: quotaHistory(100, 101),
	}}
	rec := &eventRecorder{}
	c := newTestCollector(source, WithProgress(rec))

	series, err := c.CollectOne(context.Background(), cnpjA)
	require.NoError(t, err)
	require.NotNil(t, series)

	// no run id means no stream to feed; nothing may leak under ""
	assert.Empty(t, rec.events)
}

func TestCollectParallelWorkers(t *testing.T) {
	source := &stubSource{records: map[string][]models.QuotaRecord{
		cnpjA: quotaHistory(100, 101, 102),
		cnpjB: quotaHistory(50, 49, 51),
		"11111111000111": quotaHistory(10, 11, 12),
	}}
	c := newTestCollector(source, WithWorkers(3))

	result, err := c.Collect(context.Background(), "", []string{cnpjA, cnpjB, "11111111000111"})
	require.NoError(t, err)
	assert.Len(t, result.Series, 3)
	assert.Empty(t, result.Errors)
}
