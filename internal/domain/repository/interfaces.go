package repository

import (
	"context"

	"FundCorr/internal/domain/models"
)

// QuotaSource retrieves the raw quota history for one normalized
// identifier. Implementations classify failures with models.CollectError.
type QuotaSource interface {
	FetchHistory(ctx context.Context, cnpj string) ([]models.QuotaRecord, error)
}

// NameResolver maps an identifier to a display name. Best effort: it
// never fails, falling back to a generated label.
type NameResolver interface {
	DisplayName(ctx context.Context, cnpj string) string
}

// Pacer gates outbound requests to respect the remote service's informal
// rate limits. Wait blocks until the next request may proceed or the
// context is done.
type Pacer interface {
	Wait(ctx context.Context, key string) error
}

// ProgressSink receives per-identifier progress events during a run.
type ProgressSink interface {
	Publish(ev models.ProgressEvent)
}

type Metrics interface {
	RecordFetch(outcome string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordSeriesPoints(identifier string, n int)
}
