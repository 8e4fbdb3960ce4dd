package usecase

import (
	"context"
	"sort"

	"FundCorr/internal/domain/models"
	"FundCorr/internal/services/analytics"
	"FundCorr/internal/services/features"
	"FundCorr/pkg/util"
)

// CorrelationUseCase runs a full collection and turns the surviving series
// into a correlation matrix with presentation metadata.
type CorrelationUseCase struct {
	collector *FundCollector
}

// NewCorrelationUseCase wires the use case over a collector.
func NewCorrelationUseCase(collector *FundCollector) *CorrelationUseCase {
	return &CorrelationUseCase{collector: collector}
}

// Run collects the given identifiers and correlates their return series.
// runID may be empty; a client that wants live progress supplies its own
// and subscribes before calling.
//
// When fewer than 2 series survive collection, or the surviving series
// share fewer than 2 dates, the returned error wraps
// analytics.ErrInsufficientData and the response still carries the run's
// labels, stats and error ledger so callers can explain the failure.
func (u *CorrelationUseCase) Run(ctx context.Context, runID string, raws []string) (*models.CorrelationResponse, error) {
	result, err := u.collector.Collect(ctx, runID, raws)
	if err != nil {
		return nil, err
	}

	resp := &models.CorrelationResponse{
		RunID:  result.RunID,
		Labels: make([]models.FundLabel, 0, len(result.Series)),
		Stats:  make([]models.FundStats, 0, len(result.Series)),
		Errors: result.Errors,
	}
	if resp.Errors == nil {
		resp.Errors = []models.ErrorRecord{}
	}

	ids := make([]string, 0, len(result.Series))
	for id := range result.Series {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := result.Series[ids[i]], result.Series[ids[j]]
		if a.DisplayName != b.DisplayName {
			return a.DisplayName < b.DisplayName
		}
		return a.Identifier < b.Identifier
	})
	for _, id := range ids {
		s := result.Series[id]
		resp.Labels = append(resp.Labels, models.FundLabel{
			Identifier:  s.Identifier,
			CNPJ:        util.FormatCNPJ(s.Identifier),
			DisplayName: s.DisplayName,
		})
		resp.Stats = append(resp.Stats, models.FundStats{
			Identifier:    s.Identifier,
			DisplayName:   s.DisplayName,
			Observations:  s.Observations(),
			FirstDate:     s.Dates[0],
			LastDate:      s.Dates[len(s.Dates)-1],
			AnnualizedVol: features.AnnualizedVolatility(s.Returns, features.TradingDaysPerYear),
		})
	}

	matrix, err := analytics.Correlate(result.Series)
	if err != nil {
		return resp, err
	}
	resp.Matrix = &models.MatrixPayload{
		Identifiers: matrix.Identifiers,
		Labels:      matrix.Labels,
		Rows:        matrix.Values,
		JoinedDates: matrix.JoinedDates,
	}
	return resp, nil
}

// FundReturns collects a single fund and returns its dated return series.
func (u *CorrelationUseCase) FundReturns(ctx context.Context, raw string) (*models.FundReturnsResponse, error) {
	id := util.NormalizeCNPJ(raw)
	if id == "" {
		return nil, models.NewCollectError(models.ErrKindInvalidIdentifier, raw, "no digits in identifier")
	}

	series, err := u.collector.CollectOne(ctx, id)
	if err != nil {
		return nil, err
	}

	points := make([]models.ReturnPoint, series.Observations())
	for i, d := range series.Dates {
		points[i] = models.ReturnPoint{
			Date:  util.FormatQuotaDate(d),
			Value: series.Returns[i],
		}
	}
	return &models.FundReturnsResponse{
		Identifier:  series.Identifier,
		CNPJ:        util.FormatCNPJ(series.Identifier),
		DisplayName: series.DisplayName,
		Points:      points,
	}, nil
}
