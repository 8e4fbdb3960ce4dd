package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FundCorr/internal/domain/models"
	"FundCorr/internal/services/analytics"
)

func newTestUseCase(source *stubSource) *CorrelationUseCase {
	return NewCorrelationUseCase(newTestCollector(source))
}

func TestRunProducesMatrix(t *testing.T) {
	source := &stubSource{records: map[string][]models.QuotaRecord{
		cnpjA: quotaHistory(100, 101, 102, 103),
		cnpjB: quotaHistory(50, 49, 51, 50),
	}}
	u := newTestUseCase(source)

	resp, err := u.Run(context.Background(), "", []string{cnpjA, cnpjB})
	require.NoError(t, err)
	require.NotNil(t, resp.Matrix)

	assert.Len(t, resp.Labels, 2)
	assert.Len(t, resp.Stats, 2)
	assert.Empty(t, resp.Errors)
	assert.NotEmpty(t, resp.RunID)

	require.Len(t, resp.Matrix.Rows, 2)
	assert.InDelta(t, 1.0, resp.Matrix.Rows[0][0], 1e-12)
	assert.Equal(t, resp.Matrix.Rows[0][1], resp.Matrix.Rows[1][0])
	assert.Equal(t, 3, resp.Matrix.JoinedDates)
}

func TestRunLabelsCarryPrettyCNPJ(t *testing.T) {
	source := &stubSource{records: map[string][]models.QuotaRecord{
		cnpjA: quotaHistory(100, 101, 102),
		cnpjB: quotaHistory(50, 49, 51),
	}}
	u := newTestUseCase(source)

	resp, err := u.Run(context.Background(), "", []string{cnpjA, cnpjB})
	require.NoError(t, err)

	byID := make(map[string]models.FundLabel, len(resp.Labels))
	for _, l := range resp.Labels {
		byID[l.Identifier] = l
	}
	assert.Equal(t, "13.823.084/0001-05", byID[cnpjA].CNPJ)
	assert.Equal(t, "09.636.393/0001-07", byID[cnpjB].CNPJ)
}

func TestRunInsufficientDataKeepsLedger(t *testing.T) {
	source := &stubSource{
		records: map[string][]models.QuotaRecord{
			cnpjA: quotaHistory(100, 101, 102),
		},
		errs: map[string]error{
			cnpjB: models.NewCollectError(models.ErrKindStatus, cnpjB, "unexpected status 404"),
		},
	}
	u := newTestUseCase(source)

	resp, err := u.Run(context.Background(), "", []string{cnpjA, cnpjB})
	require.ErrorIs(t, err, analytics.ErrInsufficientData)
	require.NotNil(t, resp)

	// one fund survived, one failed: the caller still gets both stories
	assert.Nil(t, resp.Matrix)
	assert.Len(t, resp.Stats, 1)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, models.ErrKindStatus, resp.Errors[0].Kind)
}

func TestRunPropagatesPreconditions(t *testing.T) {
	u := newTestUseCase(&stubSource{})

	_, err := u.Run(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrNoIdentifiers)
}

func TestFundReturns(t *testing.T) {
	source := &stubSource{records: map[string][]models.QuotaRecord{
		cnpjA: quotaHistory(100, 110, 99),
	}}
	u := newTestUseCase(source)

	resp, err := u.FundReturns(context.Background(), "13.823.084/0001-05")
	require.NoError(t, err)

	assert.Equal(t, cnpjA, resp.Identifier)
	assert.Equal(t, "13.823.084/0001-05", resp.CNPJ)
	require.Len(t, resp.Points, 2)
	assert.Equal(t, "2024-01-02", resp.Points[0].Date)
	assert.InDelta(t, 0.10, resp.Points[0].Value, 1e-9)
	assert.InDelta(t, -0.10, resp.Points[1].Value, 1e-9)
}

func TestFundReturnsInvalidIdentifier(t *testing.T) {
	u := newTestUseCase(&stubSource{})

	_, err := u.FundReturns(context.Background(), "not a cnpj")
	assert.Equal(t, models.ErrKindInvalidIdentifier, models.KindOf(err))
}
