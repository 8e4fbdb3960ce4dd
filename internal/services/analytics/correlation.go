package analytics

import (
	"errors"
	"math"
	"sort"
	"time"

	"FundCorr/internal/domain/models"
)

// ErrInsufficientData signals that fewer than 2 alignable series exist at
// correlation time. It is a precondition failure, distinct from an empty
// result: callers surface it to the user instead of rendering a
// degenerate matrix.
var ErrInsufficientData = errors.New("analytics: insufficient data to correlate")

// AlignSeries inner-joins the given return series on date. It returns the
// series identifiers in deterministic column order (display name
// ascending, identifier breaking ties), the ascending dates shared by
// every series, and one return column per identifier over those dates.
func AlignSeries(series map[string]*models.ReturnSeries) (ids []string, dates []time.Time, columns [][]float64) {
	ids = make([]string, 0, len(series))
	for id := range series {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := series[ids[i]], series[ids[j]]
		if a.DisplayName != b.DisplayName {
			return a.DisplayName < b.DisplayName
		}
		return a.Identifier < b.Identifier
	})
	if len(ids) == 0 {
		return ids, nil, nil
	}

	first := series[ids[0]]
	dates = make([]time.Time, 0, first.Observations())
	for _, d := range first.Dates {
		shared := true
		for _, id := range ids[1:] {
			if _, ok := series[id].ReturnOn(d); !ok {
				shared = false
				break
			}
		}
		if shared {
			dates = append(dates, d)
		}
	}

	columns = make([][]float64, len(ids))
	for i, id := range ids {
		s := series[id]
		col := make([]float64, len(dates))
		for j, d := range dates {
			v, _ := s.ReturnOn(d)
			col[j] = v
		}
		columns[i] = col
	}
	return ids, dates, columns
}

// Correlate aligns the provided return series and computes the pairwise
// Pearson correlation matrix over the joined columns. The matrix is
// symmetric with unit diagonal by construction.
func Correlate(series map[string]*models.ReturnSeries) (*models.CorrelationMatrix, error) {
	if len(series) < 2 {
		return nil, ErrInsufficientData
	}

	ids, dates, columns := AlignSeries(series)
	// a correlation over fewer than 2 shared dates is undefined
	if len(dates) < 2 {
		return nil, ErrInsufficientData
	}

	n := len(ids)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
		values[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c := pearson(columns[i], columns[j])
			values[i][j] = c
			values[j][i] = c
		}
	}

	labels := make([]string, n)
	for i, id := range ids {
		labels[i] = series[id].DisplayName
	}

	return &models.CorrelationMatrix{
		Identifiers: ids,
		Labels:      labels,
		Values:      values,
		JoinedDates: len(dates),
	}, nil
}

// pearson computes the Pearson correlation coefficient of two columns of
// equal length. A zero-variance column yields 0 rather than NaN so the
// matrix stays JSON-encodable.
func pearson(x, y []float64) float64 {
	n := float64(len(x))
	if n == 0 {
		return 0
	}

	var sumX, sumY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var cov, varX, varY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	denom := math.Sqrt(varX * varY)
	if denom == 0 {
		return 0
	}
	return cov / denom
}
