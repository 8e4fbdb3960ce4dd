package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuotaRecord is one observation of the raw history payload.
// Fields are pointers so the decoder can tell an absent field from a zero
// value; a nil field anywhere in the payload is a structural mismatch.
type QuotaRecord struct {
	Date  *string          `json:"DT_COMPTC"`
	Quota *decimal.Decimal `json:"VL_QUOTA"`
}

// ReturnSeries holds the day-over-day returns of one fund, ascending by
// date with unique dates. Immutable once built.
type ReturnSeries struct {
	Identifier  string      // normalized 14-digit CNPJ
	DisplayName string      // presentation label, may collide across funds
	Dates       []time.Time
	Returns     []float64   // Returns[i] belongs to Dates[i]

	byDate map[time.Time]float64
}

// NewReturnSeries builds a series from parallel date/return slices.
// Dates must already be ascending and unique.
func NewReturnSeries(identifier, displayName string, dates []time.Time, returns []float64) *ReturnSeries {
	byDate := make(map[time.Time]float64, len(dates))
	for i, d := range dates {
		byDate[d] = returns[i]
	}
	return &ReturnSeries{
		Identifier:  identifier,
		DisplayName: displayName,
		Dates:       dates,
		Returns:     returns,
		byDate:      byDate,
	}
}

// Observations returns the number of return observations.
func (s *ReturnSeries) Observations() int { return len(s.Dates) }

// ReturnOn looks up the return observed on a given day.
func (s *ReturnSeries) ReturnOn(day time.Time) (float64, bool) {
	v, ok := s.byDate[day]
	return v, ok
}

// FundStats summarizes one collected series for presentation.
type FundStats struct {
	Identifier    string    `json:"identifier"`
	DisplayName   string    `json:"display_name"`
	Observations  int       `json:"observations"`
	FirstDate     time.Time `json:"first_date"`
	LastDate      time.Time `json:"last_date"`
	AnnualizedVol float64   `json:"annualized_vol"`
}

// ErrorRecord is one entry of the collection error ledger.
type ErrorRecord struct {
	Identifier string    `json:"identifier"`
	Kind       ErrorKind `json:"kind"`
	Reason     string    `json:"reason"`
}

// CollectionResult is the outcome of one collection run. Series are keyed
// by normalized identifier so that display-name collisions cannot drop
// data; display names are labels only.
type CollectionResult struct {
	RunID  string
	Series map[string]*ReturnSeries
	Errors []ErrorRecord
}

// Outcomes reports how many identifiers were accounted for, one way or
// the other. For a run over N identifiers this always equals N.
func (r *CollectionResult) Outcomes() int {
	return len(r.Series) + len(r.Errors)
}

// CorrelationMatrix is the pairwise Pearson correlation over the inner
// join of all collected return series. Symmetric with unit diagonal.
type CorrelationMatrix struct {
	Identifiers []string    // column order, normalized CNPJs
	Labels      []string    // display names in column order
	Values      [][]float64 // Values[i][j] == Values[j][i], Values[i][i] == 1
	JoinedDates int         // dates shared by every series
}
