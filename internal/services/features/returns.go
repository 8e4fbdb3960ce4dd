package features

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"FundCorr/internal/domain/models"
	"FundCorr/pkg/util"
)

// TradingDaysPerYear is the conventional annualization factor for daily
// return series.
const TradingDaysPerYear = 252

// BuildReturnSeries converts a raw quota payload into a chronologically
// ordered series of simple day-over-day returns.
//
// Every record must carry both the date and the quota value; dates are
// deduplicated keeping the last observation in payload order. Returns are
// computed against the immediately preceding row, so gaps in trading days
// are tolerated without forward filling. The first observation has no
// prior row and is dropped.
func BuildReturnSeries(identifier, displayName string, records []models.QuotaRecord) (*models.ReturnSeries, error) {
	byDay := make(map[time.Time]decimal.Decimal, len(records))
	for _, rec := range records {
		if rec.Date == nil || rec.Quota == nil {
			return nil, models.NewCollectError(models.ErrKindStructure, identifier,
				"record missing DT_COMPTC or VL_QUOTA")
		}
		day, ok := util.ParseQuotaDate(*rec.Date)
		if !ok {
			return nil, models.NewCollectError(models.ErrKindStructure, identifier,
				"unparseable date %q", *rec.Date)
		}
		// later payload entries win on duplicate dates
		byDay[day] = *rec.Quota
	}

	if len(byDay) < 2 {
		return nil, models.NewCollectError(models.ErrKindEmptySeries, identifier,
			"%d usable observations, need at least 2", len(byDay))
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	one := decimal.NewFromInt(1)
	dates := make([]time.Time, 0, len(days)-1)
	returns := make([]float64, 0, len(days)-1)
	for i := 1; i < len(days); i++ {
		prev := byDay[days[i-1]]
		cur := byDay[days[i]]
		if prev.IsZero() {
			returns = append(returns, 0)
			dates = append(dates, days[i])
			continue
		}
		r := cur.Div(prev).Sub(one)
		dates = append(dates, days[i])
		returns = append(returns, r.InexactFloat64())
	}

	return models.NewReturnSeries(identifier, displayName, dates, returns), nil
}

// AnnualizedVolatility computes the annualized sample standard deviation
// of a return series. Returns 0 for fewer than 2 observations.
func AnnualizedVolatility(returns []float64, periodsPerYear float64) float64 {
	n := len(returns)
	if n < 2 {
		return 0
	}
	sum := 0.0
	sum2 := 0.0
	for _, r := range returns {
		sum += r
		sum2 += r * r
	}
	mean := sum / float64(n)
	variance := (sum2 - float64(n)*mean*mean) / float64(n-1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance * periodsPerYear)
}
