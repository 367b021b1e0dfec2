package hindsight

import (
	"time"

	"github.com/firedintern/meta-fgi/internal/core"
)

// ForwardReturns computes, for every merged record, the percentage price
// change to the record exactly horizonDays calendar days later. Records with
// no observation on that future date get a nil Return ("no data"), never
// zero or NaN, so aggregation can tell missing data apart from a flat price.
// For gap-free daily data this yields exactly len(records)-horizonDays
// present values.
func ForwardReturns(records []core.MergedRecord, horizonDays int) []core.ForwardReturn {
	byDate := make(map[string]int, len(records))
	for i, rec := range records {
		byDate[rec.Date] = i
	}

	returns := make([]core.ForwardReturn, len(records))
	for i, rec := range records {
		fr := core.ForwardReturn{
			Date:        rec.Date,
			HorizonDays: horizonDays,
			Score:       rec.Score,
			Label:       rec.Label,
			Price:       rec.Price,
		}

		if j, ok := byDate[addDays(rec.Date, horizonDays)]; ok {
			futurePrice := records[j].Price
			pct := (futurePrice - rec.Price) / rec.Price * 100
			fr.FuturePrice = futurePrice
			fr.Return = &pct
		}

		returns[i] = fr
	}

	return returns
}

func addDays(date string, days int) string {
	t, err := time.Parse(core.DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, days).Format(core.DateLayout)
}
