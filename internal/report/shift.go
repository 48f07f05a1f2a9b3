package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"txreport/internal/domain"
	"txreport/pkg/validator"
)

var hundred = decimal.NewFromInt(100)

type dayBucket struct {
	date  string
	count int
	total decimal.Decimal
}

// shiftState carries the previous day's total through the fold.
type shiftState struct {
	prev   *decimal.Decimal
	series []domain.DailyShift
}

// DailyShifts buckets successful transactions by calendar day in loc and
// reports each day's change against the previous day present in the series.
// Days without transactions are not emitted and are not treated as zero.
func DailyShifts(txs []*domain.Transaction, loc *time.Location) []domain.DailyShift {
	if loc == nil {
		loc = time.UTC
	}
	buckets := bucketByDay(txs, loc)

	final := fold(buckets, shiftState{series: make([]domain.DailyShift, 0, len(buckets))},
		func(s shiftState, b dayBucket) shiftState {
			day := domain.DailyShift{
				Date:             b.date,
				TransactionCount: b.count,
				TotalAmount:      domain.Round2(b.total),
			}
			if s.prev != nil {
				diff := b.total.Sub(*s.prev)
				day.ChangeAmount = domain.RoundedPtr(diff)
				if !s.prev.IsZero() {
					day.ChangePercent = domain.RoundedPtr(diff.Div(*s.prev).Mul(hundred))
				}
			}
			total := b.total
			return shiftState{prev: &total, series: append(s.series, day)}
		})
	return final.series
}

func bucketByDay(txs []*domain.Transaction, loc *time.Location) []dayBucket {
	index := make(map[string]int)
	var buckets []dayBucket
	for _, tx := range txs {
		if !tx.IsSuccessful() {
			continue
		}
		key := tx.PaymentDate.In(loc).Format(validator.DateLayout)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, dayBucket{date: key, total: decimal.Zero})
		}
		buckets[i].count++
		buckets[i].total = buckets[i].total.Add(tx.Amount)
	}
	// ISO dates sort chronologically as strings
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].date < buckets[j].date })
	return buckets
}

func fold[S, T any](items []T, init S, step func(S, T) S) S {
	acc := init
	for _, it := range items {
		acc = step(acc, it)
	}
	return acc
}
