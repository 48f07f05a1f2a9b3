package report

import (
	"github.com/shopspring/decimal"

	"txreport/internal/domain"
)

const (
	MsgNoTransactions = "No transactions found for the selected period and filters"
	MsgNoSuccessful   = "No successful transactions found for the selected filters"
)

// Partition splits txs into successful ones and the rest, keeping order.
func Partition(txs []*domain.Transaction) (successful, other []*domain.Transaction) {
	for _, tx := range txs {
		if tx.IsSuccessful() {
			successful = append(successful, tx)
		} else {
			other = append(other, tx)
		}
	}
	return successful, other
}

// Summarize counts txs by outcome.
func Summarize(txs []*domain.Transaction) domain.ReportSummary {
	s := domain.ReportSummary{TotalTransactions: len(txs)}
	for _, tx := range txs {
		switch tx.Status {
		case domain.TransactionStatusSuccessful:
			s.SuccessfulTransactions++
		case domain.TransactionStatusFailed:
			s.FailedTransactions++
		}
	}
	if s.TotalTransactions == 0 {
		s.Message = MsgNoTransactions
	}
	return s
}

// ComputeMetrics aggregates the amounts of the successful transactions in
// txs. Failed transactions never contribute. Optional metrics absent from
// include are left nil.
func ComputeMetrics(txs []*domain.Transaction, include MetricSet) domain.ReportMetrics {
	successful, _ := Partition(txs)
	if len(successful) == 0 {
		return domain.ReportMetrics{
			TotalAmount: domain.Round2(decimal.Zero),
			Message:     MsgNoSuccessful,
		}
	}

	total := decimal.Zero
	lo, hi := successful[0].Amount, successful[0].Amount
	for _, tx := range successful {
		total = total.Add(tx.Amount)
		if tx.Amount.LessThan(lo) {
			lo = tx.Amount
		}
		if tx.Amount.GreaterThan(hi) {
			hi = tx.Amount
		}
	}

	m := domain.ReportMetrics{TotalAmount: domain.Round2(total)}
	if include.Average {
		m.AverageAmount = domain.RoundedPtr(total.Div(decimal.NewFromInt(int64(len(successful)))))
	}
	if include.Minimum {
		m.MinimumAmount = domain.RoundedPtr(lo)
	}
	if include.Maximum {
		m.MaximumAmount = domain.RoundedPtr(hi)
	}
	return m
}
