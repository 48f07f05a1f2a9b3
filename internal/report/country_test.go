package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txreport/internal/country"
	"txreport/internal/domain"
)

// Germany: 100 + 50 + 10 over 3 txs, France: 300 over 1, Unknown (users 4
// and 5): 20 + 25 + 5 over 3.
func countrySample() ([]*domain.Transaction, country.Lookup) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	txs := []*domain.Transaction{
		tx(1, 1, "100.00", domain.TransactionStatusSuccessful, at),
		tx(2, 1, "50.00", domain.TransactionStatusSuccessful, at),
		tx(3, 2, "300.00", domain.TransactionStatusSuccessful, at),
		tx(4, 3, "10.00", domain.TransactionStatusFailed, at),
		tx(5, 4, "20.00", domain.TransactionStatusSuccessful, at),
		tx(6, 4, "25.00", domain.TransactionStatusSuccessful, at),
		tx(7, 5, "5.00", domain.TransactionStatusSuccessful, at),
	}
	lookup := country.Lookup{1: "Germany", 2: "France", 3: "Germany"}
	return txs, lookup
}

func countryQuery(sortBy SortKey, topN int) *CountryQuery {
	return &CountryQuery{SortBy: sortBy, TopN: topN}
}

func names(stats []domain.CountryStats) []string {
	out := make([]string, len(stats))
	for i, s := range stats {
		out[i] = s.Country
	}
	return out
}

func TestAggregateByCountry_ByTotal(t *testing.T) {
	txs, lookup := countrySample()

	rep := AggregateByCountry(txs, lookup, countryQuery(SortByTotal, 10))

	assert.Equal(t, []string{"France", "Germany", country.Unknown}, names(rep.Countries))

	germany := rep.Countries[1]
	assert.Equal(t, 3, germany.TransactionCount)
	assert.Equal(t, "160.00", germany.TotalAmount.String())
	assert.Equal(t, "53.33", germany.AverageAmount.String())

	unknown := rep.Countries[2]
	assert.Equal(t, 3, unknown.TransactionCount)
	assert.Equal(t, "16.67", unknown.AverageAmount.String())

	s := rep.Summary
	assert.Equal(t, 3, s.TotalCountries)
	assert.Equal(t, 7, s.TotalTransactions)
	require.NotNil(t, s.TotalAmount)
	assert.Equal(t, "510.00", s.TotalAmount.String())
	require.NotNil(t, s.ShowingTop)
	assert.Equal(t, 3, *s.ShowingTop)
	require.NotNil(t, s.UsersWithoutCountry)
	assert.Equal(t, 2, *s.UsersWithoutCountry)
	assert.Empty(t, s.Message)

	assert.Equal(t, domain.CountryFilters{Status: "all", SortBy: "total", TopN: 10}, rep.Filters)
}

func TestAggregateByCountry_ByCountTieBreaksOnName(t *testing.T) {
	txs, lookup := countrySample()

	rep := AggregateByCountry(txs, lookup, countryQuery(SortByCount, 10))
	assert.Equal(t, []string{"Germany", country.Unknown, "France"}, names(rep.Countries))
}

func TestAggregateByCountry_ByAvg(t *testing.T) {
	txs, lookup := countrySample()

	rep := AggregateByCountry(txs, lookup, countryQuery(SortByAvg, 10))
	assert.Equal(t, []string{"France", "Germany", country.Unknown}, names(rep.Countries))
}

func TestAggregateByCountry_TruncatesAfterSort(t *testing.T) {
	txs, lookup := countrySample()

	rep := AggregateByCountry(txs, lookup, countryQuery(SortByTotal, 1))

	require.Len(t, rep.Countries, 1)
	assert.Equal(t, "France", rep.Countries[0].Country)
	assert.Equal(t, 3, rep.Summary.TotalCountries)
	assert.Equal(t, "510.00", rep.Summary.TotalAmount.String())
	assert.Equal(t, 1, *rep.Summary.ShowingTop)
}

func TestAggregateByCountry_EveryTransactionBucketed(t *testing.T) {
	txs, lookup := countrySample()

	for _, key := range []SortKey{SortByCount, SortByTotal, SortByAvg} {
		rep := AggregateByCountry(txs, lookup, countryQuery(key, MaxTopN))
		sum := 0
		for _, c := range rep.Countries {
			sum += c.TransactionCount
		}
		assert.Equal(t, rep.Summary.TotalTransactions, sum, key)
	}

	rep := AggregateByCountry(txs, lookup, countryQuery(SortByTotal, 2))
	sum := 0
	for _, c := range rep.Countries {
		sum += c.TransactionCount
	}
	assert.LessOrEqual(t, sum, rep.Summary.TotalTransactions)
}

func TestAggregateByCountry_EmptyLookup(t *testing.T) {
	txs, _ := countrySample()

	rep := AggregateByCountry(txs, country.Lookup{}, countryQuery(SortByTotal, 10))
	require.Len(t, rep.Countries, 1)
	assert.Equal(t, country.Unknown, rep.Countries[0].Country)
	assert.Equal(t, 7, rep.Countries[0].TransactionCount)
	assert.Equal(t, 5, *rep.Summary.UsersWithoutCountry)
}

func TestAggregateByCountry_NoTransactions(t *testing.T) {
	rep := AggregateByCountry(nil, country.Lookup{1: "Germany"}, countryQuery(SortByTotal, 10))

	assert.NotNil(t, rep.Countries)
	assert.Empty(t, rep.Countries)
	assert.Equal(t, MsgNoCountryTransactions, rep.Summary.Message)
	assert.Equal(t, 0, rep.Summary.TotalCountries)
	assert.Nil(t, rep.Summary.TotalAmount)
	assert.Nil(t, rep.Summary.ShowingTop)
}
