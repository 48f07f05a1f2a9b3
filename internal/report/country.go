package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"txreport/internal/country"
	"txreport/internal/domain"
)

const MsgNoCountryTransactions = "No transactions found for the selected status"

type countryGroup struct {
	name  string
	count int
	total decimal.Decimal
}

func (g *countryGroup) mean() decimal.Decimal {
	return g.total.Div(decimal.NewFromInt(int64(g.count)))
}

// AggregateByCountry groups txs by the country of their owner, ranks the
// groups by q.SortBy descending and keeps the first q.TopN. Summary totals
// cover every group, not only the ones shown.
func AggregateByCountry(txs []*domain.Transaction, lookup country.Lookup, q *CountryQuery) domain.CountryReport {
	rep := domain.CountryReport{
		Filters:   q.Filters(),
		Countries: []domain.CountryStats{},
	}
	if len(txs) == 0 {
		rep.Summary = domain.CountrySummary{Message: MsgNoCountryTransactions}
		return rep
	}

	groups := make(map[string]*countryGroup)
	unresolved := make(map[int64]struct{})
	grand := decimal.Zero
	for _, tx := range txs {
		name, ok := lookup.Resolve(tx.UserID)
		if !ok {
			unresolved[tx.UserID] = struct{}{}
		}
		g, exists := groups[name]
		if !exists {
			g = &countryGroup{name: name, total: decimal.Zero}
			groups[name] = g
		}
		g.count++
		g.total = g.total.Add(tx.Amount)
		grand = grand.Add(tx.Amount)
	}

	ranked := make([]*countryGroup, 0, len(groups))
	for _, g := range groups {
		ranked = append(ranked, g)
	}
	sortGroups(ranked, q.SortBy)

	shown := ranked
	if len(shown) > q.TopN {
		shown = shown[:q.TopN]
	}
	for _, g := range shown {
		rep.Countries = append(rep.Countries, domain.CountryStats{
			Country:          g.name,
			TransactionCount: g.count,
			TotalAmount:      domain.Round2(g.total),
			AverageAmount:    domain.Round2(g.mean()),
		})
	}

	showing, without := len(shown), len(unresolved)
	rep.Summary = domain.CountrySummary{
		TotalCountries:      len(groups),
		TotalTransactions:   len(txs),
		TotalAmount:         domain.RoundedPtr(grand),
		ShowingTop:          &showing,
		UsersWithoutCountry: &without,
	}
	return rep
}

// sortGroups orders by key descending; equal keys fall back to country name
// ascending so the ranking is deterministic.
func sortGroups(groups []*countryGroup, key SortKey) {
	cmp := func(a, b *countryGroup) int {
		switch key {
		case SortByCount:
			switch {
			case a.count > b.count:
				return -1
			case a.count < b.count:
				return 1
			}
			return 0
		case SortByAvg:
			return -a.mean().Cmp(b.mean())
		}
		return -a.total.Cmp(b.total)
	}
	sort.Slice(groups, func(i, j int) bool {
		if c := cmp(groups[i], groups[j]); c != 0 {
			return c < 0
		}
		return groups[i].name < groups[j].name
	})
}
