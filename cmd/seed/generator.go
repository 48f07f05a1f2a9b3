package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"txreport/internal/country"
	"txreport/pkg/domain"
)

const (
	defaultUsers        = 113
	defaultTransactions = 10013

	activeShare     = 0.80
	successfulShare = 0.85
	paymentShare    = 0.50
	// share of users written to the country lookup; the rest report as Unknown
	countryShare = 0.90

	registrationWindow = 2 * 365 * 24 * time.Hour
)

var (
	firstNames = []string{
		"Ada", "Alan", "Barbara", "Claude", "Dennis", "Edsger", "Frances", "Grace",
		"Hedy", "Ivan", "John", "Katherine", "Ken", "Linus", "Margaret", "Niklaus",
		"Radia", "Rob", "Sophie", "Tim",
	}
	lastNames = []string{
		"Allen", "Berners-Lee", "Dijkstra", "Hamilton", "Hopper", "Johnson", "Kay",
		"Knuth", "Lamarr", "Liskov", "Lovelace", "Perlman", "Pike", "Ritchie",
		"Shannon", "Sutherland", "Thompson", "Torvalds", "Turing", "Wirth",
	}
	countries = []string{
		"Brazil", "Canada", "France", "Germany", "India", "Japan", "Kenya",
		"Mexico", "Poland", "Spain", "United Kingdom", "United States",
	}
)

// generator produces sample rows. A fixed rand source yields the same data
// set for the same now.
type generator struct {
	rnd *rand.Rand
	now time.Time
}

func newGenerator(rnd *rand.Rand, now time.Time) *generator {
	return &generator{rnd: rnd, now: now}
}

// Users returns n users sorted by registration date, each with a unique email.
func (g *generator) Users(n int) []*domain.User {
	users := make([]*domain.User, n)
	for i := range users {
		first := firstNames[g.rnd.Intn(len(firstNames))]
		last := lastNames[g.rnd.Intn(len(lastNames))]
		users[i] = &domain.User{
			FirstName:        first,
			LastName:         last,
			Email:            fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), i+1),
			RegistrationDate: g.between(g.now.Add(-registrationWindow), g.now),
			IsActive:         g.rnd.Float64() < activeShare,
		}
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].RegistrationDate.Before(users[j].RegistrationDate)
	})
	return users
}

// Transactions returns n transactions owned by random users, dated after the
// owner registered and sorted by payment date.
func (g *generator) Transactions(users []*domain.User, n int) []*domain.Transaction {
	if len(users) == 0 {
		return nil
	}
	txs := make([]*domain.Transaction, n)
	for i := range txs {
		user := users[g.rnd.Intn(len(users))]

		status := domain.TransactionStatusFailed
		if g.rnd.Float64() < successfulShare {
			status = domain.TransactionStatusSuccessful
		}
		typ := domain.TransactionTypeInvoice
		if g.rnd.Float64() < paymentShare {
			typ = domain.TransactionTypePayment
		}
		desc := fmt.Sprintf("%s #%d", typ.Title(), i+1)

		txs[i] = &domain.Transaction{
			UserID:      user.ID,
			PaymentDate: g.between(user.RegistrationDate, g.now),
			Amount:      g.amount(),
			Status:      status,
			Type:        typ,
			Description: &desc,
		}
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].PaymentDate.Before(txs[j].PaymentDate)
	})
	return txs
}

// WriteCountries writes a semicolon separated lookup covering a random share
// of users and returns how many rows it wrote.
func (g *generator) WriteCountries(w io.Writer, users []*domain.User) (int, error) {
	cw := csv.NewWriter(w)
	cw.Comma = country.DefaultDelimiter

	if err := cw.Write([]string{country.ColumnUserID, country.ColumnCountry}); err != nil {
		return 0, err
	}
	written := 0
	for _, u := range users {
		if g.rnd.Float64() >= countryShare {
			continue
		}
		row := []string{strconv.FormatInt(u.ID, 10), countries[g.rnd.Intn(len(countries))]}
		if err := cw.Write(row); err != nil {
			return written, err
		}
		written++
	}
	cw.Flush()
	return written, cw.Error()
}

// amount is uniform in [1, 1000] with two decimal places.
func (g *generator) amount() decimal.Decimal {
	cents := 100 + g.rnd.Int63n(100*1000-100+1)
	return decimal.New(cents, -2)
}

func (g *generator) between(from, to time.Time) time.Time {
	span := to.Sub(from)
	if span <= 0 {
		return from
	}
	return from.Add(time.Duration(g.rnd.Int63n(int64(span)))).Truncate(time.Second)
}
