// Package report computes transaction analytics: the time-series report with
// optional daily shift and the per-country ranking.
package report

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"txreport/internal/country"
	"txreport/internal/domain"
	"txreport/pkg/cache"
	"txreport/pkg/errors"
	"txreport/pkg/logger"
)

// TransactionFinder returns every transaction matching a filter, ordered by
// payment date ascending.
type TransactionFinder interface {
	Find(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)
}

type Service struct {
	transactions TransactionFinder
	countries    country.Source
	cache        cache.Cache
	cacheTTL     time.Duration
	location     *time.Location
	logger       logger.Logger
}

// NewService creates a report Service. c may be nil, which disables the
// time-series result cache.
func NewService(
	transactions TransactionFinder,
	countries country.Source,
	c cache.Cache,
	cacheTTL time.Duration,
	loc *time.Location,
	log logger.Logger,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		transactions: transactions,
		countries:    countries,
		cache:        c,
		cacheTTL:     cacheTTL,
		location:     loc,
		logger:       log,
	}
}

// Report builds the time-series report for q. When a cache is configured,
// an identical query within the TTL is answered from it.
func (s *Service) Report(ctx context.Context, q *ReportQuery) (*domain.Report, error) {
	key := q.CacheKey()
	var cached domain.Report
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	txs, err := s.transactions.Find(ctx, q.Filter())
	if err != nil {
		return nil, errors.Wrap(err, "failed to load transactions")
	}

	rep := &domain.Report{
		Period:  q.Period(),
		Filters: q.Filters(),
		Summary: Summarize(txs),
		Metrics: ComputeMetrics(txs, q.Metrics),
	}
	if q.DailyShift {
		successful, _ := Partition(txs)
		shifts := DailyShifts(successful, s.location)
		rep.DailyShift = &shifts
	}

	s.logger.Info("Report computed", map[string]interface{}{
		"start_date":   rep.Period.StartDate,
		"end_date":     rep.Period.EndDate,
		"status":       rep.Filters.Status,
		"type":         rep.Filters.Type,
		"transactions": rep.Summary.TotalTransactions,
	})

	s.toCache(ctx, key, rep)
	return rep, nil
}

// CountryReport builds the per-country ranking for q. Every call reads the
// lookup table and the transactions once, concurrently, and is never served
// from the result cache; a lookup failure fails the request.
func (s *Service) CountryReport(ctx context.Context, q *CountryQuery) (*domain.CountryReport, error) {
	var (
		lookup country.Lookup
		txs    []*domain.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l, err := s.countries.Load(gctx)
		if err != nil {
			return err
		}
		lookup = l
		return nil
	})
	g.Go(func() error {
		found, err := s.transactions.Find(gctx, q.Filter())
		if err != nil {
			return errors.Wrap(err, "failed to load transactions")
		}
		txs = found
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Country report failed", map[string]interface{}{
			"error":  err.Error(),
			"status": statusToken(q.Status),
		})
		return nil, err
	}

	rep := AggregateByCountry(txs, lookup, q)

	s.logger.Info("Country report computed", map[string]interface{}{
		"status":       rep.Filters.Status,
		"sort_by":      rep.Filters.SortBy,
		"top_n":        rep.Filters.TopN,
		"countries":    rep.Summary.TotalCountries,
		"transactions": rep.Summary.TotalTransactions,
		"lookup_size":  len(lookup),
	})

	return &rep, nil
}

func (s *Service) fromCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	err := s.cache.Get(ctx, key, dest)
	if err == nil {
		s.logger.Debug("Report cache hit", map[string]interface{}{"key": key})
		return true
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("Report cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	return false
}

func (s *Service) toCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("Report cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
