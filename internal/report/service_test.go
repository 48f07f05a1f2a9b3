package report

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"txreport/internal/country"
	"txreport/internal/domain"
	"txreport/pkg/cache"
	"txreport/pkg/errors"
	"txreport/pkg/logger"
	"txreport/pkg/validator"
)

type MockTransactionFinder struct {
	mock.Mock
}

func (m *MockTransactionFinder) Find(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func staticLookup(l country.Lookup) country.Source {
	return country.SourceFunc(func(context.Context) (country.Lookup, error) { return l, nil })
}

func resolveReport(t *testing.T, p ReportParams) *ReportQuery {
	t.Helper()
	q, err := NewResolver(validator.New(), time.UTC).ResolveReport(p)
	require.NoError(t, err)
	return q
}

func TestService_Report(t *testing.T) {
	finder := new(MockTransactionFinder)
	svc := NewService(finder, nil, nil, 0, time.UTC, logger.NewNop())
	q := resolveReport(t, ReportParams{StartDate: "2024-01-01", EndDate: "2024-01-31", IncludeDailyShift: "true"})

	finder.On("Find", mock.Anything, q.Filter()).Return(januarySample(), nil).Once()

	rep, err := svc.Report(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, domain.Period{StartDate: "2024-01-01", EndDate: "2024-01-31", Days: 31}, rep.Period)
	assert.Equal(t, 3, rep.Summary.TotalTransactions)
	assert.Equal(t, "301.25", rep.Metrics.TotalAmount.String())
	require.NotNil(t, rep.DailyShift)
	assert.Len(t, *rep.DailyShift, 2)
	finder.AssertExpectations(t)
}

func TestService_Report_FailedOnlyPeriod(t *testing.T) {
	finder := new(MockTransactionFinder)
	svc := NewService(finder, nil, nil, 0, time.UTC, logger.NewNop())
	q := resolveReport(t, ReportParams{StartDate: "2024-01-01", EndDate: "2024-01-31", Status: "failed"})

	// the store applies the status predicate; only successful rows exist
	finder.On("Find", mock.Anything, mock.MatchedBy(func(f domain.TransactionFilter) bool {
		return f.Status != nil && *f.Status == domain.TransactionStatusFailed
	})).Return([]*domain.Transaction{}, nil)

	rep, err := svc.Report(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, 0, rep.Summary.TotalTransactions)
	assert.True(t, rep.Metrics.TotalAmount.Decimal().IsZero())
	assert.Equal(t, MsgNoSuccessful, rep.Metrics.Message)
	assert.Nil(t, rep.DailyShift)
	assert.Equal(t, "failed", rep.Filters.Status)
}

func TestService_Report_EmptyDailyShiftIsPresent(t *testing.T) {
	finder := new(MockTransactionFinder)
	svc := NewService(finder, nil, nil, 0, time.UTC, logger.NewNop())
	q := resolveReport(t, ReportParams{StartDate: "2024-01-01", EndDate: "2024-01-02", IncludeDailyShift: "true"})

	finder.On("Find", mock.Anything, mock.Anything).Return([]*domain.Transaction{}, nil)

	rep, err := svc.Report(context.Background(), q)
	require.NoError(t, err)

	raw, err := json.Marshal(rep)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"daily_shift":[]`)
}

func TestService_Report_StoreError(t *testing.T) {
	finder := new(MockTransactionFinder)
	svc := NewService(finder, nil, nil, 0, time.UTC, logger.NewNop())
	q := resolveReport(t, ReportParams{StartDate: "2024-01-01", EndDate: "2024-01-31"})

	finder.On("Find", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	rep, err := svc.Report(context.Background(), q)
	assert.Nil(t, rep)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load transactions")
}

func TestService_Report_Idempotent(t *testing.T) {
	finder := new(MockTransactionFinder)
	svc := NewService(finder, nil, nil, 0, time.UTC, logger.NewNop())
	q := resolveReport(t, ReportParams{StartDate: "2024-01-01", EndDate: "2024-01-31", IncludeDailyShift: "true"})

	finder.On("Find", mock.Anything, mock.Anything).Return(januarySample(), nil)

	first, err := svc.Report(context.Background(), q)
	require.NoError(t, err)
	second, err := svc.Report(context.Background(), q)
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.Equal(t, string(a), string(b))
}

func TestService_Report_Cached(t *testing.T) {
	finder := new(MockTransactionFinder)
	svc := NewService(finder, nil, cache.NewMemoryCache(8), time.Minute, time.UTC, logger.NewNop())
	q := resolveReport(t, ReportParams{StartDate: "2024-01-01", EndDate: "2024-01-31", IncludeDailyShift: "true"})

	finder.On("Find", mock.Anything, mock.Anything).Return(januarySample(), nil).Once()

	first, err := svc.Report(context.Background(), q)
	require.NoError(t, err)
	second, err := svc.Report(context.Background(), q)
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.JSONEq(t, string(a), string(b))
	finder.AssertNumberOfCalls(t, "Find", 1)
}

func TestService_CountryReport(t *testing.T) {
	finder := new(MockTransactionFinder)
	txs, lookup := countrySample()
	svc := NewService(finder, staticLookup(lookup), nil, 0, time.UTC, logger.NewNop())
	q := &CountryQuery{SortBy: SortByTotal, TopN: 2}

	finder.On("Find", mock.Anything, domain.TransactionFilter{}).Return(txs, nil)

	rep, err := svc.CountryReport(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"France", "Germany"}, names(rep.Countries))
	assert.Equal(t, 3, rep.Summary.TotalCountries)
	finder.AssertExpectations(t)
}

func TestService_CountryReport_LookupFailure(t *testing.T) {
	finder := new(MockTransactionFinder)
	failing := country.SourceFunc(func(context.Context) (country.Lookup, error) {
		return nil, errors.Wrap(errors.ErrLookupUnavailable, "file missing")
	})
	svc := NewService(finder, failing, nil, 0, time.UTC, logger.NewNop())

	finder.On("Find", mock.Anything, mock.Anything).Return([]*domain.Transaction{}, nil).Maybe()

	rep, err := svc.CountryReport(context.Background(), &CountryQuery{SortBy: SortByTotal, TopN: 10})
	assert.Nil(t, rep)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrLookupUnavailable))
}

func TestService_CountryReport_MalformedLookupNotCached(t *testing.T) {
	finder := new(MockTransactionFinder)
	calls := 0
	src := country.SourceFunc(func(context.Context) (country.Lookup, error) {
		calls++
		if calls == 1 {
			return nil, errors.Wrap(errors.ErrLookupMalformed, "missing country column")
		}
		return country.Lookup{1: "Germany"}, nil
	})
	svc := NewService(finder, src, cache.NewMemoryCache(8), time.Minute, time.UTC, logger.NewNop())
	q := &CountryQuery{SortBy: SortByTotal, TopN: 10}

	finder.On("Find", mock.Anything, mock.Anything).Return(januarySample(), nil)

	_, err := svc.CountryReport(context.Background(), q)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrLookupMalformed))

	rep, err := svc.CountryReport(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Summary.TotalTransactions)
}

func TestService_CountryReport_LookupFailureAfterSuccess(t *testing.T) {
	finder := new(MockTransactionFinder)
	calls := 0
	src := country.SourceFunc(func(context.Context) (country.Lookup, error) {
		calls++
		if calls > 1 {
			return nil, errors.Wrap(errors.ErrLookupUnavailable, "countries.csv removed")
		}
		return country.Lookup{1: "Germany"}, nil
	})
	svc := NewService(finder, src, cache.NewMemoryCache(8), 30*time.Second, time.UTC, logger.NewNop())
	q := &CountryQuery{SortBy: SortByTotal, TopN: 10}

	finder.On("Find", mock.Anything, mock.Anything).Return(januarySample(), nil)

	rep, err := svc.CountryReport(context.Background(), q)
	require.NoError(t, err)
	require.NotNil(t, rep)

	rep, err = svc.CountryReport(context.Background(), q)
	assert.Nil(t, rep)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrLookupUnavailable))
	assert.Equal(t, 2, calls)
}

func TestService_CountryReport_ReadsStoreEveryCall(t *testing.T) {
	finder := new(MockTransactionFinder)
	svc := NewService(finder, staticLookup(country.Lookup{1: "Germany"}), cache.NewMemoryCache(8), 30*time.Second, time.UTC, logger.NewNop())
	q := &CountryQuery{SortBy: SortByTotal, TopN: 10}

	grown := append(januarySample(), januarySample()...)
	finder.On("Find", mock.Anything, mock.Anything).Return(januarySample(), nil).Once()
	finder.On("Find", mock.Anything, mock.Anything).Return(grown, nil).Once()

	first, err := svc.CountryReport(context.Background(), q)
	require.NoError(t, err)
	second, err := svc.CountryReport(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, 3, first.Summary.TotalTransactions)
	assert.Equal(t, 6, second.Summary.TotalTransactions)
	finder.AssertNumberOfCalls(t, "Find", 2)
}
