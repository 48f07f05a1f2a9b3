package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"txreport/internal/domain"
	"txreport/pkg/errors"
	"txreport/pkg/validator"
)

// AllToken disables filtering on a dimension.
const AllToken = "all"

// Defaults for the country report.
const (
	DefaultTopN   = 10
	MinTopN       = 1
	MaxTopN       = 100
	DefaultSortBy = SortByTotal
)

// SortKey selects the ranking field of the country report.
type SortKey string

const (
	SortByCount SortKey = "count"
	SortByTotal SortKey = "total"
	SortByAvg   SortKey = "avg"
)

// ReportParams are the raw time-series report parameters as received.
type ReportParams struct {
	StartDate         string `query:"start_date" validate:"omitempty,calendar_date"`
	EndDate           string `query:"end_date" validate:"omitempty,calendar_date"`
	Status            string `query:"status" validate:"omitempty,oneof=all successful failed"`
	Type              string `query:"type" validate:"omitempty,oneof=all payment invoice"`
	IncludeAvg        string `query:"include_avg" validate:"omitempty,boolean"`
	IncludeMin        string `query:"include_min" validate:"omitempty,boolean"`
	IncludeMax        string `query:"include_max" validate:"omitempty,boolean"`
	IncludeDailyShift string `query:"include_daily_shift" validate:"omitempty,boolean"`
}

// CountryParams are the raw country report parameters as received.
type CountryParams struct {
	Status string
	SortBy string
	TopN   string
}

type countryInput struct {
	Status string `query:"status" validate:"omitempty,oneof=all successful failed"`
	SortBy string `query:"sort_by" validate:"omitempty,oneof=count total avg"`
	TopN   int    `query:"top_n" validate:"min=1,max=100"`
}

// MetricSet selects the optional metrics of a report.
type MetricSet struct {
	Average bool
	Minimum bool
	Maximum bool
}

// AllMetrics enables every optional metric.
func AllMetrics() MetricSet {
	return MetricSet{Average: true, Minimum: true, Maximum: true}
}

// ReportQuery is a validated time-series report request.
type ReportQuery struct {
	// StartDate and EndDate are midnights of the first and last calendar day.
	StartDate time.Time
	EndDate   time.Time
	// Start is inclusive, End exclusive. End is the current instant when no
	// end date was supplied, otherwise the midnight after EndDate.
	Start      time.Time
	End        time.Time
	Status     *domain.TransactionStatus
	Type       *domain.TransactionType
	Metrics    MetricSet
	DailyShift bool
}

// Filter returns the predicate for the query layer.
func (q *ReportQuery) Filter() domain.TransactionFilter {
	start, end := q.Start, q.End
	return domain.TransactionFilter{
		Start:  &start,
		End:    &end,
		Status: q.Status,
		Type:   q.Type,
	}
}

// Period describes the calendar window of the query.
func (q *ReportQuery) Period() domain.Period {
	return domain.Period{
		StartDate: q.StartDate.Format(validator.DateLayout),
		EndDate:   q.EndDate.Format(validator.DateLayout),
		Days:      daysBetween(q.StartDate, q.EndDate) + 1,
	}
}

// Filters echoes the status and type filters.
func (q *ReportQuery) Filters() domain.ReportFilters {
	return domain.ReportFilters{
		Status: statusToken(q.Status),
		Type:   typeToken(q.Type),
	}
}

// CacheKey identifies the query for result caching.
func (q *ReportQuery) CacheKey() string {
	return fmt.Sprintf("report:%s:%s:%s:%s:%t:%t:%t:%t",
		q.Start.UTC().Format(time.RFC3339Nano), q.End.UTC().Format(time.RFC3339Nano),
		statusToken(q.Status), typeToken(q.Type),
		q.Metrics.Average, q.Metrics.Minimum, q.Metrics.Maximum, q.DailyShift)
}

// CountryQuery is a validated country report request.
type CountryQuery struct {
	Status *domain.TransactionStatus
	SortBy SortKey
	TopN   int
}

// Filter returns the predicate for the query layer; no date bound applies.
func (q *CountryQuery) Filter() domain.TransactionFilter {
	return domain.TransactionFilter{Status: q.Status}
}

// Filters echoes the request parameters.
func (q *CountryQuery) Filters() domain.CountryFilters {
	return domain.CountryFilters{
		Status: statusToken(q.Status),
		SortBy: string(q.SortBy),
		TopN:   q.TopN,
	}
}

// Resolver turns raw request parameters into validated queries.
type Resolver struct {
	validator *validator.Validator
	location  *time.Location
	now       func() time.Time
}

// NewResolver creates a Resolver that interprets calendar dates in loc.
func NewResolver(val *validator.Validator, loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{validator: val, location: loc, now: time.Now}
}

// Location returns the calendar used for dates and daily buckets.
func (r *Resolver) Location() *time.Location {
	return r.location
}

// ResolveReport validates p and builds the report query.
func (r *Resolver) ResolveReport(p ReportParams) (*ReportQuery, error) {
	p.Status = strings.TrimSpace(p.Status)
	p.Type = strings.TrimSpace(p.Type)

	violations, err := r.validator.Violations(p)
	if err != nil {
		return nil, errors.Wrap(err, "failed to validate report parameters")
	}
	if len(violations) > 0 {
		return nil, reportViolation(violations[0])
	}

	q := &ReportQuery{
		Metrics: MetricSet{
			Average: parseFlag(p.IncludeAvg, true),
			Minimum: parseFlag(p.IncludeMin, true),
			Maximum: parseFlag(p.IncludeMax, true),
		},
		DailyShift: parseFlag(p.IncludeDailyShift, false),
	}

	if p.EndDate != "" {
		q.EndDate = r.parseDate(p.EndDate)
		q.End = q.EndDate.AddDate(0, 0, 1)
	} else {
		q.End = r.now().In(r.location)
		q.EndDate = midnight(q.End)
	}

	if p.StartDate != "" {
		q.StartDate = r.parseDate(p.StartDate)
	} else {
		q.StartDate = minusMonth(q.EndDate)
	}
	q.Start = q.StartDate

	if q.StartDate.After(q.EndDate) {
		return nil, errors.NewFieldError(errors.ErrInvalidRange, "start_date", p.StartDate,
			"start_date (%s) cannot be later than end_date (%s)",
			q.StartDate.Format(validator.DateLayout), q.EndDate.Format(validator.DateLayout))
	}

	q.Status, q.Type = resolveStatus(p.Status), resolveType(p.Type)
	return q, nil
}

// ResolveCountry validates p and builds the country report query.
func (r *Resolver) ResolveCountry(p CountryParams) (*CountryQuery, error) {
	in := countryInput{
		Status: strings.TrimSpace(p.Status),
		SortBy: strings.TrimSpace(p.SortBy),
		TopN:   DefaultTopN,
	}
	if s := strings.TrimSpace(p.TopN); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, errors.NewFieldError(errors.ErrOutOfBoundsParameter, "top_n", s,
				"top_n must be an integer between %d and %d, got %q", MinTopN, MaxTopN, s)
		}
		in.TopN = n
	}

	violations, err := r.validator.Violations(in)
	if err != nil {
		return nil, errors.Wrap(err, "failed to validate country report parameters")
	}
	if len(violations) > 0 {
		return nil, countryViolation(violations[0])
	}

	q := &CountryQuery{
		Status: resolveStatus(in.Status),
		SortBy: SortKey(in.SortBy),
		TopN:   in.TopN,
	}
	if q.SortBy == "" {
		q.SortBy = DefaultSortBy
	}
	return q, nil
}

func reportViolation(v validator.Violation) error {
	switch v.Tag {
	case "calendar_date":
		return errors.NewFieldError(errors.ErrInvalidDateFormat, v.Field, v.Value,
			"Invalid date format for %s: %q (expected YYYY-MM-DD)", v.Field, v.Value)
	case "boolean":
		return errors.NewFieldError(errors.ErrInvalidEnumValue, v.Field, v.Value,
			"Invalid value for %s: %q (expected true or false)", v.Field, v.Value)
	}
	return enumViolation(v)
}

func countryViolation(v validator.Violation) error {
	switch v.Field {
	case "sort_by":
		return errors.NewFieldError(errors.ErrInvalidSortKey, v.Field, v.Value,
			"Invalid sort type %q for sort_by (expected one of: count, total, avg)", v.Value)
	case "top_n":
		return errors.NewFieldError(errors.ErrOutOfBoundsParameter, v.Field, v.Value,
			"top_n must be between %d and %d, got %s", MinTopN, MaxTopN, v.Value)
	}
	return enumViolation(v)
}

func enumViolation(v validator.Violation) error {
	return errors.NewFieldError(errors.ErrInvalidEnumValue, v.Field, v.Value,
		"Invalid %s %q (expected one of: %s)",
		v.Field, v.Value, strings.Join(strings.Fields(v.Param), ", "))
}

func (r *Resolver) parseDate(s string) time.Time {
	// format already checked by the calendar_date rule
	d, _ := time.ParseInLocation(validator.DateLayout, s, r.location)
	return d
}

func resolveStatus(token string) *domain.TransactionStatus {
	if token == "" || token == AllToken {
		return nil
	}
	st, err := domain.ParseTransactionStatus(token)
	if err != nil {
		return nil
	}
	return &st
}

func resolveType(token string) *domain.TransactionType {
	if token == "" || token == AllToken {
		return nil
	}
	tt, err := domain.ParseTransactionType(token)
	if err != nil {
		return nil
	}
	return &tt
}

func statusToken(s *domain.TransactionStatus) string {
	if s == nil {
		return AllToken
	}
	return string(*s)
}

func typeToken(t *domain.TransactionType) string {
	if t == nil {
		return AllToken
	}
	return string(*t)
}

func parseFlag(s string, def bool) bool {
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// minusMonth steps one calendar month back, clamping to the last day of the
// shorter month (Mar 31 -> Feb 29).
func minusMonth(d time.Time) time.Time {
	y, m, day := d.Date()
	first := time.Date(y, m-1, 1, 0, 0, 0, 0, d.Location())
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, d.Location())
}

func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
