package domain

// Period describes the resolved report window.
type Period struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
}

// ReportFilters echoes the status/type filters a report was computed with.
type ReportFilters struct {
	Status string `json:"status"`
	Type   string `json:"type"`
}

// ReportSummary holds transaction counts for a report.
type ReportSummary struct {
	TotalTransactions      int    `json:"total_transactions"`
	SuccessfulTransactions int    `json:"successful_transactions"`
	FailedTransactions     int    `json:"failed_transactions"`
	Message                string `json:"message,omitempty"`
}

// ReportMetrics holds monetary aggregates over successful transactions.
type ReportMetrics struct {
	TotalAmount   Rounded  `json:"total_amount"`
	AverageAmount *Rounded `json:"average_amount,omitempty"`
	MinimumAmount *Rounded `json:"minimum_amount,omitempty"`
	MaximumAmount *Rounded `json:"maximum_amount,omitempty"`
	Message       string   `json:"message,omitempty"`
}

// DailyShift is one calendar day of successful volume and its change
// against the previous day present in the series.
type DailyShift struct {
	Date             string   `json:"date"`
	TransactionCount int      `json:"transaction_count"`
	TotalAmount      Rounded  `json:"total_amount"`
	ChangePercent    *Rounded `json:"change_percent"`
	ChangeAmount     *Rounded `json:"change_amount"`
}

// Report is the time-series report. DailyShift is nil unless requested; a
// requested series with no successful days is an empty, non-nil slice.
type Report struct {
	Period     Period        `json:"period"`
	Filters    ReportFilters `json:"filters"`
	Summary    ReportSummary `json:"summary"`
	Metrics    ReportMetrics `json:"metrics"`
	DailyShift *[]DailyShift `json:"daily_shift,omitempty"`
}

// CountryFilters echoes the parameters of a country report.
type CountryFilters struct {
	Status string `json:"status"`
	SortBy string `json:"sort_by"`
	TopN   int    `json:"top_n"`
}

// CountrySummary holds totals computed before top-N truncation.
type CountrySummary struct {
	TotalCountries      int      `json:"total_countries"`
	TotalTransactions   int      `json:"total_transactions"`
	TotalAmount         *Rounded `json:"total_amount,omitempty"`
	ShowingTop          *int     `json:"showing_top,omitempty"`
	UsersWithoutCountry *int     `json:"users_without_country,omitempty"`
	Message             string   `json:"message,omitempty"`
}

// CountryStats aggregates the transactions of one country.
type CountryStats struct {
	Country          string  `json:"country"`
	TransactionCount int     `json:"transaction_count"`
	TotalAmount      Rounded `json:"total_amount"`
	AverageAmount    Rounded `json:"average_amount"`
}

// CountryReport is the geographic report.
type CountryReport struct {
	Filters   CountryFilters `json:"filters"`
	Summary   CountrySummary `json:"summary"`
	Countries []CountryStats `json:"countries"`
}
