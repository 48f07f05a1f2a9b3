// Package country resolves user ids to country names from an external table.
package country

import (
	"context"
	"strconv"
	"strings"

	"txreport/pkg/errors"
)

// Unknown is the country assigned to users absent from the lookup.
const Unknown = "Unknown"

// Column names of the lookup table header.
const (
	ColumnUserID  = "user_id"
	ColumnCountry = "country"
)

// Lookup maps a user id to a country name.
type Lookup map[int64]string

// Resolve returns the country of userID, or Unknown.
func (l Lookup) Resolve(userID int64) (string, bool) {
	if c, ok := l[userID]; ok {
		return c, true
	}
	return Unknown, false
}

// Source loads the complete lookup table.
type Source interface {
	Load(ctx context.Context) (Lookup, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (Lookup, error)

func (f SourceFunc) Load(ctx context.Context) (Lookup, error) {
	return f(ctx)
}

// parseRows builds a Lookup from a header row followed by data rows.
// Cells are trimmed; blank rows and rows with a blank country are skipped;
// a repeated user id keeps its last country.
func parseRows(rows [][]string) (Lookup, error) {
	header := -1
	for i, row := range rows {
		if !blank(row) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, errors.Wrap(errors.ErrLookupMalformed, "lookup table has no header row")
	}

	idCol, countryCol := -1, -1
	for i, cell := range rows[header] {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case ColumnUserID:
			idCol = i
		case ColumnCountry:
			countryCol = i
		}
	}
	if idCol < 0 || countryCol < 0 {
		return nil, errors.Wrapf(errors.ErrLookupMalformed,
			"lookup header must contain %q and %q columns", ColumnUserID, ColumnCountry)
	}

	lookup := make(Lookup)
	for i, row := range rows[header+1:] {
		if blank(row) {
			continue
		}
		line := header + i + 2
		if idCol >= len(row) {
			return nil, errors.Wrapf(errors.ErrLookupMalformed, "row %d: missing %s", line, ColumnUserID)
		}
		rawID := strings.TrimSpace(row[idCol])
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrLookupMalformed, "row %d: invalid %s %q", line, ColumnUserID, rawID)
		}
		if countryCol >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[countryCol])
		if name == "" {
			continue
		}
		lookup[id] = name
	}
	return lookup, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
