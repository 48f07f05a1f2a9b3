package country

import (
	"context"
	"encoding/csv"
	"os"

	"txreport/pkg/errors"
)

// DefaultDelimiter separates the columns of the lookup file.
const DefaultDelimiter = ';'

// CSVSource reads the lookup from a delimited file on every Load, so edits
// to the file are picked up without a restart.
type CSVSource struct {
	path      string
	delimiter rune
}

// NewCSVSource creates a CSVSource. A zero delimiter means DefaultDelimiter.
func NewCSVSource(path string, delimiter rune) *CSVSource {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	return &CSVSource{path: path, delimiter: delimiter}
}

func (s *CSVSource) Load(ctx context.Context) (Lookup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrLookupUnavailable, "failed to open %s: %v", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = s.delimiter
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrLookupMalformed, "failed to parse %s: %v", s.path, err)
	}

	lookup, err := parseRows(rows)
	if err != nil {
		return nil, errors.Wrapf(err, "lookup file %s", s.path)
	}
	return lookup, nil
}
