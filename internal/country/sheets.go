package country

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"txreport/pkg/errors"
)

// DefaultSheetRange is read when no range is configured.
const DefaultSheetRange = "Countries!A:B"

// SheetsConfig locates the lookup table in a Google spreadsheet.
type SheetsConfig struct {
	SpreadsheetID      string
	Range              string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// valuesGetter is the slice of the Sheets API the source needs.
type valuesGetter interface {
	Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error)
}

type sheetsValues struct {
	svc *sheets.Service
}

func (v sheetsValues) Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error) {
	resp, err := v.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// SheetsSource reads the lookup from a spreadsheet range whose first row is
// the user_id/country header.
type SheetsSource struct {
	values        valuesGetter
	spreadsheetID string
	rng           string
}

// NewSheetsSource authenticates with a service account and returns a source
// reading cfg.Range.
func NewSheetsSource(ctx context.Context, cfg SheetsConfig) (*SheetsSource, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	credentialsJSON := []byte(strings.TrimSpace(cfg.ServiceAccountJSON))
	if len(credentialsJSON) == 0 {
		if cfg.ServiceAccountFile == "" {
			return nil, errors.New("missing service account credentials")
		}
		data, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read service account file")
		}
		credentialsJSON = data
	}

	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse service account credentials")
	}

	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create sheets service")
	}

	return newSheetsSource(sheetsValues{svc: svc}, cfg.SpreadsheetID, cfg.Range), nil
}

func newSheetsSource(values valuesGetter, spreadsheetID, rng string) *SheetsSource {
	if rng == "" {
		rng = DefaultSheetRange
	}
	return &SheetsSource{values: values, spreadsheetID: spreadsheetID, rng: rng}
}

func (s *SheetsSource) Load(ctx context.Context) (Lookup, error) {
	raw, err := s.values.Get(ctx, s.spreadsheetID, s.rng)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrLookupUnavailable, "failed to read sheet range %s: %v", s.rng, err)
	}

	rows := make([][]string, len(raw))
	for i, r := range raw {
		cells := make([]string, len(r))
		for j, c := range r {
			cells[j] = fmt.Sprint(c)
		}
		rows[i] = cells
	}

	lookup, err := parseRows(rows)
	if err != nil {
		return nil, errors.Wrapf(err, "sheet range %s", s.rng)
	}
	return lookup, nil
}
