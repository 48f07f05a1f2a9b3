package country

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txreport/pkg/errors"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user_countries.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCSVSource_Load(t *testing.T) {
	path := writeFile(t, "user_id;country\n    1;Germany\n    2;France\n\n    3;Germany\n")

	lookup, err := NewCSVSource(path, 0).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Lookup{1: "Germany", 2: "France", 3: "Germany"}, lookup)
}

func TestCSVSource_LastDuplicateWins(t *testing.T) {
	path := writeFile(t, "user_id;country\n1;Germany\n1;Austria\n")

	lookup, err := NewCSVSource(path, ';').Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Austria", lookup[1])
}

func TestCSVSource_HeaderOrderAndDelimiter(t *testing.T) {
	path := writeFile(t, "Country,User_ID\nSpain, 7\n")

	lookup, err := NewCSVSource(path, ',').Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Lookup{7: "Spain"}, lookup)
}

func TestCSVSource_BlankCountrySkipped(t *testing.T) {
	path := writeFile(t, "user_id;country\n1;\n2;Italy\n")

	lookup, err := NewCSVSource(path, ';').Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Lookup{2: "Italy"}, lookup)
}

func TestCSVSource_Missing(t *testing.T) {
	_, err := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv"), ';').Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrLookupUnavailable))
	assert.Equal(t, "LookupUnavailable", errors.Code(err))
}

func TestCSVSource_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"missing column": "user_id;region\n1;EU\n",
		"bad id":         "user_id;country\nabc;Germany\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewCSVSource(writeFile(t, content), ';').Load(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrLookupMalformed), err.Error())
		})
	}
}

func TestLookup_Resolve(t *testing.T) {
	l := Lookup{1: "Germany"}

	c, ok := l.Resolve(1)
	assert.True(t, ok)
	assert.Equal(t, "Germany", c)

	c, ok = l.Resolve(2)
	assert.False(t, ok)
	assert.Equal(t, Unknown, c)
}

type fakeValues struct {
	rows [][]interface{}
	err  error
	rng  string
}

func (f *fakeValues) Get(_ context.Context, _, rng string) ([][]interface{}, error) {
	f.rng = rng
	return f.rows, f.err
}

func TestSheetsSource_Load(t *testing.T) {
	values := &fakeValues{rows: [][]interface{}{
		{"user_id", "country"},
		{"1", "Germany"},
		{float64(2), " France "},
		{},
	}}
	src := newSheetsSource(values, "sheet-id", "")

	lookup, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Lookup{1: "Germany", 2: "France"}, lookup)
	assert.Equal(t, DefaultSheetRange, values.rng)
}

func TestSheetsSource_Unavailable(t *testing.T) {
	src := newSheetsSource(&fakeValues{err: errors.New("403 forbidden")}, "sheet-id", "Users!A:B")

	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrLookupUnavailable))
}

func TestNewSheetsSource_RequiresConfig(t *testing.T) {
	_, err := NewSheetsSource(context.Background(), SheetsConfig{})
	assert.Error(t, err)

	_, err = NewSheetsSource(context.Background(), SheetsConfig{SpreadsheetID: "x"})
	assert.Error(t, err)
}
