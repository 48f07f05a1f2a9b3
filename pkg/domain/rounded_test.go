package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound2_HalfUp(t *testing.T) {
	cases := map[string]string{
		"100.5":    "100.50",
		"150.625":  "150.63",
		"150.624":  "150.62",
		"0":        "0.00",
		"99.74626": "99.75",
		"1.005":    "1.01",
		"-0.125":   "-0.12",
		"-0.126":   "-0.13",
		"-0.124":   "-0.12",
		"-49.995":  "-49.99",
		"-0.005":   "0.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, Round2(decimal.RequireFromString(in)).String(), in)
	}
}

func TestRounded_JSON(t *testing.T) {
	payload := struct {
		Total  Rounded  `json:"total"`
		Change *Rounded `json:"change"`
	}{Total: Round2(decimal.RequireFromString("301.25")), Change: nil}

	b, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":301.25,"change":null}`, string(b))
	assert.Contains(t, string(b), `"total":301.25`)

	b, err = json.Marshal(Round2(decimal.NewFromInt(200)))
	require.NoError(t, err)
	assert.Equal(t, "200.00", string(b))

	var back Rounded
	require.NoError(t, json.Unmarshal([]byte("99.749"), &back))
	assert.Equal(t, "99.75", back.String())
}

func TestParseTransactionEnums(t *testing.T) {
	st, err := ParseTransactionStatus("failed")
	require.NoError(t, err)
	assert.Equal(t, TransactionStatusFailed, st)

	_, err = ParseTransactionStatus("pending")
	assert.Error(t, err)

	tt, err := ParseTransactionType("invoice")
	require.NoError(t, err)
	assert.Equal(t, TransactionTypeInvoice, tt)
	assert.Equal(t, "Invoice", tt.Title())

	_, err = ParseTransactionType("Payment")
	assert.Error(t, err)
}
