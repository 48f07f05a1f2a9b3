package domain

import (
	"github.com/shopspring/decimal"
)

// Rounded is a decimal rounded half-up to two places: ties go toward
// positive infinity, so -0.125 becomes -0.12. It marshals as a JSON
// number with exactly two fractional digits, e.g. 100.50.
type Rounded decimal.Decimal

var (
	cents = decimal.NewFromInt(100)
	half  = decimal.New(5, -1)
)

// Round2 rounds d to two decimal places.
func Round2(d decimal.Decimal) Rounded {
	return Rounded(d.Mul(cents).Add(half).Floor().Div(cents))
}

// RoundedPtr is Round2 returning a pointer, for nullable JSON fields.
func RoundedPtr(d decimal.Decimal) *Rounded {
	r := Round2(d)
	return &r
}

// Decimal returns the underlying value.
func (r Rounded) Decimal() decimal.Decimal {
	return decimal.Decimal(r)
}

func (r Rounded) String() string {
	return decimal.Decimal(r).StringFixed(2)
}

func (r Rounded) MarshalJSON() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Rounded) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*r = Round2(d)
	return nil
}
