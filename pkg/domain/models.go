package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// User represents a ledger account holder
type User struct {
	ID               int64     `json:"id" db:"id"`
	FirstName        string    `json:"first_name" db:"first_name"`
	LastName         string    `json:"last_name" db:"last_name"`
	Email            string    `json:"email" db:"email"`
	RegistrationDate time.Time `json:"registration_date" db:"registration_date"`
	IsActive         bool      `json:"is_active" db:"is_active"`
}

// Transaction represents a single payment or invoice owned by a user
type Transaction struct {
	ID          int64             `json:"id" db:"id"`
	PaymentDate time.Time         `json:"payment_date" db:"payment_date"`
	Amount      decimal.Decimal   `json:"amount" db:"amount"`
	Status      TransactionStatus `json:"status" db:"status"`
	Type        TransactionType   `json:"type" db:"type"`
	Description *string           `json:"description" db:"description"`
	UserID      int64             `json:"user_id" db:"user_id"`
}

// IsSuccessful reports whether the transaction feeds monetary aggregates.
func (t *Transaction) IsSuccessful() bool {
	return t.Status == TransactionStatusSuccessful
}

type TransactionStatus string

const (
	TransactionStatusSuccessful TransactionStatus = "successful"
	TransactionStatusFailed     TransactionStatus = "failed"
)

// TransactionStatuses lists every valid status in display order.
var TransactionStatuses = []TransactionStatus{TransactionStatusSuccessful, TransactionStatusFailed}

// ParseTransactionStatus resolves a status token.
func ParseTransactionStatus(s string) (TransactionStatus, error) {
	for _, st := range TransactionStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown transaction status %q", s)
}

type TransactionType string

const (
	TransactionTypePayment TransactionType = "payment"
	TransactionTypeInvoice TransactionType = "invoice"
)

// TransactionTypes lists every valid type in display order.
var TransactionTypes = []TransactionType{TransactionTypePayment, TransactionTypeInvoice}

// ParseTransactionType resolves a type token.
func ParseTransactionType(s string) (TransactionType, error) {
	for _, tt := range TransactionTypes {
		if string(tt) == s {
			return tt, nil
		}
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// Title returns the type name with an upper-case first letter ("Payment").
func (t TransactionType) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// TransactionFilter is the normalized predicate consumed by the query layer.
// A nil field applies no restriction on that dimension. Start is inclusive,
// End is exclusive.
type TransactionFilter struct {
	Start  *time.Time
	End    *time.Time
	Status *TransactionStatus
	Type   *TransactionType
}
