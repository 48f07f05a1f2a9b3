// Package domain re-exports core domain types so internal code can import
// `txreport/internal/domain` while using definitions from `txreport/pkg/domain`.
package domain

import pkg "txreport/pkg/domain"

// User represents a ledger account holder.
type User = pkg.User

// Transaction represents a payment or invoice.
type Transaction = pkg.Transaction

// TransactionStatus represents the outcome of a transaction.
type TransactionStatus = pkg.TransactionStatus

// TransactionType represents the category of a transaction.
type TransactionType = pkg.TransactionType

// TransactionFilter is the normalized query predicate.
type TransactionFilter = pkg.TransactionFilter

// Rounded is a two-decimal output value.
type Rounded = pkg.Rounded

// Re-exported statuses.
const (
	TransactionStatusSuccessful = pkg.TransactionStatusSuccessful
	TransactionStatusFailed     = pkg.TransactionStatusFailed
)

// Re-exported types.
const (
	TransactionTypePayment = pkg.TransactionTypePayment
	TransactionTypeInvoice = pkg.TransactionTypeInvoice
)

// Re-exported helpers.
var (
	ParseTransactionStatus = pkg.ParseTransactionStatus
	ParseTransactionType   = pkg.ParseTransactionType
	Round2                 = pkg.Round2
	RoundedPtr             = pkg.RoundedPtr
)
