package handler

import (
	"context"
	"net/http"
	"strings"

	"txreport/internal/domain"
	"txreport/pkg/errors"
	"txreport/pkg/validator"
)

// TransactionLister reads transactions newest first.
type TransactionLister interface {
	List(ctx context.Context, filter domain.TransactionFilter, limit int) ([]*domain.Transaction, error)
}

type TransactionsHandler struct {
	transactions TransactionLister
	validator    *validator.Validator
	logger       Logger
}

func NewTransactionsHandler(transactions TransactionLister, val *validator.Validator, log Logger) *TransactionsHandler {
	return &TransactionsHandler{transactions: transactions, validator: val, logger: log}
}

type listTransactionsQuery struct {
	Limit  int    `query:"limit" validate:"min=1,max=1000"`
	Status string `query:"status" validate:"omitempty,oneof=all successful failed"`
	Type   string `query:"transaction_type" validate:"omitempty,oneof=all payment invoice"`
}

type listTransactionsResponse struct {
	Count        int                   `json:"count"`
	Transactions []*domain.Transaction `json:"transactions"`
}

// List handles GET /transactions?limit=10&status=all&transaction_type=all.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	limit, err := parseLimit(qs.Get("limit"))
	if err != nil {
		respondErr(w, h.logger, r, err)
		return
	}
	q := listTransactionsQuery{
		Limit:  limit,
		Status: strings.TrimSpace(qs.Get("status")),
		Type:   strings.TrimSpace(qs.Get("transaction_type")),
	}
	if err := firstViolation(h.validator, q); err != nil {
		respondErr(w, h.logger, r, err)
		return
	}

	var filter domain.TransactionFilter
	if q.Status != "" && q.Status != "all" {
		st := domain.TransactionStatus(q.Status)
		filter.Status = &st
	}
	if q.Type != "" && q.Type != "all" {
		tt := domain.TransactionType(q.Type)
		filter.Type = &tt
	}

	txs, err := h.transactions.List(r.Context(), filter, q.Limit)
	if err != nil {
		respondErr(w, h.logger, r, errors.Wrap(err, "failed to list transactions"))
		return
	}
	if txs == nil {
		txs = []*domain.Transaction{}
	}
	respondJSON(w, http.StatusOK, listTransactionsResponse{Count: len(txs), Transactions: txs})
}
