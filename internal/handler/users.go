package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"txreport/internal/domain"
	"txreport/pkg/errors"
	"txreport/pkg/validator"
)

// Listing limits shared by /users and /transactions.
const (
	defaultListLimit = 10
	maxListLimit     = 1000
)

// UserLister reads users from the store.
type UserLister interface {
	List(ctx context.Context, limit int, activeOnly bool) ([]*domain.User, error)
}

type UsersHandler struct {
	users     UserLister
	validator *validator.Validator
	logger    Logger
}

func NewUsersHandler(users UserLister, val *validator.Validator, log Logger) *UsersHandler {
	return &UsersHandler{users: users, validator: val, logger: log}
}

type listUsersQuery struct {
	Limit      int    `query:"limit" validate:"min=1,max=1000"`
	ActiveOnly string `query:"active_only" validate:"omitempty,boolean"`
}

type listUsersResponse struct {
	Count int            `json:"count"`
	Users []*domain.User `json:"users"`
}

// List handles GET /users?limit=10&active_only=false.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		respondErr(w, h.logger, r, err)
		return
	}
	q := listUsersQuery{Limit: limit, ActiveOnly: strings.TrimSpace(r.URL.Query().Get("active_only"))}
	if err := firstViolation(h.validator, q); err != nil {
		respondErr(w, h.logger, r, err)
		return
	}
	activeOnly, _ := strconv.ParseBool(q.ActiveOnly)

	users, err := h.users.List(r.Context(), q.Limit, activeOnly)
	if err != nil {
		respondErr(w, h.logger, r, errors.Wrap(err, "failed to list users"))
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	respondJSON(w, http.StatusOK, listUsersResponse{Count: len(users), Users: users})
}

// parseLimit reads a list limit, defaulting to defaultListLimit.
func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultListLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewFieldError(errors.ErrOutOfBoundsParameter, "limit", raw,
			"limit must be an integer between 1 and %d, got %q", maxListLimit, raw)
	}
	return n, nil
}

// firstViolation validates q and converts the first failed rule into a
// FieldError.
func firstViolation(val *validator.Validator, q interface{}) error {
	violations, err := val.Violations(q)
	if err != nil {
		return errors.Wrap(err, "failed to validate query")
	}
	if len(violations) == 0 {
		return nil
	}
	v := violations[0]
	switch v.Tag {
	case "min", "max":
		return errors.NewFieldError(errors.ErrOutOfBoundsParameter, v.Field, v.Value,
			"%s must be between 1 and %d, got %s", v.Field, maxListLimit, v.Value)
	case "boolean":
		return errors.NewFieldError(errors.ErrInvalidEnumValue, v.Field, v.Value,
			"Invalid value for %s: %q (expected true or false)", v.Field, v.Value)
	}
	return errors.NewFieldError(errors.ErrInvalidEnumValue, v.Field, v.Value,
		"Invalid %s %q (expected one of: %s)", v.Field, v.Value, strings.Join(strings.Fields(v.Param), ", "))
}
