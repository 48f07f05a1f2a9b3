package sqlstore

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"txreport/internal/domain"
	"txreport/pkg/errors"
)

const userColumns = `id, first_name, last_name, email, registration_date, is_active`

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts user and sets its ID.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.insert(ctx, r.db, user)
}

// CreateBatch inserts users in a single database transaction.
func (r *UserRepository) CreateBatch(ctx context.Context, users []*domain.User) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, u := range users {
		if err := r.insert(ctx, tx, u); err != nil {
			return err
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit users")
}

func (r *UserRepository) insert(ctx context.Context, q sqlx.QueryerContext, user *domain.User) error {
	query := r.db.Rebind(`
		INSERT INTO users (first_name, last_name, email, registration_date, is_active)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)

	err := sqlx.GetContext(ctx, q, &user.ID, query,
		user.FirstName, user.LastName, user.Email, user.RegistrationDate.UTC(), user.IsActive,
	)
	if isUniqueViolation(err) {
		return errors.ErrUserAlreadyExists
	}
	return errors.Wrap(err, "failed to create user")
}

// List returns at most limit users ordered by id.
func (r *UserRepository) List(ctx context.Context, limit int, activeOnly bool) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []interface{}
	if activeOnly {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY id ASC LIMIT ?`
	args = append(args, limit)

	var users []*domain.User
	if err := r.db.SelectContext(ctx, &users, r.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`)
	return count, errors.Wrap(err, "failed to count users")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			(code == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE"))
	}
	return false
}
