package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crucial707/idle-clicker/internal/models"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when no account has the username.
	ErrNotFound = errors.New("repo: account not found")
	// ErrUsernameTaken is returned when creating an account whose username exists.
	ErrUsernameTaken = errors.New("repo: username already exists")
	// ErrStaleAccount is returned when the row changed after it was read.
	ErrStaleAccount = errors.New("repo: account modified concurrently")
)

const uniqueViolation = "23505"

const accountColumns = `username, password_hash, salt, balance, level, last_collected_at, version, created_at`

// ==========================
// AccountRepo
// ==========================
type AccountRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(
		&a.Username,
		&a.PasswordHash,
		&a.Salt,
		&a.Balance,
		&a.Level,
		&a.LastCollectedAt,
		&a.Version,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ==========================
// Get By Username
// ==========================
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE username = $1
	`

	account, err := scanAccount(r.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

// ==========================
// Create Account
// ==========================

// Create inserts a new account at version 1. A unique violation on username
// is reported as ErrUsernameTaken.
func (r *AccountRepo) Create(ctx context.Context, a models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (username, password_hash, salt, balance, level, last_collected_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, 1)
		RETURNING ` + accountColumns

	account, err := scanAccount(r.DB.QueryRowContext(ctx, query,
		a.Username, a.PasswordHash, a.Salt, a.Balance, a.Level, a.LastCollectedAt,
	))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}

// ==========================
// Update If Unchanged
// ==========================

// UpdateIfUnchanged writes balance, level and last_collected_at only if the
// row is still at a.Version, and bumps the version. A concurrent writer that
// got there first makes it return ErrStaleAccount.
func (r *AccountRepo) UpdateIfUnchanged(ctx context.Context, a models.Account) (*models.Account, error) {
	query := `
		UPDATE accounts
		SET balance = $1, level = $2, last_collected_at = $3, version = version + 1
		WHERE username = $4 AND version = $5
		RETURNING ` + accountColumns

	account, err := scanAccount(r.DB.QueryRowContext(ctx, query,
		a.Balance, a.Level, a.LastCollectedAt, a.Username, a.Version,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStaleAccount
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	return account, nil
}
