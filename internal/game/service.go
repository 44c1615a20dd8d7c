// Package game runs a player request end to end: it decodes the credential,
// loads and authenticates the account, applies the economy and persists the
// result with a single conditional write.
package game

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/crucial707/idle-clicker/internal/credential"
	"github.com/crucial707/idle-clicker/internal/economy"
	"github.com/crucial707/idle-clicker/internal/metrics"
	"github.com/crucial707/idle-clicker/internal/models"
	"github.com/crucial707/idle-clicker/internal/repo"
)

// AccountStore is the account storage the service needs.
type AccountStore interface {
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	Create(ctx context.Context, a models.Account) (*models.Account, error)
	UpdateIfUnchanged(ctx context.Context, a models.Account) (*models.Account, error)
}

// PasswordHasher derives and checks salted password hashes.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(password, salt string) (string, error)
	Verify(password, salt, expected string) (bool, error)
}

// Service handles claim, collect and upgrade requests. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	accounts AccountStore
	hasher   PasswordHasher
	params   economy.Params
	now      func() time.Time
	log      *slog.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger replaces slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(accounts AccountStore, hasher PasswordHasher, params economy.Params, opts ...Option) *Service {
	s := &Service{
		accounts: accounts,
		hasher:   hasher,
		params:   params,
		now:      time.Now,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Params returns the economy curve used by the service.
func (s *Service) Params() economy.Params { return s.params }

// timestamps are stored with microsecond precision.
func (s *Service) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// ==========================
// Authenticate
// ==========================

// Authenticate resolves the header to a stored account whose password matches.
func (s *Service) Authenticate(ctx context.Context, header string) (*models.Account, error) {
	const op = "authenticate"

	cred, err := credential.ParseBasic(header)
	if err != nil {
		return nil, fail(KindBadHeader, op, err)
	}

	account, err := s.accounts.GetByUsername(ctx, cred.Username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fail(KindNotFound, op, err)
		}
		return nil, s.internal(op, err, "username", cred.Username)
	}

	ok, err := s.hasher.Verify(cred.Password, account.Salt, account.PasswordHash)
	if err != nil {
		return nil, s.internal(op, err, "username", cred.Username)
	}
	if !ok {
		return nil, fail(KindUnauthorized, op, nil)
	}
	return account, nil
}

// ==========================
// Claim
// ==========================

// Claim creates an account for the credential in header. An existing
// username, found up front or by the insert, is a conflict.
func (s *Service) Claim(ctx context.Context, header string) (*models.Account, error) {
	const op = "claim"

	cred, err := credential.ParseBasic(header)
	if err != nil {
		return nil, fail(KindBadHeader, op, err)
	}

	_, err = s.accounts.GetByUsername(ctx, cred.Username)
	switch {
	case err == nil:
		return nil, fail(KindConflict, op, repo.ErrUsernameTaken)
	case !errors.Is(err, repo.ErrNotFound):
		return nil, s.internal(op, err, "username", cred.Username)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, s.internal(op, err)
	}
	hash, err := s.hasher.Hash(cred.Password, salt)
	if err != nil {
		return nil, s.internal(op, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fail(KindInternal, op, err)
	}

	created, err := s.accounts.Create(ctx, models.Account{
		Username:        cred.Username,
		PasswordHash:    hash,
		Salt:            salt,
		Balance:         0,
		Level:           0,
		LastCollectedAt: s.clock(),
	})
	if err != nil {
		if errors.Is(err, repo.ErrUsernameTaken) {
			return nil, fail(KindConflict, op, err)
		}
		return nil, s.internal(op, err, "username", cred.Username)
	}

	metrics.IncAccountsClaimed()
	s.log.Info("account claimed", "username", created.Username)
	return created, nil
}

// ==========================
// Collect
// ==========================

// Collect settles the currency produced since the last collection.
func (s *Service) Collect(ctx context.Context, header string) (*models.Account, error) {
	const op = "collect"

	account, err := s.Authenticate(ctx, header)
	if err != nil {
		return nil, rename(op, err)
	}

	updated := s.params.Accrue(*account, s.clock())
	saved, err := s.persist(ctx, op, updated)
	if err != nil {
		return nil, err
	}

	metrics.AddCurrencyCollected(saved.Balance - account.Balance)
	return saved, nil
}

// ==========================
// Upgrade
// ==========================

// Upgrade buys as many levels as the balance allows, all or nothing.
func (s *Service) Upgrade(ctx context.Context, header string) (*models.Account, error) {
	const op = "upgrade"

	account, err := s.Authenticate(ctx, header)
	if err != nil {
		return nil, rename(op, err)
	}

	quote, err := s.params.ResolveUpgrade(*account)
	if err != nil {
		if errors.Is(err, economy.ErrInsufficientFunds) {
			return nil, fail(KindInsufficientFunds, op, err)
		}
		return nil, s.internal(op, err, "username", account.Username)
	}

	saved, err := s.persist(ctx, op, economy.ApplyUpgrade(*account, quote))
	if err != nil {
		return nil, err
	}

	metrics.RecordUpgrade(quote.Level-account.Level, quote.Cost)
	s.log.Info("account upgraded",
		"username", saved.Username,
		"from_level", account.Level,
		"to_level", saved.Level,
		"cost", quote.Cost)
	return saved, nil
}

// persist writes a changed snapshot. Nothing is written once ctx is done.
func (s *Service) persist(ctx context.Context, op string, account models.Account) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, fail(KindInternal, op, err)
	}
	saved, err := s.accounts.UpdateIfUnchanged(ctx, account)
	if err != nil {
		if errors.Is(err, repo.ErrStaleAccount) {
			metrics.IncStaleWrites(op)
			return nil, fail(KindStale, op, err)
		}
		return nil, s.internal(op, err, "username", account.Username)
	}
	return saved, nil
}

func (s *Service) internal(op string, err error, attrs ...any) *Error {
	s.log.Error(op+" failed", append(attrs, "error", err)...)
	return fail(KindInternal, op, err)
}

func rename(op string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return &Error{Kind: e.Kind, Op: op, Err: e.Err}
	}
	return err
}
