package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pocketpay/pocketpay-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UserReader defines read operations for account data
type UserReader interface {
	// FindUserByPhone retrieves an account by its phone number.
	FindUserByPhone(ctx context.Context, phone string) (*domain.User, error)

	// FindUserByEmail retrieves an account by its email address.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByPhoneAndRole retrieves an account only if it has the given role.
	FindUserByPhoneAndRole(ctx context.Context, phone string, role domain.UserRole) (*domain.User, error)

	// FindUsers retrieves a paginated list of accounts.
	FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for account data
type UserWriter interface {
	// SaveUser persists a new account. Phone and email are unique-constrained.
	SaveUser(ctx context.Context, user domain.User) error

	// IncrementBalance applies a relative balance delta to one account.
	// Balances are never overwritten with absolute values.
	IncrementBalance(ctx context.Context, phone string, delta decimal.Decimal, now time.Time) error

	// UpdateEmail changes an account's email address.
	UpdateEmail(ctx context.Context, phone string, email string, now time.Time) error

	// MarkVerified flips the verified flag. Returns true only when the flag
	// actually transitioned from false to true, so callers can gate the
	// one-time verification bonus.
	MarkVerified(ctx context.Context, phone string, now time.Time) (bool, error)

	// DeleteUser removes an account.
	DeleteUser(ctx context.Context, phone string) error
}

// UserTxWriter defines balance operations that run inside a caller-owned
// database transaction, used by the ledger mutation path.
type UserTxWriter interface {
	// FindUsersByPhonesForUpdate retrieves accounts by phone and locks the
	// rows for update. Must be called within a transaction.
	FindUsersByPhonesForUpdate(ctx context.Context, tx pgx.Tx, phones []string) (map[string]domain.User, error)

	// UpdateBalancesInTx applies relative balance deltas (keyed by phone)
	// within a transaction.
	UpdateBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, now time.Time) error
}

// UserRepositoryFacade combines all account-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}

// UserRepositoryWithTx adds the transactional balance operations.
type UserRepositoryWithTx interface {
	UserRepositoryFacade
	UserTxWriter
}
