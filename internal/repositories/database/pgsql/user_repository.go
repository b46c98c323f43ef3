package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pocketpay/pocketpay-backend/internal/apperrors"
	"github.com/pocketpay/pocketpay-backend/internal/core/domain"
	portsrepo "github.com/pocketpay/pocketpay-backend/internal/core/ports/repositories"
	"github.com/pocketpay/pocketpay-backend/internal/models"
)

const userColumns = "user_id, name, phone, email, role, balance, pin_hash, verified, created_at, last_updated_at"

type PgxUserRepository struct {
	BaseRepository
}

// NewPgxUserRepository creates a new repository for account data.
func NewPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryWithTx {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryWithTx
var _ portsrepo.UserRepositoryWithTx = (*PgxUserRepository)(nil)

// Helper to convert domain.User to models.User for DB storage
func toModelUser(d domain.User) models.User {
	return models.User{
		UserID:        d.UserID,
		Name:          d.Name,
		Phone:         d.Phone,
		Email:         d.Email,
		Role:          models.UserRole(d.Role),
		Balance:       d.Balance,
		PinHash:       d.PinHash,
		Verified:      d.Verified,
		CreatedAt:     d.CreatedAt,
		LastUpdatedAt: d.LastUpdatedAt,
	}
}

// Helper to convert models.User from DB to domain.User
func toDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:   m.UserID,
		Name:     m.Name,
		Phone:    m.Phone,
		Email:    m.Email,
		Role:     domain.UserRole(m.Role),
		Balance:  m.Balance,
		PinHash:  m.PinHash,
		Verified: m.Verified,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Name,
		&m.Phone,
		&m.Email,
		&m.Role,
		&m.Balance,
		&m.PinHash,
		&m.Verified,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	d := toDomainUser(m)
	return &d, nil
}

// SaveUser inserts a new account. Phone and email carry unique constraints;
// a violation surfaces as apperrors.ErrDuplicate.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := toModelUser(user)

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.UserID,
		m.Name,
		m.Phone,
		m.Email,
		m.Role,
		m.Balance,
		m.PinHash,
		m.Verified,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: phone or email already registered", apperrors.ErrDuplicate)
			}
		}
		return fmt.Errorf("failed to save user %s: %w", m.Phone, err)
	}
	return nil
}

// FindUserByPhone retrieves an account by phone number.
func (r *PgxUserRepository) FindUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1;`
	user, err := scanUser(r.Pool.QueryRow(ctx, query, phone))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by phone %s: %w", phone, err)
	}
	return user, nil
}

// FindUserByEmail retrieves an account by email address.
func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	user, err := scanUser(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email %s: %w", email, err)
	}
	return user, nil
}

// FindUserByPhoneAndRole retrieves an account only if it has the given role.
func (r *PgxUserRepository) FindUserByPhoneAndRole(ctx context.Context, phone string, role domain.UserRole) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1 AND role = $2;`
	user, err := scanUser(r.Pool.QueryRow(ctx, query, phone, string(role)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by phone %s and role %s: %w", phone, role, err)
	}
	return user, nil
}

// FindUsers retrieves a paginated list of accounts ordered by creation time.
func (r *PgxUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var m models.User
		err := rows.Scan(
			&m.UserID,
			&m.Name,
			&m.Phone,
			&m.Email,
			&m.Role,
			&m.Balance,
			&m.PinHash,
			&m.Verified,
			&m.CreatedAt,
			&m.LastUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, toDomainUser(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", rows.Err())
	}
	return users, nil
}

// IncrementBalance applies a relative balance delta to one account.
func (r *PgxUserRepository) IncrementBalance(ctx context.Context, phone string, delta decimal.Decimal, now time.Time) error {
	query := `
		UPDATE users
		SET balance = COALESCE(balance, 0) + $2, last_updated_at = $3
		WHERE phone = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, phone, delta, now)
	if err != nil {
		return fmt.Errorf("failed to increment balance for %s: %w", phone, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateEmail changes an account's email address.
func (r *PgxUserRepository) UpdateEmail(ctx context.Context, phone string, email string, now time.Time) error {
	query := `
		UPDATE users
		SET email = $2, last_updated_at = $3
		WHERE phone = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, phone, email, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update email for %s: %w", phone, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkVerified flips the verified flag. The WHERE clause guards the
// transition so the verification bonus can only be credited once.
func (r *PgxUserRepository) MarkVerified(ctx context.Context, phone string, now time.Time) (bool, error) {
	query := `
		UPDATE users
		SET verified = TRUE, last_updated_at = $2
		WHERE phone = $1 AND verified = FALSE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, phone, now)
	if err != nil {
		return false, fmt.Errorf("failed to mark user %s verified: %w", phone, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either the account doesn't exist or it was already verified.
		_, findErr := r.FindUserByPhone(ctx, phone)
		if findErr != nil {
			return false, findErr
		}
		return false, nil
	}
	return true, nil
}

// DeleteUser removes an account.
func (r *PgxUserRepository) DeleteUser(ctx context.Context, phone string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM users WHERE phone = $1;`, phone)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", phone, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindUsersByPhonesForUpdate retrieves accounts by phone and locks the rows
// for update. Must be called within a transaction.
func (r *PgxUserRepository) FindUsersByPhonesForUpdate(ctx context.Context, tx pgx.Tx, phones []string) (map[string]domain.User, error) {
	if len(phones) == 0 {
		return map[string]domain.User{}, nil
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE phone = ANY($1)
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, phones)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by phones for update: %w", err)
	}
	defer rows.Close()

	usersMap := make(map[string]domain.User)
	for rows.Next() {
		var m models.User
		err := rows.Scan(
			&m.UserID,
			&m.Name,
			&m.Phone,
			&m.Email,
			&m.Role,
			&m.Balance,
			&m.PinHash,
			&m.Verified,
			&m.CreatedAt,
			&m.LastUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked user row: %w", err)
		}
		usersMap[m.Phone] = toDomainUser(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked user rows: %w", err)
	}

	if len(usersMap) != len(phones) {
		missing := []string{}
		for _, phone := range phones {
			if _, found := usersMap[phone]; !found {
				missing = append(missing, phone)
			}
		}
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
	}

	return usersMap, nil
}

// UpdateBalancesInTx applies relative balance deltas within a transaction.
func (r *PgxUserRepository) UpdateBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, now time.Time) error {
	if len(balanceChanges) == 0 {
		return nil
	}

	query := `
		UPDATE users
		SET balance = COALESCE(balance, 0) + $2, last_updated_at = $3
		WHERE phone = $1;
	`

	batch := &pgx.Batch{}
	phones := make([]string, 0, len(balanceChanges))
	for phone, delta := range balanceChanges {
		if !delta.IsZero() {
			batch.Queue(query, phone, delta, now)
			phones = append(phones, phone)
		}
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update balance for account %s: %w", phones[i], err)
			}
		} else if ct.RowsAffected() == 0 {
			if batchErr == nil {
				batchErr = fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, phones[i])
			}
		}
	}

	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", err)
	}

	return batchErr
}
