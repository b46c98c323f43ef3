package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pocketpay/pocketpay-backend/internal/apperrors"
	"github.com/pocketpay/pocketpay-backend/internal/core/domain"
	portsrepo "github.com/pocketpay/pocketpay-backend/internal/core/ports/repositories"
	"github.com/pocketpay/pocketpay-backend/internal/models"
)

type PgxLedgerRepository struct {
	BaseRepository
	userRepo portsrepo.UserRepositoryWithTx
}

// NewPgxLedgerRepository creates the repository backing the ledger mutation
// path. It depends on the user repository for the in-transaction balance
// operations.
func NewPgxLedgerRepository(pool *pgxpool.Pool, userRepo portsrepo.UserRepositoryWithTx) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		userRepo:       userRepo,
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func toModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:  d.TransactionID,
		SenderPhone:    d.SenderPhone,
		ReceiverPhone:  d.ReceiverPhone,
		Amount:         d.Amount,
		Fee:            d.Fee,
		TotalPayAmount: d.TotalPayAmount,
		Kind:           models.TransactionKind(d.Kind),
		CreatedAt:      d.CreatedAt,
	}
}

func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:  m.TransactionID,
		SenderPhone:    m.SenderPhone,
		ReceiverPhone:  m.ReceiverPhone,
		Amount:         m.Amount,
		Fee:            m.Fee,
		TotalPayAmount: m.TotalPayAmount,
		Kind:           domain.TransactionKind(m.Kind),
		CreatedAt:      m.CreatedAt,
	}
}

const insertTransactionQuery = `
	INSERT INTO transactions (transaction_id, sender_phone, receiver_phone, amount, fee, total_pay_amount, kind, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`

// appendInTx locks the affected account rows, applies the balance deltas,
// and inserts the ledger entry, all on the given transaction.
func (r *PgxLedgerRepository) appendInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction, balanceChanges map[string]decimal.Decimal, now time.Time) error {
	phones := make([]string, 0, len(balanceChanges))
	for phone := range balanceChanges {
		phones = append(phones, phone)
	}

	// Lock first so concurrent mutations against the same accounts serialize.
	if _, err := r.userRepo.FindUsersByPhonesForUpdate(ctx, tx, phones); err != nil {
		return fmt.Errorf("failed to lock accounts for transfer: %w", err)
	}

	if err := r.userRepo.UpdateBalancesInTx(ctx, tx, balanceChanges, now); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}

	m := toModelTransaction(txn)
	_, err := tx.Exec(ctx, insertTransactionQuery,
		m.TransactionID,
		m.SenderPhone,
		m.ReceiverPhone,
		m.Amount,
		m.Fee,
		m.TotalPayAmount,
		m.Kind,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// AppendTransfer applies the paired balance increments and appends the
// ledger entry atomically.
func (r *PgxLedgerRepository) AppendTransfer(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	if err := r.appendInTx(ctx, tx, txn, balanceChanges, txn.CreatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// CompleteCashIn transitions the request from pending to completed and, in
// the same transaction, applies the balance deltas and appends the cashIn
// ledger entry. A request that is no longer pending fails with
// apperrors.ErrInvalidState before any balance is touched.
func (r *PgxLedgerRepository) CompleteCashIn(ctx context.Context, requestID string, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// The status guard and the money movement must commit together.
	transitionQuery := `
		UPDATE cash_in_requests
		SET status = $2, last_updated_at = $3
		WHERE request_id = $1 AND status = $4;
	`
	cmdTag, err := tx.Exec(ctx, transitionQuery, requestID, string(domain.CashInCompleted), txn.CreatedAt, string(domain.CashInPending))
	if err != nil {
		return fmt.Errorf("failed to complete cash-in request %s: %w", requestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists int
		checkErr := tx.QueryRow(ctx, `SELECT 1 FROM cash_in_requests WHERE request_id = $1;`, requestID).Scan(&exists)
		if checkErr != nil {
			if errors.Is(checkErr, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to check cash-in request %s: %w", requestID, checkErr)
		}
		return apperrors.ErrInvalidState
	}

	if err := r.appendInTx(ctx, tx, txn, balanceChanges, txn.CreatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindTransactionsByParticipant retrieves ledger entries where the phone is
// either sender or receiver, newest first.
func (r *PgxLedgerRepository) FindTransactionsByParticipant(ctx context.Context, phone string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT transaction_id, sender_phone, receiver_phone, amount, fee, total_pay_amount, kind, created_at
		FROM transactions
		WHERE sender_phone = $1 OR receiver_phone = $1
		ORDER BY created_at DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, phone, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for %s: %w", phone, err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		var m models.Transaction
		err := rows.Scan(
			&m.TransactionID,
			&m.SenderPhone,
			&m.ReceiverPhone,
			&m.Amount,
			&m.Fee,
			&m.TotalPayAmount,
			&m.Kind,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, toDomainTransaction(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}
	return txns, nil
}
