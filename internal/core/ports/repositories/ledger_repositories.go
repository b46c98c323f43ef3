package repositories

import (
	"context"

	"github.com/pocketpay/pocketpay-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations over the ledger
type TransactionReader interface {
	// FindTransactionsByParticipant retrieves ledger entries where the phone
	// is either sender or receiver, newest first.
	FindTransactionsByParticipant(ctx context.Context, phone string, limit int) ([]domain.Transaction, error)
}

// LedgerWriter defines the append-only mutation path of the ledger.
// Both methods run inside a single database transaction: the affected
// account rows are locked, the balance deltas applied, and the immutable
// ledger entry inserted, so a mutation either lands whole or not at all.
type LedgerWriter interface {
	// AppendTransfer applies the paired balance increments in balanceChanges
	// (keyed by phone) and appends the ledger entry atomically.
	AppendTransfer(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error

	// CompleteCashIn transitions the named cash-in request from pending to
	// completed and, in the same transaction, applies the balance deltas and
	// appends the cashIn ledger entry. Returns apperrors.ErrInvalidState if
	// the request is not currently pending.
	CompleteCashIn(ctx context.Context, requestID string, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error
}

// LedgerRepositoryFacade combines ledger read and write interfaces
type LedgerRepositoryFacade interface {
	TransactionReader
	LedgerWriter
}
