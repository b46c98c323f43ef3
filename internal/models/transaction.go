package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is the stored movement kind.
type TransactionKind string

// Transaction is the database representation of one ledger row. The table
// carries no PIN column; the ledger is append-only.
type Transaction struct {
	TransactionID  string          `db:"transaction_id"`
	SenderPhone    string          `db:"sender_phone"`
	ReceiverPhone  string          `db:"receiver_phone"`
	Amount         decimal.Decimal `db:"amount"`
	Fee            decimal.Decimal `db:"fee"`
	TotalPayAmount decimal.Decimal `db:"total_pay_amount"`
	Kind           TransactionKind `db:"kind"`
	CreatedAt      time.Time       `db:"created_at"`
}
