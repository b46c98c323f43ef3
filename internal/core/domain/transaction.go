package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a completed money movement.
type TransactionKind string

const (
	KindSendMoney TransactionKind = "sendMoney"
	KindCashOut   TransactionKind = "cashOut"
	KindCashIn    TransactionKind = "cashIn"
)

// Transaction is one immutable ledger entry. Once appended it is never
// updated or deleted. The originating request's PIN is intentionally not
// part of this type, so it can never be persisted.
type Transaction struct {
	TransactionID  string          `json:"transactionID"`
	SenderPhone    string          `json:"sender"`
	ReceiverPhone  string          `json:"accountNumber"`
	Amount         decimal.Decimal `json:"amount"`
	Fee            decimal.Decimal `json:"fee"`
	TotalPayAmount decimal.Decimal `json:"totalPayAmount"`
	Kind           TransactionKind `json:"type"`
	CreatedAt      time.Time       `json:"createdAt"`
}
