package services

import (
	"context"

	"github.com/pocketpay/pocketpay-backend/internal/core/domain"
	"github.com/pocketpay/pocketpay-backend/internal/dto"
)

// LedgerSvcFacade orchestrates the money-movement use cases. Every
// operation shares one shape: validate participants and credentials, apply
// the paired balance deltas, append one immutable ledger entry, notify.
type LedgerSvcFacade interface {
	// SendMoney moves req.Amount to the receiver and debits the sender
	// req.TotalPayAmount (fee included). Fails with apperrors.ErrInvalidUser
	// when the receiver does not exist and apperrors.ErrWrongPin on a PIN
	// mismatch; no partial effect is left behind in either case.
	SendMoney(ctx context.Context, req dto.SendMoneyRequest) error

	// CashOut settles a withdrawal through an agent. Fails with
	// apperrors.ErrInvalidAgent when the target is not an existing agent.
	CashOut(ctx context.Context, req dto.CashOutRequest) error

	// RequestCashIn inserts a pending cash-in request addressed to an agent.
	// Returns the stored request together with the agent's display name.
	RequestCashIn(ctx context.Context, req dto.CreateCashInRequest) (*domain.CashInRequest, string, error)

	// AcceptCashIn completes a pending request: requester is credited,
	// agent debited, one cashIn ledger entry appended with zero fee.
	// Fails with apperrors.ErrInvalidAgent unless req.AccountNumber is the
	// agent the stored request is addressed to, and with
	// apperrors.ErrInvalidState if the request is not pending.
	AcceptCashIn(ctx context.Context, req dto.AcceptCashInRequest) error

	// RejectCashIn transitions a pending request to rejected. No balance
	// effect. agentPhone must be the agent the request is addressed to.
	RejectCashIn(ctx context.Context, requestID string, agentPhone string) error

	// ListPendingCashIn returns the pending requests for an agent, newest first.
	ListPendingCashIn(ctx context.Context, agentPhone string) ([]domain.CashInRequest, error)

	// ListTransactions returns the ledger entries a phone participated in, newest first.
	ListTransactions(ctx context.Context, phone string, limit int) ([]domain.Transaction, error)
}
