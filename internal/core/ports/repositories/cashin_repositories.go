package repositories

import (
	"context"
	"time"

	"github.com/pocketpay/pocketpay-backend/internal/core/domain"
)

// CashInReader defines read operations for cash-in requests
type CashInReader interface {
	// FindCashInRequestByID retrieves a single cash-in request.
	FindCashInRequestByID(ctx context.Context, requestID string) (*domain.CashInRequest, error)

	// FindPendingRequestsByAgent retrieves the pending requests addressed to
	// an agent, newest first.
	FindPendingRequestsByAgent(ctx context.Context, agentPhone string) ([]domain.CashInRequest, error)
}

// CashInWriter defines write operations for cash-in requests
type CashInWriter interface {
	// SaveCashInRequest persists a new pending request.
	SaveCashInRequest(ctx context.Context, req domain.CashInRequest) error

	// RejectCashInRequest transitions a request from pending to rejected.
	// Returns apperrors.ErrInvalidState if the request is not pending.
	RejectCashInRequest(ctx context.Context, requestID string, now time.Time) error
}

// CashInRepositoryFacade combines all cash-in repository interfaces
type CashInRepositoryFacade interface {
	CashInReader
	CashInWriter
}
