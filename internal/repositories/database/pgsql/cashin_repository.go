package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pocketpay/pocketpay-backend/internal/apperrors"
	"github.com/pocketpay/pocketpay-backend/internal/core/domain"
	portsrepo "github.com/pocketpay/pocketpay-backend/internal/core/ports/repositories"
	"github.com/pocketpay/pocketpay-backend/internal/models"
)

const cashInColumns = "request_id, requester_phone, agent_phone, amount, total_amount, status, created_at, last_updated_at"

type PgxCashInRepository struct {
	BaseRepository
}

// NewPgxCashInRepository creates a new repository for cash-in request data.
func NewPgxCashInRepository(pool *pgxpool.Pool) portsrepo.CashInRepositoryFacade {
	return &PgxCashInRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxCashInRepository implements portsrepo.CashInRepositoryFacade
var _ portsrepo.CashInRepositoryFacade = (*PgxCashInRepository)(nil)

func toModelCashInRequest(d domain.CashInRequest) models.CashInRequest {
	return models.CashInRequest{
		RequestID:      d.RequestID,
		RequesterPhone: d.RequesterPhone,
		AgentPhone:     d.AgentPhone,
		Amount:         d.Amount,
		TotalAmount:    d.TotalAmount,
		Status:         models.CashInStatus(d.Status),
		CreatedAt:      d.CreatedAt,
		LastUpdatedAt:  d.CreatedAt,
	}
}

func toDomainCashInRequest(m models.CashInRequest) domain.CashInRequest {
	return domain.CashInRequest{
		RequestID:      m.RequestID,
		RequesterPhone: m.RequesterPhone,
		AgentPhone:     m.AgentPhone,
		Amount:         m.Amount,
		TotalAmount:    m.TotalAmount,
		Status:         domain.CashInStatus(m.Status),
		CreatedAt:      m.CreatedAt,
	}
}

// SaveCashInRequest persists a new pending request.
func (r *PgxCashInRepository) SaveCashInRequest(ctx context.Context, req domain.CashInRequest) error {
	m := toModelCashInRequest(req)

	query := `
		INSERT INTO cash_in_requests (` + cashInColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RequestID,
		m.RequesterPhone,
		m.AgentPhone,
		m.Amount,
		m.TotalAmount,
		m.Status,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save cash-in request %s: %w", m.RequestID, err)
	}
	return nil
}

// FindCashInRequestByID retrieves a single cash-in request.
func (r *PgxCashInRepository) FindCashInRequestByID(ctx context.Context, requestID string) (*domain.CashInRequest, error) {
	query := `SELECT ` + cashInColumns + ` FROM cash_in_requests WHERE request_id = $1;`

	var m models.CashInRequest
	err := r.Pool.QueryRow(ctx, query, requestID).Scan(
		&m.RequestID,
		&m.RequesterPhone,
		&m.AgentPhone,
		&m.Amount,
		&m.TotalAmount,
		&m.Status,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cash-in request %s: %w", requestID, err)
	}
	d := toDomainCashInRequest(m)
	return &d, nil
}

// FindPendingRequestsByAgent retrieves the pending requests addressed to an
// agent, newest first.
func (r *PgxCashInRepository) FindPendingRequestsByAgent(ctx context.Context, agentPhone string) ([]domain.CashInRequest, error) {
	query := `
		SELECT ` + cashInColumns + `
		FROM cash_in_requests
		WHERE agent_phone = $1 AND status = $2
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, agentPhone, string(domain.CashInPending))
	if err != nil {
		return nil, fmt.Errorf("failed to query pending cash-in requests for %s: %w", agentPhone, err)
	}
	defer rows.Close()

	requests := []domain.CashInRequest{}
	for rows.Next() {
		var m models.CashInRequest
		err := rows.Scan(
			&m.RequestID,
			&m.RequesterPhone,
			&m.AgentPhone,
			&m.Amount,
			&m.TotalAmount,
			&m.Status,
			&m.CreatedAt,
			&m.LastUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash-in request row: %w", err)
		}
		requests = append(requests, toDomainCashInRequest(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating cash-in request rows: %w", rows.Err())
	}
	return requests, nil
}

// RejectCashInRequest transitions a request from pending to rejected. The
// WHERE clause enforces the one-way state machine: a terminal request is
// never touched again.
func (r *PgxCashInRepository) RejectCashInRequest(ctx context.Context, requestID string, now time.Time) error {
	query := `
		UPDATE cash_in_requests
		SET status = $2, last_updated_at = $3
		WHERE request_id = $1 AND status = $4;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, requestID, string(domain.CashInRejected), now, string(domain.CashInPending))
	if err != nil {
		return fmt.Errorf("failed to reject cash-in request %s: %w", requestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		_, findErr := r.FindCashInRequestByID(ctx, requestID)
		if findErr != nil {
			return findErr
		}
		return apperrors.ErrInvalidState
	}
	return nil
}
