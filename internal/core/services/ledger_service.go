package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketpay/pocketpay-backend/internal/apperrors"
	"github.com/pocketpay/pocketpay-backend/internal/core/domain"
	portsrepo "github.com/pocketpay/pocketpay-backend/internal/core/ports/repositories"
	portssvc "github.com/pocketpay/pocketpay-backend/internal/core/ports/services"
	"github.com/pocketpay/pocketpay-backend/internal/dto"
	"github.com/pocketpay/pocketpay-backend/internal/middleware"
	"github.com/pocketpay/pocketpay-backend/internal/utils"
)

// LedgerService orchestrates the money-movement use cases. Every mutation
// follows the same shape: validate participants and credentials, apply the
// paired balance deltas and append one ledger entry atomically, then notify.
type LedgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
	userRepo   portsrepo.UserRepositoryFacade
	cashInRepo portsrepo.CashInRepositoryFacade
	notifier   portssvc.NotifierSvcFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	cashInRepo portsrepo.CashInRepositoryFacade,
	notifier portssvc.NotifierSvcFacade,
) *LedgerService {
	return &LedgerService{
		ledgerRepo: ledgerRepo,
		userRepo:   userRepo,
		cashInRepo: cashInRepo,
		notifier:   notifier,
	}
}

// Ensure LedgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*LedgerService)(nil)

// validateAmounts rejects non-positive amounts and a total below the nominal
// amount before any account is touched.
func validateAmounts(amount, totalPayAmount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if totalPayAmount.LessThan(amount) {
		return fmt.Errorf("%w: total pay amount must cover the amount", apperrors.ErrValidation)
	}
	return nil
}

// resolveSender fetches the sending account and checks its PIN.
func (s *LedgerService) resolveSender(ctx context.Context, phone, pin string) (*domain.User, error) {
	sender, err := s.userRepo.FindUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidUser
		}
		return nil, fmt.Errorf("failed to fetch sender %s: %w", phone, err)
	}
	if !utils.CheckPinHash(pin, sender.PinHash) {
		return nil, apperrors.ErrWrongPin
	}
	return sender, nil
}

// SendMoney moves req.Amount to the receiver and debits the sender the full
// req.TotalPayAmount. The two increments and the ledger entry commit together.
func (s *LedgerService) SendMoney(ctx context.Context, req dto.SendMoneyRequest) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmounts(req.Amount, req.TotalPayAmount); err != nil {
		return err
	}
	if req.Sender == req.AccountNumber {
		return apperrors.ErrInvalidUser
	}

	receiver, err := s.userRepo.FindUserByPhone(ctx, req.AccountNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Send money to unknown receiver", slog.String("receiver", req.AccountNumber))
			return apperrors.ErrInvalidUser
		}
		return fmt.Errorf("failed to fetch receiver %s: %w", req.AccountNumber, err)
	}

	sender, err := s.resolveSender(ctx, req.Sender, req.Pin)
	if err != nil {
		return err
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID:  uuid.NewString(),
		SenderPhone:    sender.Phone,
		ReceiverPhone:  receiver.Phone,
		Amount:         req.Amount,
		Fee:            req.TotalPayAmount.Sub(req.Amount),
		TotalPayAmount: req.TotalPayAmount,
		Kind:           domain.KindSendMoney,
		CreatedAt:      now,
	}
	balanceChanges := map[string]decimal.Decimal{
		receiver.Phone: req.Amount,
		sender.Phone:   req.TotalPayAmount.Neg(),
	}

	if err := s.ledgerRepo.AppendTransfer(ctx, txn, balanceChanges); err != nil {
		logger.Error("Failed to append send money transfer", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		return fmt.Errorf("failed to send money: %w", err)
	}

	logger.Info("Send money completed", slog.String("transaction_id", txn.TransactionID), slog.String("amount", req.Amount.String()))
	s.notifier.Notify(receiver.Phone, fmt.Sprintf("You received %s from %s", req.Amount.String(), sender.Phone))
	s.notifier.Notify(sender.Phone, fmt.Sprintf("You sent %s to %s", req.Amount.String(), receiver.Phone))
	return nil
}

// CashOut settles a withdrawal through an agent. The target must be an
// existing agent account; the agent is credited the nominal amount and the
// sender pays the fee on top.
func (s *LedgerService) CashOut(ctx context.Context, req dto.CashOutRequest) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmounts(req.Amount, req.TotalPayAmount); err != nil {
		return err
	}
	if req.Sender == req.AccountNumber {
		return apperrors.ErrInvalidAgent
	}

	agent, err := s.userRepo.FindUserByPhoneAndRole(ctx, req.AccountNumber, domain.RoleAgent)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Cash out to non-agent account", slog.String("target", req.AccountNumber))
			return apperrors.ErrInvalidAgent
		}
		return fmt.Errorf("failed to fetch agent %s: %w", req.AccountNumber, err)
	}

	sender, err := s.resolveSender(ctx, req.Sender, req.Pin)
	if err != nil {
		return err
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID:  uuid.NewString(),
		SenderPhone:    sender.Phone,
		ReceiverPhone:  agent.Phone,
		Amount:         req.Amount,
		Fee:            req.TotalPayAmount.Sub(req.Amount),
		TotalPayAmount: req.TotalPayAmount,
		Kind:           domain.KindCashOut,
		CreatedAt:      now,
	}
	balanceChanges := map[string]decimal.Decimal{
		agent.Phone:  req.Amount,
		sender.Phone: req.TotalPayAmount.Neg(),
	}

	if err := s.ledgerRepo.AppendTransfer(ctx, txn, balanceChanges); err != nil {
		logger.Error("Failed to append cash out transfer", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		return fmt.Errorf("failed to cash out: %w", err)
	}

	logger.Info("Cash out completed", slog.String("transaction_id", txn.TransactionID), slog.String("amount", req.Amount.String()))
	s.notifier.Notify(agent.Phone, fmt.Sprintf("Cash out of %s received from %s", req.Amount.String(), sender.Phone))
	s.notifier.Notify(sender.Phone, fmt.Sprintf("You cashed out %s through agent %s", req.Amount.String(), agent.Phone))
	return nil
}

// RequestCashIn records a pending cash-in request addressed to an agent. No
// balance moves until the agent accepts it.
func (s *LedgerService) RequestCashIn(ctx context.Context, req dto.CreateCashInRequest) (*domain.CashInRequest, string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, "", fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	agent, err := s.userRepo.FindUserByPhoneAndRole(ctx, req.AccountNumber, domain.RoleAgent)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Cash in requested from non-agent account", slog.String("target", req.AccountNumber))
			return nil, "", apperrors.ErrInvalidAgent
		}
		return nil, "", fmt.Errorf("failed to fetch agent %s: %w", req.AccountNumber, err)
	}

	requester, err := s.resolveSender(ctx, req.Sender, req.Pin)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	request := domain.CashInRequest{
		RequestID:      uuid.NewString(),
		RequesterPhone: requester.Phone,
		AgentPhone:     agent.Phone,
		Amount:         req.Amount,
		TotalAmount:    req.Amount, // cash in carries no fee
		Status:         domain.CashInPending,
		CreatedAt:      now,
	}

	if err := s.cashInRepo.SaveCashInRequest(ctx, request); err != nil {
		logger.Error("Failed to save cash-in request", slog.String("error", err.Error()), slog.String("request_id", request.RequestID))
		return nil, "", fmt.Errorf("failed to save cash-in request: %w", err)
	}

	logger.Info("Cash-in request created", slog.String("request_id", request.RequestID), slog.String("agent", agent.Phone))
	s.notifier.Notify(agent.Phone, fmt.Sprintf("Cash in request of %s from %s", req.Amount.String(), requester.Phone))
	return &request, agent.Name, nil
}

// AcceptCashIn completes a pending request. The stored request is the source
// of truth for the participants and the amount; the status transition, both
// balance deltas, and the cashIn ledger entry commit in one transaction.
func (s *LedgerService) AcceptCashIn(ctx context.Context, req dto.AcceptCashInRequest) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	request, err := s.cashInRepo.FindCashInRequestByID(ctx, req.RequestID)
	if err != nil {
		return err
	}
	// Only the agent the request is addressed to may settle it.
	if req.AccountNumber != request.AgentPhone {
		logger.Warn("Accept attempted by an account other than the addressed agent",
			slog.String("request_id", request.RequestID), slog.String("caller", req.AccountNumber))
		return apperrors.ErrInvalidAgent
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID:  uuid.NewString(),
		SenderPhone:    request.RequesterPhone,
		ReceiverPhone:  request.AgentPhone,
		Amount:         request.Amount,
		Fee:            decimal.Zero,
		TotalPayAmount: request.TotalAmount,
		Kind:           domain.KindCashIn,
		CreatedAt:      now,
	}
	balanceChanges := map[string]decimal.Decimal{
		request.RequesterPhone: request.Amount,
		request.AgentPhone:     request.Amount.Neg(),
	}

	if err := s.ledgerRepo.CompleteCashIn(ctx, request.RequestID, txn, balanceChanges); err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			logger.Warn("Accept attempted on non-pending cash-in request", slog.String("request_id", request.RequestID))
			return apperrors.ErrInvalidState
		}
		logger.Error("Failed to complete cash-in request", slog.String("error", err.Error()), slog.String("request_id", request.RequestID))
		return fmt.Errorf("failed to accept cash-in request %s: %w", request.RequestID, err)
	}

	logger.Info("Cash-in request completed", slog.String("request_id", request.RequestID), slog.String("amount", request.Amount.String()))
	s.notifier.Notify(request.RequesterPhone, fmt.Sprintf("Your cash in of %s was approved", request.Amount.String()))
	return nil
}

// RejectCashIn transitions a pending request to rejected. Balances are never
// touched on this path.
func (s *LedgerService) RejectCashIn(ctx context.Context, requestID string, agentPhone string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	request, err := s.cashInRepo.FindCashInRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	// Same binding as accept: only the addressed agent may settle.
	if agentPhone != request.AgentPhone {
		logger.Warn("Reject attempted by an account other than the addressed agent",
			slog.String("request_id", requestID), slog.String("caller", agentPhone))
		return apperrors.ErrInvalidAgent
	}

	if err := s.cashInRepo.RejectCashInRequest(ctx, requestID, time.Now()); err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			logger.Warn("Reject attempted on non-pending cash-in request", slog.String("request_id", requestID))
			return apperrors.ErrInvalidState
		}
		logger.Error("Failed to reject cash-in request", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return fmt.Errorf("failed to reject cash-in request %s: %w", requestID, err)
	}

	logger.Info("Cash-in request rejected", slog.String("request_id", requestID))
	s.notifier.Notify(request.RequesterPhone, fmt.Sprintf("Your cash in of %s was rejected", request.Amount.String()))
	return nil
}

// ListPendingCashIn returns the pending requests addressed to an agent, newest first.
func (s *LedgerService) ListPendingCashIn(ctx context.Context, agentPhone string) ([]domain.CashInRequest, error) {
	requests, err := s.cashInRepo.FindPendingRequestsByAgent(ctx, agentPhone)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending cash-in requests for %s: %w", agentPhone, err)
	}
	return requests, nil
}

// ListTransactions returns the ledger entries a phone participated in, newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, phone string, limit int) ([]domain.Transaction, error) {
	txns, err := s.ledgerRepo.FindTransactionsByParticipant(ctx, phone, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for %s: %w", phone, err)
	}
	return txns, nil
}
