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
	"github.com/pocketpay/pocketpay-backend/internal/platform/config"
	"github.com/pocketpay/pocketpay-backend/internal/utils"
)

// UserService handles business logic related to accounts.
type UserService struct {
	userRepo portsrepo.UserRepositoryFacade

	personalBonus decimal.Decimal
	agentBonus    decimal.Decimal
}

// NewUserService creates a new UserService.
func NewUserService(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade) *UserService {
	return &UserService{
		userRepo:      userRepo,
		personalBonus: cfg.PersonalSignupBonus,
		agentBonus:    cfg.AgentSignupBonus,
	}
}

// Ensure UserService implements the portssvc.UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*UserService)(nil)

// RegisterUser creates a new account. Agent accounts start with the agent
// float so they can settle cash-ins immediately; personal accounts start at
// zero and receive their bonus on first admin verification.
func (s *UserService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	pinHash, err := utils.HashPin(req.Pin)
	if err != nil {
		logger.Error("Failed to hash PIN during registration", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash pin: %w", err)
	}

	role := domain.UserRole(req.Role)
	balance := decimal.Zero
	if role == domain.RoleAgent {
		balance = s.agentBonus
	}

	now := time.Now()
	user := domain.User{
		UserID:   uuid.NewString(),
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Role:     role,
		Balance:  balance,
		PinHash:  pinHash,
		Verified: false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Registration rejected, phone or email already taken", slog.String("phone", req.Phone))
			return nil, apperrors.ErrDuplicate
		}
		logger.Error("Failed to save user in repository", slog.String("error", err.Error()), slog.String("phone", req.Phone))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	logger.Info("User registered", slog.String("user_id", user.UserID), slog.String("role", string(role)))
	return &user, nil
}

// AuthenticateUser verifies a phone + PIN pair.
func (s *UserService) AuthenticateUser(ctx context.Context, phone, pin string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Login attempt for unknown phone", slog.String("phone", phone))
			return nil, apperrors.ErrUnauthorized
		}
		logger.Error("Failed to fetch user for authentication", slog.String("error", err.Error()), slog.String("phone", phone))
		return nil, fmt.Errorf("failed to fetch user for authentication: %w", err)
	}

	if !utils.CheckPinHash(pin, user.PinHash) {
		logger.Warn("Login attempt with wrong PIN", slog.String("phone", phone))
		return nil, apperrors.ErrUnauthorized
	}

	return user, nil
}

// GetUserByPhone retrieves an account by phone number.
func (s *UserService) GetUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by phone: %w", err)
	}
	return user, nil
}

// GetRoleByEmail resolves the account kind behind an email address.
func (s *UserService) GetRoleByEmail(ctx context.Context, email string) (domain.UserRole, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to get role by email: %w", err)
	}
	return user.Role, nil
}

// ListUsers retrieves a paginated list of accounts.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		logger.Error("Failed to list users from repository", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// VerifyUser marks an account verified. The first verification of a personal
// account credits the registration bonus; the flipped flag returned by the
// repository guards against crediting twice.
func (s *UserService) VerifyUser(ctx context.Context, phone string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	flipped, err := s.userRepo.MarkVerified(ctx, phone, now)
	if err != nil {
		logger.Error("Failed to mark user verified", slog.String("error", err.Error()), slog.String("phone", phone))
		return nil, fmt.Errorf("failed to verify user %s: %w", phone, err)
	}

	if flipped && user.Role == domain.RolePersonal && s.personalBonus.IsPositive() {
		if err := s.userRepo.IncrementBalance(ctx, phone, s.personalBonus, now); err != nil {
			logger.Error("Failed to credit verification bonus", slog.String("error", err.Error()), slog.String("phone", phone))
			return nil, fmt.Errorf("failed to credit verification bonus for %s: %w", phone, err)
		}
		logger.Info("Verification bonus credited", slog.String("phone", phone), slog.String("amount", s.personalBonus.String()))
	}

	return s.userRepo.FindUserByPhone(ctx, phone)
}

// UpdateEmail changes an account's email address.
func (s *UserService) UpdateEmail(ctx context.Context, phone string, email string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.userRepo.UpdateEmail(ctx, phone, email, time.Now()); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		logger.Error("Failed to update email", slog.String("error", err.Error()), slog.String("phone", phone))
		return fmt.Errorf("failed to update email for %s: %w", phone, err)
	}
	return nil
}

// DeleteUser removes an account.
func (s *UserService) DeleteUser(ctx context.Context, phone string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.userRepo.DeleteUser(ctx, phone); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		logger.Error("Failed to delete user", slog.String("error", err.Error()), slog.String("phone", phone))
		return fmt.Errorf("failed to delete user %s: %w", phone, err)
	}

	logger.Info("User deleted", slog.String("phone", phone))
	return nil
}
