package services

import (
	"context"

	"github.com/pocketpay/pocketpay-backend/internal/core/domain"
	"github.com/pocketpay/pocketpay-backend/internal/dto"
)

// UserReaderSvc defines read operations for account data
type UserReaderSvc interface {
	// GetUserByPhone retrieves an account by phone number.
	GetUserByPhone(ctx context.Context, phone string) (*domain.User, error)

	// GetRoleByEmail retrieves the account kind for an email address.
	GetRoleByEmail(ctx context.Context, email string) (domain.UserRole, error)

	// ListUsers retrieves a paginated list of accounts.
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
}

// UserWriterSvc defines write operations for account data
type UserWriterSvc interface {
	// RegisterUser creates a new account with a hashed PIN and the initial
	// balance for its kind. Returns apperrors.ErrDuplicate when the phone or
	// email is already taken.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// VerifyUser marks an account verified (admin action). The personal
	// registration bonus is credited only on the first verification.
	VerifyUser(ctx context.Context, phone string) (*domain.User, error)

	// UpdateEmail changes an account's email address.
	UpdateEmail(ctx context.Context, phone string, email string) error
}

// UserLifecycleSvc defines operations for managing account lifecycle
type UserLifecycleSvc interface {
	// DeleteUser removes an account (admin action).
	DeleteUser(ctx context.Context, phone string) error
}

// UserAuthSvc defines operations for account authentication
type UserAuthSvc interface {
	// AuthenticateUser verifies a phone + PIN pair and returns the account.
	// Returns apperrors.ErrUnauthorized on unknown phone or PIN mismatch.
	AuthenticateUser(ctx context.Context, phone, pin string) (*domain.User, error)
}

// UserSvcFacade combines all account-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserLifecycleSvc
	UserAuthSvc
}
