package dto

import (
	"github.com/pocketpay/pocketpay-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RegisterUserRequest is the body of POST /users.
type RegisterUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Pin   string `json:"pin" binding:"required,pocketpay_pin"`
	Role  string `json:"role" binding:"required,oneof=personal agent"`
}

// LoginParams are the query parameters of GET /users.
type LoginParams struct {
	Phone string `form:"phone" binding:"required"`
	Pin   string `form:"pin" binding:"required"`
}

// SessionTokenRequest is the body of POST /jwt.
type SessionTokenRequest struct {
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email"`
}

// UpdateEmailRequest is the body of PATCH /users/:phone/email.
type UpdateEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// UserResponse is the account shape returned to callers. The PIN hash is
// deliberately absent.
type UserResponse struct {
	UserID   string          `json:"userID"`
	Name     string          `json:"name"`
	Phone    string          `json:"phone"`
	Email    string          `json:"email"`
	Role     string          `json:"role"`
	Balance  decimal.Decimal `json:"balance"`
	Verified bool            `json:"verified"`
}

// ToUserResponse converts a domain.User to its response DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:   u.UserID,
		Name:     u.Name,
		Phone:    u.Phone,
		Email:    u.Email,
		Role:     string(u.Role),
		Balance:  u.Balance,
		Verified: u.Verified,
	}
}

// ListUsersParams defines query parameters for listing accounts.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListUsersResponse wraps the list of accounts.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToListUsersResponse converts a slice of domain.User to ListUsersResponse.
func ToListUsersResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{Users: userResponses}
}

// LoginResponse is returned by a successful GET /users.
type LoginResponse struct {
	Message  string       `json:"message"`
	LoggedIn bool         `json:"loggedIn"`
	User     UserResponse `json:"user"`
}
