package domain

import "github.com/shopspring/decimal"

// UserRole is the account kind of a PocketPay user.
type UserRole string

const (
	RolePersonal UserRole = "personal"
	RoleAgent    UserRole = "agent"
	RoleAdmin    UserRole = "admin"
)

// User represents a PocketPay account in the domain.
// Phone and Email are each globally unique; Phone doubles as the account
// number every money movement addresses.
type User struct {
	UserID   string          `json:"userID"`
	Name     string          `json:"name"`
	Phone    string          `json:"phone"`
	Email    string          `json:"email"`
	Role     UserRole        `json:"role"`
	Balance  decimal.Decimal `json:"balance"`
	PinHash  string          `json:"-"` // bcrypt hash of the secret PIN, never serialized
	Verified bool            `json:"verified"`
	AuditFields
}
