package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserRole is the stored account kind.
type UserRole string

// User is the database representation of an account row.
type User struct {
	UserID        string          `db:"user_id"`
	Name          string          `db:"name"`
	Phone         string          `db:"phone"`
	Email         string          `db:"email"`
	Role          UserRole        `db:"role"`
	Balance       decimal.Decimal `db:"balance"`
	PinHash       string          `db:"pin_hash"`
	Verified      bool            `db:"verified"`
	CreatedAt     time.Time       `db:"created_at"`
	LastUpdatedAt time.Time       `db:"last_updated_at"`
}
