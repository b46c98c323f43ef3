package services

import (
	"context"
	"time"
)

// TokenSvcFacade issues the session tokens carried in the httponly cookie.
type TokenSvcFacade interface {
	// GenerateSessionToken creates a signed JWT whose subject is the phone
	// number, returning the token and its expiry time.
	GenerateSessionToken(ctx context.Context, phone string) (string, time.Time, error)
}
