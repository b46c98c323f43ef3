package services

import (
	"context"
	"time"

	portssvc "github.com/pocketpay/pocketpay-backend/internal/core/ports/services"
	"github.com/pocketpay/pocketpay-backend/internal/platform/config"
	"github.com/pocketpay/pocketpay-backend/internal/utils"
)

// tokenService issues the session tokens carried in the httponly cookie.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

// Ensure tokenService implements the portssvc.TokenSvcFacade interface
var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateSessionToken creates a signed JWT whose subject is the phone number.
func (s *tokenService) GenerateSessionToken(ctx context.Context, phone string) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)

	token, err := utils.GenerateJWT(phone, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiryTime, nil
}
