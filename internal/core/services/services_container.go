package services

import (
	"log/slog"

	portsrepo "github.com/pocketpay/pocketpay-backend/internal/core/ports/repositories"
	portssvc "github.com/pocketpay/pocketpay-backend/internal/core/ports/services"
	"github.com/pocketpay/pocketpay-backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The notifier starts its worker here; main owns the matching Close call.
	container.Notifier = NewNotifierService(repos.NotificationRepo, logger, cfg.NotifierQueueSize)

	container.User = NewUserService(cfg, repos.UserRepo)
	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.UserRepo, repos.CashInRepo, container.Notifier)
	container.Token = NewTokenService(cfg)

	return container
}
