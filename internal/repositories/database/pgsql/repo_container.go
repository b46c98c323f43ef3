package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/pocketpay/pocketpay-backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := NewPgxUserRepository(dbPool)
	ledgerRepo := NewPgxLedgerRepository(dbPool, userRepo)
	cashInRepo := NewPgxCashInRepository(dbPool)
	notificationRepo := NewPgxNotificationRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:         userRepo,
		LedgerRepo:       ledgerRepo,
		CashInRepo:       cashInRepo,
		NotificationRepo: notificationRepo,
	}
}
