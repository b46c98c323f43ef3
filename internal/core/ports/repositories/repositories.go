package repositories

// RepositoryProvider aggregates the repositories handed to the service layer.
type RepositoryProvider struct {
	UserRepo         UserRepositoryWithTx
	LedgerRepo       LedgerRepositoryFacade
	CashInRepo       CashInRepositoryFacade
	NotificationRepo NotificationRepository
}
