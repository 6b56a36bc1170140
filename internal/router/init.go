package router

import (
	"github.com/yourrightpocket/charityround/internal/application"
	"github.com/yourrightpocket/charityround/internal/container"
	pginfra "github.com/yourrightpocket/charityround/internal/infrastructure/postgres"
	handlers "github.com/yourrightpocket/charityround/internal/interface/http"
	"github.com/yourrightpocket/charityround/internal/router/modules"
)

// BuildLedgerService wires the full money-flow service from container
// singletons. Shared with the queue workers.
func BuildLedgerService() *application.LedgerService {
	pool := container.GetPGPool()
	return &application.LedgerService{
		Balances:     pginfra.NewBalanceRepository(pool),
		Transactions: pginfra.NewTransactionRepository(pool),
		Donations:    pginfra.NewDonationRepository(pool),
		Settings:     pginfra.NewSettingsRepository(pool),
		Prefs:        pginfra.NewPreferenceRepository(pool),
		Orgs:         pginfra.NewOrganizationRepository(pool),
		Liked:        pginfra.NewUserOrganizationRepository(pool),
		Users:        pginfra.NewUserRepository(pool),
		Receipts:     container.GetReceiptsPub(),
		Logger:       container.GetLogger(),
	}
}

// InitModules builds every feature module and registers it with the
// router registry. Called once during API startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	jwt := container.GetJWT()

	users := pginfra.NewUserRepository(pool)
	authSvc := application.NewAuthService(users, jwt, logger)
	authHandler := handlers.NewAuthHandler(authSvc, logger)

	ledgerSvc := BuildLedgerService()
	txnHandler := handlers.NewTransactionHandler(ledgerSvc, container.GetTxnPub(), logger)
	donationHandler := handlers.NewDonationHandler(ledgerSvc, logger)

	dashboardSvc := &application.DashboardService{
		Dashboard:    pginfra.NewDashboardRepository(pool),
		Balances:     pginfra.NewBalanceRepository(pool),
		Settings:     pginfra.NewSettingsRepository(pool),
		Orgs:         pginfra.NewOrganizationRepository(pool),
		Donations:    pginfra.NewDonationRepository(pool),
		Transactions: pginfra.NewTransactionRepository(pool),
		Logger:       logger,
	}
	dashboardHandler := handlers.NewDashboardHandler(dashboardSvc, logger)

	orgSvc := &application.OrganizationService{
		Orgs:      pginfra.NewOrganizationRepository(pool),
		Directory: container.GetDirectory(),
		Redis:     container.GetRedis(),
		CacheTTL:  cfg.DirectoryCacheTTL,
		Logger:    logger,
	}
	orgHandler := handlers.NewOrganizationHandler(orgSvc, logger)

	likedSvc := &application.LikedOrganizationService{
		Liked:  pginfra.NewUserOrganizationRepository(pool),
		Orgs:   pginfra.NewOrganizationRepository(pool),
		Prefs:  pginfra.NewPreferenceRepository(pool),
		Logger: logger,
	}
	likedHandler := handlers.NewUserOrganizationHandler(likedSvc, logger)

	settingsSvc := &application.SettingsService{
		Settings: pginfra.NewSettingsRepository(pool),
		Accounts: pginfra.NewBankAccountRepository(pool),
		Logger:   logger,
	}
	settingsHandler := handlers.NewSettingsHandler(settingsSvc, logger)

	r.Add(modules.NewAuthModule(authHandler, jwt))
	r.Add(modules.NewLedgerModule(txnHandler, donationHandler, dashboardHandler, jwt))
	r.Add(modules.NewOrganizationModule(orgHandler, likedHandler, jwt))
	r.Add(modules.NewSettingsModule(settingsHandler, jwt))
}
