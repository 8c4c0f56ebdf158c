package main

import (
	"log"

	api "salescrm-backend/cmd/api"
	authdomain "salescrm-backend/internal/auth/domain"
	authRepo "salescrm-backend/internal/auth/repository"
	authUsecase "salescrm-backend/internal/auth/usecase"
	crmDelivery "salescrm-backend/internal/crm/delivery"
	crmdomain "salescrm-backend/internal/crm/domain"
	crmRepo "salescrm-backend/internal/crm/repository"
	crmUsecase "salescrm-backend/internal/crm/usecase"
	mailboxDelivery "salescrm-backend/internal/mailbox/delivery"
	mailboxdomain "salescrm-backend/internal/mailbox/domain"
	mailboxRepo "salescrm-backend/internal/mailbox/repository"
	"salescrm-backend/internal/mailbox/scheduler"
	mailboxUsecase "salescrm-backend/internal/mailbox/usecase"
	"salescrm-backend/pkg/ai"
	"salescrm-backend/pkg/config"
	"salescrm-backend/pkg/database"
	"salescrm-backend/pkg/gmail"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{}, &authdomain.RefreshToken{},
		&mailboxdomain.MailboxAccount{}, &mailboxdomain.ProcessedMessage{}, &mailboxdomain.DraftRecord{},
		&crmdomain.Contact{}, &crmdomain.Deal{}, &crmdomain.Activity{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	accountRepo := mailboxRepo.NewAccountRepository(db)
	ledgerRepo := mailboxRepo.NewProcessedMessageRepository(db)
	draftRepo := mailboxRepo.NewDraftRepository(db)
	contactRepo := crmRepo.NewContactRepository(db)
	dealRepo := crmRepo.NewDealRepository(db)
	activityRepo := crmRepo.NewActivityRepository(db)

	// Mailbox provider (Gmail REST)
	gmailService := gmail.NewService()

	// Draft generator; the pipeline runs without it, just with no drafts
	var generator ai.DraftGenerator
	if cfg.GeminiAPIKey != "" {
		generator = ai.NewGeminiService(cfg.GeminiAPIKey)
		log.Println("Gemini draft generation enabled")
	} else {
		log.Println("[WARN] GEMINI_API_KEY not set, reply drafts disabled")
	}

	// Initialize use cases (dependency injection)
	credentialManager := mailboxUsecase.NewCredentialManager(accountRepo, gmailService, cfg)
	if err := credentialManager.ReconcileLegacyAccount(cfg); err != nil {
		log.Printf("[WARN] Legacy account reconciliation failed: %v", err)
	}

	projector := crmUsecase.NewProjector(contactRepo, dealRepo, activityRepo)
	draftOrchestrator := mailboxUsecase.NewDraftOrchestrator(draftRepo, accountRepo, generator, gmailService, credentialManager, cfg.DraftTone)
	syncCoordinator := mailboxUsecase.NewSyncCoordinator(accountRepo, ledgerRepo, gmailService, credentialManager, projector, draftOrchestrator, cfg)

	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, cfg)

	// Start the recurring unread-only sync pass
	syncScheduler := scheduler.NewSyncScheduler(syncCoordinator, cfg.SyncInterval)
	syncScheduler.Start()

	// Initialize HTTP handler
	mailboxHandler := mailboxDelivery.NewMailboxHandler(credentialManager, syncCoordinator, draftOrchestrator, accountRepo, ledgerRepo, cfg)
	crmHandler := crmDelivery.NewCRMHandler(contactRepo, dealRepo, activityRepo)
	handler := api.NewHandler(authUsecaseInstance, mailboxHandler, crmHandler)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
