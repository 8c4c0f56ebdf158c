package api

import (
	"net/http"

	"salescrm-backend/internal/auth/delivery"
	authUsecase "salescrm-backend/internal/auth/usecase"
	crmDelivery "salescrm-backend/internal/crm/delivery"
	mailboxDelivery "salescrm-backend/internal/mailbox/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, mailboxHandler *mailboxDelivery.MailboxHandler, crmHandler *crmDelivery.CRMHandler) {
	authHandler := delivery.NewAuthHandler(authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUsecase), authHandler.Me)
		}

		// OAuth redirect target: Google calls this without a JWT
		api.GET("/accounts/connect/callback", mailboxHandler.ConnectCallback)

		// Mailbox account routes (protected)
		accounts := api.Group("/accounts")
		accounts.Use(delivery.AuthMiddleware(authUsecase))
		{
			accounts.GET("", mailboxHandler.ListAccounts)
			accounts.GET("/connect", mailboxHandler.Connect)
			accounts.DELETE("/:id", mailboxHandler.DisconnectAccount)
			accounts.GET("/:id/messages", mailboxHandler.ListProcessedMessages)
		}

		// On-demand sync trigger (protected)
		api.POST("/sync", delivery.AuthMiddleware(authUsecase), mailboxHandler.SyncNow)

		// Draft review routes (protected)
		drafts := api.Group("/drafts")
		drafts.Use(delivery.AuthMiddleware(authUsecase))
		{
			drafts.GET("", mailboxHandler.ListDrafts)
			drafts.POST("/:id/send", mailboxHandler.SendDraft)
			drafts.POST("/:id/discard", mailboxHandler.DiscardDraft)
		}

		// CRM read routes (protected)
		crm := api.Group("")
		crm.Use(delivery.AuthMiddleware(authUsecase))
		{
			crm.GET("/contacts", crmHandler.ListContacts)
			crm.GET("/deals", crmHandler.ListDeals)
			crm.GET("/deals/:id", crmHandler.GetDeal)
			crm.GET("/deals/:id/activities", crmHandler.ListDealActivities)
		}
	}
}
