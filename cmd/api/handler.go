package api

import (
	authUsecase "salescrm-backend/internal/auth/usecase"
	crmDelivery "salescrm-backend/internal/crm/delivery"
	mailboxDelivery "salescrm-backend/internal/mailbox/delivery"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase    authUsecase.AuthUsecase
	mailboxHandler *mailboxDelivery.MailboxHandler
	crmHandler     *crmDelivery.CRMHandler
}

func NewHandler(authUc authUsecase.AuthUsecase, mailboxHandler *mailboxDelivery.MailboxHandler, crmHandler *crmDelivery.CRMHandler) *Handler {
	return &Handler{
		authUsecase:    authUc,
		mailboxHandler: mailboxHandler,
		crmHandler:     crmHandler,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.mailboxHandler, h.crmHandler)

	return r.Run(addr)
}
