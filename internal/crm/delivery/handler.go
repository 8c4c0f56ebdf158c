package delivery

import (
	"net/http"
	"strconv"

	"salescrm-backend/internal/crm/repository"

	"github.com/gin-gonic/gin"
)

// CRMHandler exposes read-only views over the entities the pipeline
// projects. Full CRUD lives in the main CRM surface, not here.
type CRMHandler struct {
	contactRepo  repository.ContactRepository
	dealRepo     repository.DealRepository
	activityRepo repository.ActivityRepository
}

func NewCRMHandler(contactRepo repository.ContactRepository, dealRepo repository.DealRepository, activityRepo repository.ActivityRepository) *CRMHandler {
	return &CRMHandler{
		contactRepo:  contactRepo,
		dealRepo:     dealRepo,
		activityRepo: activityRepo,
	}
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 50
	offset = 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

func (h *CRMHandler) ListContacts(c *gin.Context) {
	limit, offset := pagination(c)
	contacts, err := h.contactRepo.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"contacts": contacts, "limit": limit, "offset": offset})
}

func (h *CRMHandler) ListDeals(c *gin.Context) {
	limit, offset := pagination(c)
	deals, err := h.dealRepo.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deals": deals, "limit": limit, "offset": offset})
}

func (h *CRMHandler) GetDeal(c *gin.Context) {
	deal, err := h.dealRepo.FindByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if deal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
		return
	}

	c.JSON(http.StatusOK, deal)
}

func (h *CRMHandler) ListDealActivities(c *gin.Context) {
	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	activities, err := h.activityRepo.ListByDeal(c.Param("id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"activities": activities})
}
