package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	zakatapp "github.com/nokib-web/expensetracker/internal/application/zakat"
)

// ZakatHandler handles zakat endpoints: summary, assets, settings and payments
type ZakatHandler struct {
	BaseHandler
	zakatService *zakatapp.Service
}

// NewZakatHandler creates a new ZakatHandler
func NewZakatHandler(zakatService *zakatapp.Service) *ZakatHandler {
	return &ZakatHandler{zakatService: zakatService}
}

// Summary returns the freshly computed zakat summary with payment history
func (h *ZakatHandler) Summary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	summary, err := h.zakatService.GetSummary(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// CreateAsset declares a zakatable asset
func (h *ZakatHandler) CreateAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req zakatapp.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	asset, err := h.zakatService.CreateAsset(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, asset)
}

// ListAssets returns the user's assets grouped by source
func (h *ZakatHandler) ListAssets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	assets, err := h.zakatService.ListAssets(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, assets)
}

// UpdateAsset updates an asset
func (h *ZakatHandler) UpdateAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid asset ID format")
		return
	}

	var req zakatapp.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	asset, err := h.zakatService.UpdateAsset(c.Request.Context(), userID, assetID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, asset)
}

// DeleteAsset deletes an asset
func (h *ZakatHandler) DeleteAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid asset ID format")
		return
	}

	if err := h.zakatService.DeleteAsset(c.Request.Context(), userID, assetID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, nil)
}

// GetSettings returns the user's zakat settings
func (h *ZakatHandler) GetSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	settings, err := h.zakatService.GetSettings(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, settings)
}

// UpdateSettings upserts the user's zakat settings
func (h *ZakatHandler) UpdateSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req zakatapp.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	settings, err := h.zakatService.UpdateSettings(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, settings)
}

// ListPayments returns payments grouped by calendar year
func (h *ZakatHandler) ListPayments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	payments, err := h.zakatService.ListPayments(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payments)
}

// Pay records a payment and returns it with the recomputed summary
func (h *ZakatHandler) Pay(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req zakatapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.zakatService.RecordPayment(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}
