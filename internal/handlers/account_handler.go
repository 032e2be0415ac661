package handlers

import (
	"net/http"

	"outbound_backend/internal/auth"
	"outbound_backend/internal/middleware"
	"outbound_backend/internal/services"
	"outbound_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// AccountHandler covers billing, refunds, security settings and white-label branding.
type AccountHandler struct {
	*BaseHandler
	billingService    services.BillingService
	refundService     services.RefundService
	securityService   services.SecurityService
	whiteLabelService services.WhiteLabelService
}

func NewAccountHandler(
	base *BaseHandler,
	billingService services.BillingService,
	refundService services.RefundService,
	securityService services.SecurityService,
	whiteLabelService services.WhiteLabelService,
) *AccountHandler {
	return &AccountHandler{
		BaseHandler:       base,
		billingService:    billingService,
		refundService:     refundService,
		securityService:   securityService,
		whiteLabelService: whiteLabelService,
	}
}

func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	billing := rg.Group("/billing")
	billing.Use(middleware.Authorize(auth.ResourceBilling, auth.ActionManage))
	{
		billing.POST("/checkout", h.Checkout)
		billing.POST("/portal", h.Portal)
	}

	rg.POST("/refund/request", middleware.Authorize(auth.ResourceRefund, auth.ActionManage), h.RequestRefund)

	security := rg.Group("/security")
	{
		security.GET("/status", h.SecurityStatus)
		security.POST("/2fa/enable", h.EnableTwoFactor)
		security.POST("/2fa/disable", h.DisableTwoFactor)
		security.PUT("/password", h.ChangePassword)
	}

	whiteLabel := rg.Group("/white-label")
	{
		whiteLabel.GET("", middleware.Authorize(auth.ResourceWhiteLabel, auth.ActionRead), h.GetWhiteLabel)
		whiteLabel.PUT("", middleware.Authorize(auth.ResourceWhiteLabel, auth.ActionUpdate), h.UpdateWhiteLabel)
	}
}

// ============================================
// Billing
// ============================================

func (h *AccountHandler) Checkout(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.CheckoutRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	session, err := h.billingService.CreateCheckout(c.Request.Context(), h.GetDB(c), who, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": session})
}

func (h *AccountHandler) Portal(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	session, err := h.billingService.CreatePortal(c.Request.Context(), h.GetDB(c), who)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": session})
}

func (h *AccountHandler) RequestRefund(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.RefundRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	refund, err := h.refundService.RequestRefund(c.Request.Context(), h.GetDB(c), who, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"message": "Refund processed. Your account has been closed.",
		"data":    refund,
	})
}

// ============================================
// Security (always the caller's own account)
// ============================================

func (h *AccountHandler) SecurityStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	status, err := h.securityService.Status(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": status})
}

func (h *AccountHandler) EnableTwoFactor(c *gin.Context) {
	h.setTwoFactor(c, true)
}

func (h *AccountHandler) DisableTwoFactor(c *gin.Context) {
	h.setTwoFactor(c, false)
}

func (h *AccountHandler) setTwoFactor(c *gin.Context, enable bool) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.PasswordConfirmRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	var err error
	message := "Two-factor authentication disabled"
	if enable {
		err = h.securityService.EnableTwoFactor(c.Request.Context(), h.GetDB(c), who, &req)
		message = "Two-factor authentication enabled"
	} else {
		err = h.securityService.DisableTwoFactor(c.Request.Context(), h.GetDB(c), who, &req)
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, message)
}

func (h *AccountHandler) ChangePassword(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.securityService.ChangePassword(c.Request.Context(), h.GetDB(c), who, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Password changed")
}

// ============================================
// White-label
// ============================================

func (h *AccountHandler) GetWhiteLabel(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	branding, err := h.whiteLabelService.Get(h.GetDB(c), who.EffectiveUserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": branding})
}

func (h *AccountHandler) UpdateWhiteLabel(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.WhiteLabelRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	branding, err := h.whiteLabelService.Update(c.Request.Context(), h.GetDB(c), who, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Branding updated", "data": branding})
}
