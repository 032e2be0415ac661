package handlers

import (
	"io"
	"net/http"

	"outbound_backend/internal/models"
	"outbound_backend/internal/services"
	"outbound_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const (
	campaignPasswordHeader = "X-Campaign-Password"
	stripeSignatureHeader  = "Stripe-Signature"
	maxWebhookBody         = int64(1 << 16)
)

// PublicHandler serves everything reachable without a token.
type PublicHandler struct {
	*BaseHandler
	publicService  services.PublicService
	billingService services.BillingService
}

func NewPublicHandler(base *BaseHandler, publicService services.PublicService, billingService services.BillingService) *PublicHandler {
	return &PublicHandler{
		BaseHandler:    base,
		publicService:  publicService,
		billingService: billingService,
	}
}

func (h *PublicHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/l/:slug", h.ViewItem)
	r.GET("/c/:slug", h.ViewCampaign)
	r.POST("/api/stripe/webhook", h.StripeWebhook)
}

func (h *PublicHandler) Health(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{"message": "ok"})
}

func (h *PublicHandler) ViewItem(c *gin.Context) {
	result, err := h.publicService.ViewItem(c.Request.Context(), h.GetDB(c), c.Param("slug"), visitOf(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": result})
}

func (h *PublicHandler) ViewCampaign(c *gin.Context) {
	password := c.GetHeader(campaignPasswordHeader)
	result, err := h.publicService.ViewCampaign(c.Request.Context(), h.GetDB(c), c.Param("slug"), password, visitOf(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": result})
}

// StripeWebhook needs the raw body for signature verification.
func (h *PublicHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Unable to read request body"))
		return
	}

	if err := h.billingService.HandleWebhook(c.Request.Context(), h.GetDB(c), payload, c.GetHeader(stripeSignatureHeader)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"received": true})
}

func visitOf(c *gin.Context) services.Visit {
	return services.Visit{
		Source:    models.ParseViewSource(c.Query("src")),
		UserAgent: c.Request.UserAgent(),
		IP:        c.ClientIP(),
	}
}
