package handlers

import (
	"net/http"

	"outbound_backend/internal/auth"
	"outbound_backend/internal/middleware"
	"outbound_backend/internal/services"
	"outbound_backend/internal/services/dto"
	"outbound_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	*BaseHandler
	analyticsService  services.AnalyticsService
	auditService      services.AuditService
	complianceService services.ComplianceService
}

func NewAnalyticsHandler(
	base *BaseHandler,
	analyticsService services.AnalyticsService,
	auditService services.AuditService,
	complianceService services.ComplianceService,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:       base,
		analyticsService:  analyticsService,
		auditService:      auditService,
		complianceService: complianceService,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	analytics := rg.Group("/analytics")
	analytics.Use(middleware.Authorize(auth.ResourceAnalytics, auth.ActionRead))
	{
		analytics.GET("/overview", h.Overview)
		analytics.GET("/items/:id", h.ItemBreakdown)
		analytics.GET("/campaigns/:id", h.CampaignBreakdown)
	}

	rg.GET("/audit", middleware.Authorize(auth.ResourceAudit, auth.ActionRead), h.AuditLog)

	compliance := rg.Group("/compliance")
	compliance.Use(middleware.Authorize(auth.ResourceCompliance, auth.ActionRead))
	{
		compliance.GET("/overview", h.ComplianceOverview)
		compliance.GET("/campaigns/:id", h.CampaignCompliance)
	}
}

// ============================================
// Analytics
// ============================================

func (h *AnalyticsHandler) Overview(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	overview, err := h.analyticsService.Overview(h.GetDB(c), who.EffectiveUserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": overview})
}

func (h *AnalyticsHandler) ItemBreakdown(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	query, ok := h.bindRange(c)
	if !ok {
		return
	}

	breakdown, err := h.analyticsService.ItemBreakdown(h.GetDB(c), who.EffectiveUserID, c.Param("id"), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": breakdown})
}

func (h *AnalyticsHandler) CampaignBreakdown(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	query, ok := h.bindRange(c)
	if !ok {
		return
	}

	breakdown, err := h.analyticsService.CampaignBreakdown(h.GetDB(c), who.EffectiveUserID, c.Param("id"), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": breakdown})
}

func (h *AnalyticsHandler) bindRange(c *gin.Context) (*dto.AnalyticsQuery, bool) {
	var query dto.AnalyticsQuery
	if !h.BindAndValidate_Query(c, &query) {
		return nil, false
	}
	if query.From != nil && query.To != nil && query.From.After(*query.To) {
		apperrors.HandleError(c, apperrors.NewBadRequestError("from cannot be after to"))
		return nil, false
	}
	return &query, true
}

// ============================================
// Audit
// ============================================

func (h *AnalyticsHandler) AuditLog(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var query dto.AuditQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	logs, err := h.auditService.List(h.GetDB(c), who.EffectiveUserID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": logs})
}

// ============================================
// Compliance
// ============================================

func (h *AnalyticsHandler) ComplianceOverview(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	overview, err := h.complianceService.Overview(h.GetDB(c), who.EffectiveUserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": overview})
}

func (h *AnalyticsHandler) CampaignCompliance(c *gin.Context) {
	who, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	report, err := h.complianceService.CampaignReport(h.GetDB(c), who.EffectiveUserID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"data": report})
}
