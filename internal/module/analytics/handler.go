package analytics

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/pkg"
)

// Handler serves the analytics JSON API.
type Handler struct {
	svc domain.AnalyticsService
}

// NewHandler creates a Handler.
func NewHandler(svc domain.AnalyticsService) *Handler {
	return &Handler{svc: svc}
}

// Overview handles GET /api/v1/analytics/overview.
func (h *Handler) Overview(c *gin.Context) {
	var req RangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		pkg.ValidationError(c, err)
		return
	}
	r, err := req.toDomain()
	if err != nil {
		pkg.Error(c, err)
		return
	}
	ov, err := h.svc.Overview(c.Request.Context(), r)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, ov)
}
