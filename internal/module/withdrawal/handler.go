package withdrawal

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/pkg"
)

// Handler serves the withdrawal JSON API.
type Handler struct {
	svc domain.WithdrawalService
}

// NewHandler creates a Handler.
func NewHandler(svc domain.WithdrawalService) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /api/v1/withdrawals.
func (h *Handler) List(c *gin.Context) {
	q := pkg.ParseListQuery(c, []string{"status", "from", "to"})
	if q.PageSize <= 0 {
		q.PageSize = 25
	}
	result, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, result)
}

// Get handles GET /api/v1/withdrawals/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	w, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, w)
}

// Approve handles POST /api/v1/withdrawals/:id/approve.
func (h *Handler) Approve(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	w, err := h.svc.Approve(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, w)
}

// Reject handles POST /api/v1/withdrawals/:id/reject.
func (h *Handler) Reject(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	var req RejectRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	w, err := h.svc.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, w)
}
