package company

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/pkg"
)

var listFilters = []string{"size", "isVerified", "createdAfter"}

// Handler serves the company JSON API.
type Handler struct {
	svc domain.CompanyService
}

// NewHandler creates a Handler.
func NewHandler(svc domain.CompanyService) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /api/v1/companies.
func (h *Handler) List(c *gin.Context) {
	q := pkg.ParseListQuery(c, listFilters)
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

// Get handles GET /api/v1/companies/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	co, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, co)
}

// Update handles PATCH /api/v1/companies/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	var req UpdateCompanyRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	co, err := h.svc.Update(c.Request.Context(), id, req.toDomain())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, co)
}

// Verify handles POST /api/v1/companies/:id/verify.
func (h *Handler) Verify(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	var req VerifyRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	co, err := h.svc.SetVerified(c.Request.Context(), id, req.Verified)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, co)
}

// Delete handles DELETE /api/v1/companies/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}
