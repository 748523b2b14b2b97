package freelancer

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/pkg"
)

// listFilters are the filter parameters the JSON API forwards.
var listFilters = []string{"experienceLevel", "isVerified"}

// Handler serves the freelancer JSON API.
type Handler struct {
	svc domain.FreelancerService
}

// NewHandler creates a Handler.
func NewHandler(svc domain.FreelancerService) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /api/v1/freelancers.
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

// Get handles GET /api/v1/freelancers/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	f, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, f)
}

// Update handles PATCH /api/v1/freelancers/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	var req UpdateFreelancerRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	f, err := h.svc.Update(c.Request.Context(), id, req.toDomain())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, f)
}

// Verify handles POST /api/v1/freelancers/:id/verify.
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
	f, err := h.svc.SetVerified(c.Request.Context(), id, req.Verified)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, f)
}

// Delete handles DELETE /api/v1/freelancers/:id.
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
