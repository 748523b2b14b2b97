package project

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/pkg"
)

// Handler serves the project JSON API.
type Handler struct {
	svc domain.ProjectService
}

// NewHandler creates a Handler.
func NewHandler(svc domain.ProjectService) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /api/v1/projects.
func (h *Handler) List(c *gin.Context) {
	q := pkg.ParseListQuery(c, []string{"status", "deadlineBefore"})
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

// Get handles GET /api/v1/projects/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, p)
}

// Update handles PATCH /api/v1/projects/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	var req UpdateProjectRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Update(c.Request.Context(), id, req.toDomain())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, p)
}

// Delete handles DELETE /api/v1/projects/:id.
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
