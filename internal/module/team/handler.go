package team

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/pkg"
)

// Handler serves the team JSON API.
type Handler struct {
	svc domain.TeamService
}

// NewHandler creates a Handler.
func NewHandler(svc domain.TeamService) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /api/v1/teams.
func (h *Handler) List(c *gin.Context) {
	q := pkg.ParseListQuery(c, []string{"status"})
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

// Get handles GET /api/v1/teams/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	t, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, t)
}

// Update handles PATCH /api/v1/teams/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	var req UpdateTeamRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	t, err := h.svc.Update(c.Request.Context(), id, req.toDomain())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, t)
}

// Delete handles DELETE /api/v1/teams/:id.
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
