package project

import (
	"strconv"
	"strings"
	"time"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/view"
)

const dateLayout = "2006-01-02"

// UpdateProjectRequest is the edit form and the JSON body of
// PATCH /api/v1/projects/:id.
type UpdateProjectRequest struct {
	Title       string  `form:"title" json:"title" binding:"required,max=200"`
	Description string  `form:"description" json:"description" binding:"max=10000"`
	Budget      float64 `form:"budget" json:"budget" binding:"gte=0"`
	Status      string  `form:"status" json:"status" binding:"required,oneof=OPEN IN_PROGRESS COMPLETED CANCELLED"`
	// Deadline is a YYYY-MM-DD date; empty clears it.
	Deadline string `form:"deadline" json:"deadline" binding:"omitempty,datetime=2006-01-02"`
}

func (r UpdateProjectRequest) toDomain() domain.ProjectUpdate {
	u := domain.ProjectUpdate{
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Budget:      r.Budget,
		Status:      r.Status,
	}
	if d, err := time.Parse(dateLayout, r.Deadline); err == nil {
		u.Deadline = &d
	}
	return u
}

func updateRequestFrom(p *domain.Project) UpdateProjectRequest {
	r := UpdateProjectRequest{Title: p.Title, Description: p.Description, Budget: p.Budget, Status: p.Status}
	if p.Deadline != nil {
		r.Deadline = p.Deadline.Format(dateLayout)
	}
	return r
}

func statusLabel(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", " ")
}

func statusOptions() []view.Option {
	opts := make([]view.Option, 0, len(domain.ProjectStatuses))
	for _, s := range domain.ProjectStatuses {
		opts = append(opts, view.Option{Value: s, Label: statusLabel(s)})
	}
	return opts
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (r UpdateProjectRequest) fields() []view.Field {
	return []view.Field{
		{Name: "title", Label: "Title", Type: view.FieldText, Value: r.Title, Required: true},
		{Name: "status", Label: "Status", Type: view.FieldSelect, Value: r.Status, Options: statusOptions(), Required: true},
		{Name: "budget", Label: "Budget", Type: view.FieldNumber, Value: money(r.Budget)},
		{Name: "deadline", Label: "Deadline", Type: view.FieldDate, Value: r.Deadline},
		{Name: "description", Label: "Description", Type: view.FieldTextarea, Value: r.Description, Rich: true},
	}
}

func viewFields(p *domain.Project) []view.Field {
	return append([]view.Field{
		{Name: "companyName", Label: "Company", Type: view.FieldText, Value: p.CompanyName},
	}, append(updateRequestFrom(p).fields(),
		view.Field{Name: "createdAt", Label: "Posted", Type: view.FieldDate, Value: p.CreatedAt.Format(dateLayout)},
	)...)
}
