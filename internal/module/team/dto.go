package team

import (
	"strconv"
	"strings"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/view"
)

// UpdateTeamRequest is the edit form and the JSON body of
// PATCH /api/v1/teams/:id.
type UpdateTeamRequest struct {
	Name        string `form:"name" json:"name" binding:"required,max=120"`
	Description string `form:"description" json:"description" binding:"max=5000"`
	Status      string `form:"status" json:"status" binding:"required,oneof=ACTIVE INACTIVE"`
}

func (r UpdateTeamRequest) toDomain() domain.TeamUpdate {
	return domain.TeamUpdate{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		Status:      r.Status,
	}
}

func updateRequestFrom(t *domain.Team) UpdateTeamRequest {
	return UpdateTeamRequest{Name: t.Name, Description: t.Description, Status: t.Status}
}

func statusOptions() []view.Option {
	return []view.Option{
		{Value: domain.TeamActive, Label: "Active"},
		{Value: domain.TeamInactive, Label: "Inactive"},
	}
}

func (r UpdateTeamRequest) fields() []view.Field {
	return []view.Field{
		{Name: "name", Label: "Name", Type: view.FieldText, Value: r.Name, Required: true},
		{Name: "status", Label: "Status", Type: view.FieldSelect, Value: r.Status, Options: statusOptions(), Required: true},
		{Name: "description", Label: "Description", Type: view.FieldTextarea, Value: r.Description, Rich: true},
	}
}

func viewFields(t *domain.Team) []view.Field {
	return append(updateRequestFrom(t).fields(),
		view.Field{Name: "leadName", Label: "Lead", Type: view.FieldText, Value: t.LeadName},
		view.Field{Name: "memberCount", Label: "Members", Type: view.FieldNumber, Value: strconv.Itoa(t.MemberCount)},
		view.Field{Name: "createdAt", Label: "Formed", Type: view.FieldDate, Value: t.CreatedAt.Format("2006-01-02")},
	)
}
