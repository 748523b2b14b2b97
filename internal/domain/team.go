package domain

import (
	"context"
	"time"
)

// Team statuses.
const (
	TeamActive   = "ACTIVE"
	TeamInactive = "INACTIVE"
)

// TeamStatuses lists the status filter choices in display order.
var TeamStatuses = []string{TeamActive, TeamInactive}

// Team is a group of freelancers bidding together.
type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LeadID      string    `json:"leadId"`
	LeadName    string    `json:"leadName"`
	MemberCount int       `json:"memberCount"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TeamUpdate is the editable subset of a team.
type TeamUpdate struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
}

// TeamService is the console's facade over the team endpoints.
type TeamService interface {
	List(ctx context.Context, q ListQuery) (ListResult[Team], error)
	Get(ctx context.Context, id string) (*Team, error)
	Update(ctx context.Context, id string, in TeamUpdate) (*Team, error)
	Delete(ctx context.Context, id string) error
}
