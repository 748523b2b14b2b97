package domain

import (
	"context"
	"time"
)

// Project statuses.
const (
	ProjectOpen       = "OPEN"
	ProjectInProgress = "IN_PROGRESS"
	ProjectCompleted  = "COMPLETED"
	ProjectCancelled  = "CANCELLED"
)

// ProjectStatuses lists the status filter choices in display order.
var ProjectStatuses = []string{ProjectOpen, ProjectInProgress, ProjectCompleted, ProjectCancelled}

// Project is a job posted by a company.
type Project struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CompanyID   string     `json:"companyId"`
	CompanyName string     `json:"companyName"`
	Budget      float64    `json:"budget"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ProjectUpdate is the editable subset of a project.
type ProjectUpdate struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Budget      float64    `json:"budget"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// ProjectService is the console's facade over the project endpoints.
type ProjectService interface {
	List(ctx context.Context, q ListQuery) (ListResult[Project], error)
	Get(ctx context.Context, id string) (*Project, error)
	Update(ctx context.Context, id string, in ProjectUpdate) (*Project, error)
	Delete(ctx context.Context, id string) error
}
