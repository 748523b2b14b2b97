package domain

import (
	"context"
	"strings"
	"time"
)

// Experience levels accepted by the HYVE API.
const (
	ExperienceEntry        = "ENTRY"
	ExperienceIntermediate = "INTERMEDIATE"
	ExperienceExpert       = "EXPERT"
)

// ExperienceLevels lists the experience filter choices in display order.
var ExperienceLevels = []string{ExperienceEntry, ExperienceIntermediate, ExperienceExpert}

// Freelancer is a freelancer account on the marketplace.
type Freelancer struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	ExperienceLevel string    `json:"experienceLevel"`
	Skills          []string  `json:"skills"`
	HourlyRate      float64   `json:"hourlyRate"`
	Bio             string    `json:"bio"`
	IsVerified      bool      `json:"isVerified"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FullName joins first and last name.
func (f Freelancer) FullName() string {
	return strings.TrimSpace(f.FirstName + " " + f.LastName)
}

// FreelancerUpdate is the editable subset of a freelancer.
type FreelancerUpdate struct {
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Phone           string   `json:"phone,omitempty"`
	ExperienceLevel string   `json:"experienceLevel"`
	HourlyRate      float64  `json:"hourlyRate"`
	Bio             string   `json:"bio,omitempty"`
	Skills          []string `json:"skills,omitempty"`
}

// FreelancerInput creates a freelancer, alone or as one row of a bulk upload.
type FreelancerInput struct {
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone,omitempty"`
	ExperienceLevel string   `json:"experienceLevel"`
	HourlyRate      float64  `json:"hourlyRate"`
	Skills          []string `json:"skills,omitempty"`
}

// BulkResult reports the outcome of a bulk upload.
type BulkResult struct {
	Created int           `json:"created"`
	Failed  []BulkFailure `json:"failed"`
}

// BulkFailure is a rejected bulk row. Row is 1-based and counts data rows only.
type BulkFailure struct {
	Row     int    `json:"row"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// FreelancerService is the console's facade over the freelancer endpoints.
type FreelancerService interface {
	List(ctx context.Context, q ListQuery) (ListResult[Freelancer], error)
	Get(ctx context.Context, id string) (*Freelancer, error)
	Create(ctx context.Context, in FreelancerInput) (*Freelancer, error)
	Update(ctx context.Context, id string, in FreelancerUpdate) (*Freelancer, error)
	SetVerified(ctx context.Context, id string, verified bool) (*Freelancer, error)
	Delete(ctx context.Context, id string) error
	BulkCreate(ctx context.Context, rows []FreelancerInput) (*BulkResult, error)
}
