package domain

import (
	"context"
	"time"
)

// CompanySizes lists the headcount bands offered by the size filter.
var CompanySizes = []string{"1-10", "11-50", "51-200", "201-500", "500+"}

// Company is a hiring company on the marketplace.
type Company struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Industry    string    `json:"industry"`
	Size        string    `json:"size"`
	Website     string    `json:"website"`
	Description string    `json:"description"`
	IsVerified  bool      `json:"isVerified"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CompanyUpdate is the editable subset of a company.
type CompanyUpdate struct {
	Name        string `json:"name"`
	Industry    string `json:"industry,omitempty"`
	Size        string `json:"size,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
}

// CompanyInput registers a company.
type CompanyInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Industry    string `json:"industry,omitempty"`
	Size        string `json:"size,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
}

// CompanyService is the console's facade over the company endpoints.
type CompanyService interface {
	List(ctx context.Context, q ListQuery) (ListResult[Company], error)
	Get(ctx context.Context, id string) (*Company, error)
	Create(ctx context.Context, in CompanyInput) (*Company, error)
	Update(ctx context.Context, id string, in CompanyUpdate) (*Company, error)
	SetVerified(ctx context.Context, id string, verified bool) (*Company, error)
	Delete(ctx context.Context, id string) error
}
