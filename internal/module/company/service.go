package company

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/hyveapi"
)

const basePath = "/admin/companies"

var _ domain.CompanyService = (*Service)(nil)

// Service implements domain.CompanyService over the HYVE API.
type Service struct {
	api *hyveapi.Client
}

// NewService creates a company Service.
func NewService(api *hyveapi.Client) *Service {
	return &Service{api: api}
}

func itemPath(id string, rest ...string) string {
	return strings.Join(append([]string{basePath, url.PathEscape(id)}, rest...), "/")
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewAppError(domain.CodeValidation, "company id is required", nil)
	}
	return nil
}

// List returns one page of companies.
func (s *Service) List(ctx context.Context, q domain.ListQuery) (domain.ListResult[domain.Company], error) {
	return hyveapi.List[domain.Company](ctx, s.api, basePath, q)
}

// Get returns the company with id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Company, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	return hyveapi.Item[domain.Company](ctx, s.api, itemPath(id))
}

// Create registers a company.
func (s *Service) Create(ctx context.Context, in domain.CompanyInput) (*domain.Company, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "company name is required", nil)
	}
	if !strings.Contains(in.Email, "@") {
		return nil, domain.NewAppError(domain.CodeValidation, "a contact email is required", nil)
	}
	return hyveapi.Send[domain.Company](ctx, s.api, http.MethodPost, basePath, in)
}

// Update replaces the editable fields of company id.
func (s *Service) Update(ctx context.Context, id string, in domain.CompanyUpdate) (*domain.Company, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "company name is required", nil)
	}
	return hyveapi.Send[domain.Company](ctx, s.api, http.MethodPatch, itemPath(id), in)
}

// SetVerified sets or clears the verified badge of company id.
func (s *Service) SetVerified(ctx context.Context, id string, verified bool) (*domain.Company, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	return hyveapi.Send[domain.Company](ctx, s.api, http.MethodPatch, itemPath(id, "verify"), map[string]bool{"isVerified": verified})
}

// Delete removes company id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	_, err := s.api.Delete(ctx, itemPath(id))
	return err
}
