package project

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/hyveapi"
)

const basePath = "/admin/projects"

var _ domain.ProjectService = (*Service)(nil)

// Service implements domain.ProjectService over the HYVE API.
type Service struct {
	api *hyveapi.Client
}

// NewService creates a project Service.
func NewService(api *hyveapi.Client) *Service {
	return &Service{api: api}
}

func itemPath(id string) string {
	return basePath + "/" + url.PathEscape(id)
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewAppError(domain.CodeValidation, "project id is required", nil)
	}
	return nil
}

// List returns one page of projects.
func (s *Service) List(ctx context.Context, q domain.ListQuery) (domain.ListResult[domain.Project], error) {
	return hyveapi.List[domain.Project](ctx, s.api, basePath, q)
}

// Get returns the project with id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Project, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	return hyveapi.Item[domain.Project](ctx, s.api, itemPath(id))
}

// Update replaces the editable fields of project id.
func (s *Service) Update(ctx context.Context, id string, in domain.ProjectUpdate) (*domain.Project, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	switch {
	case strings.TrimSpace(in.Title) == "":
		return nil, domain.NewAppError(domain.CodeValidation, "project title is required", nil)
	case in.Budget < 0:
		return nil, domain.NewAppError(domain.CodeValidation, "budget must not be negative", nil)
	case !slices.Contains(domain.ProjectStatuses, in.Status):
		return nil, domain.NewAppError(domain.CodeValidation, "project status must be one of "+strings.Join(domain.ProjectStatuses, ", "), nil)
	}
	return hyveapi.Send[domain.Project](ctx, s.api, http.MethodPatch, itemPath(id), in)
}

// Delete removes project id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	_, err := s.api.Delete(ctx, itemPath(id))
	return err
}
