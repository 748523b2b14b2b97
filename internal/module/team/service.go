package team

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/hyveapi"
)

const basePath = "/admin/teams"

var _ domain.TeamService = (*Service)(nil)

// Service implements domain.TeamService over the HYVE API.
type Service struct {
	api *hyveapi.Client
}

// NewService creates a team Service.
func NewService(api *hyveapi.Client) *Service {
	return &Service{api: api}
}

func itemPath(id string) string {
	return basePath + "/" + url.PathEscape(id)
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewAppError(domain.CodeValidation, "team id is required", nil)
	}
	return nil
}

// List returns one page of teams.
func (s *Service) List(ctx context.Context, q domain.ListQuery) (domain.ListResult[domain.Team], error) {
	return hyveapi.List[domain.Team](ctx, s.api, basePath, q)
}

// Get returns the team with id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Team, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	return hyveapi.Item[domain.Team](ctx, s.api, itemPath(id))
}

// Update replaces the editable fields of team id.
func (s *Service) Update(ctx context.Context, id string, in domain.TeamUpdate) (*domain.Team, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "team name is required", nil)
	}
	if !slices.Contains(domain.TeamStatuses, in.Status) {
		return nil, domain.NewAppError(domain.CodeValidation, "team status must be one of "+strings.Join(domain.TeamStatuses, ", "), nil)
	}
	return hyveapi.Send[domain.Team](ctx, s.api, http.MethodPatch, itemPath(id), in)
}

// Delete disbands team id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	_, err := s.api.Delete(ctx, itemPath(id))
	return err
}
