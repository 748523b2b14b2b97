package freelancer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/hyveapi"
)

const basePath = "/admin/freelancers"

// Compile-time check.
var _ domain.FreelancerService = (*Service)(nil)

// Service implements domain.FreelancerService over the HYVE API.
type Service struct {
	api *hyveapi.Client
}

// NewService creates a freelancer Service.
func NewService(api *hyveapi.Client) *Service {
	return &Service{api: api}
}

func itemPath(id string, rest ...string) string {
	return strings.Join(append([]string{basePath, url.PathEscape(id)}, rest...), "/")
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewAppError(domain.CodeValidation, "freelancer id is required", nil)
	}
	return nil
}

// List returns one page of freelancers.
func (s *Service) List(ctx context.Context, q domain.ListQuery) (domain.ListResult[domain.Freelancer], error) {
	return hyveapi.List[domain.Freelancer](ctx, s.api, basePath, q)
}

// Get returns the freelancer with id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Freelancer, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	return hyveapi.Item[domain.Freelancer](ctx, s.api, itemPath(id))
}

// Create registers a single freelancer.
func (s *Service) Create(ctx context.Context, in domain.FreelancerInput) (*domain.Freelancer, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	return hyveapi.Send[domain.Freelancer](ctx, s.api, http.MethodPost, basePath, in)
}

// Update replaces the editable fields of freelancer id.
func (s *Service) Update(ctx context.Context, id string, in domain.FreelancerUpdate) (*domain.Freelancer, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	if in.HourlyRate < 0 {
		return nil, domain.NewAppError(domain.CodeValidation, "hourly rate must not be negative", nil)
	}
	return hyveapi.Send[domain.Freelancer](ctx, s.api, http.MethodPatch, itemPath(id), in)
}

// SetVerified sets or clears the verified badge of freelancer id.
func (s *Service) SetVerified(ctx context.Context, id string, verified bool) (*domain.Freelancer, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	return hyveapi.Send[domain.Freelancer](ctx, s.api, http.MethodPatch, itemPath(id, "verify"), map[string]bool{"isVerified": verified})
}

// Delete removes freelancer id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	_, err := s.api.Delete(ctx, itemPath(id))
	return err
}

// BulkCreate registers rows in one request. Rows failing local checks are
// not sent; they are reported with the API's own failures, all numbered by
// their position in rows.
func (s *Service) BulkCreate(ctx context.Context, rows []domain.FreelancerInput) (*domain.BulkResult, error) {
	if len(rows) == 0 {
		return nil, domain.NewAppError(domain.CodeValidation, "no rows to upload", nil)
	}

	var (
		failed []domain.BulkFailure
		send   []domain.FreelancerInput
		origin []int
	)
	for i, in := range rows {
		if err := validateInput(in); err != nil {
			failed = append(failed, domain.BulkFailure{Row: i + 1, Email: in.Email, Message: domain.UserMessage(err, "invalid row")})
			continue
		}
		send = append(send, in)
		origin = append(origin, i+1)
	}
	if len(send) == 0 {
		return &domain.BulkResult{Failed: failed}, nil
	}

	res, err := hyveapi.Send[domain.BulkResult](ctx, s.api, http.MethodPost, basePath+"/bulk", map[string]any{"freelancers": send})
	if err != nil {
		return nil, err
	}
	for _, f := range res.Failed {
		if f.Row >= 1 && f.Row <= len(origin) {
			f.Row = origin[f.Row-1]
		}
		failed = append(failed, f)
	}
	res.Failed = failed
	return res, nil
}

func validateInput(in domain.FreelancerInput) error {
	switch {
	case strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "":
		return domain.NewAppError(domain.CodeValidation, "first and last name are required", nil)
	case !strings.Contains(in.Email, "@"):
		return domain.NewAppError(domain.CodeValidation, fmt.Sprintf("%q is not a valid email address", in.Email), nil)
	case in.HourlyRate < 0:
		return domain.NewAppError(domain.CodeValidation, "hourly rate must not be negative", nil)
	}
	for _, lvl := range domain.ExperienceLevels {
		if in.ExperienceLevel == lvl {
			return nil
		}
	}
	return domain.NewAppError(domain.CodeValidation, fmt.Sprintf("experience level must be one of %s", strings.Join(domain.ExperienceLevels, ", ")), nil)
}
