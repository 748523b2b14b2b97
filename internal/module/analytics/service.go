package analytics

import (
	"context"
	"net/url"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/hyveapi"
)

const overviewPath = "/admin/analytics/overview"

var _ domain.AnalyticsService = (*Service)(nil)

// Service implements domain.AnalyticsService over the HYVE API.
type Service struct {
	api *hyveapi.Client
}

// NewService creates an analytics Service.
func NewService(api *hyveapi.Client) *Service {
	return &Service{api: api}
}

// Overview returns the platform summary for r.
func (s *Service) Overview(ctx context.Context, r domain.AnalyticsRange) (*domain.AnalyticsOverview, error) {
	if err := validateRange(r); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("from", r.From.Format(dateLayout))
	q.Set("to", r.To.Format(dateLayout))
	body, err := s.api.Get(ctx, overviewPath, q)
	if err != nil {
		return nil, err
	}
	return hyveapi.DecodeItem[domain.AnalyticsOverview](body)
}
