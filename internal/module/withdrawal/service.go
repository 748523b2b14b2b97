package withdrawal

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/hyveapi"
)

const (
	basePath = "/admin/withdrawals"

	// MaxReasonLength bounds the rejection reason shown to the freelancer.
	MaxReasonLength = 500
)

var _ domain.WithdrawalService = (*Service)(nil)

// Service implements domain.WithdrawalService over the HYVE API.
type Service struct {
	api *hyveapi.Client
}

// NewService creates a withdrawal Service.
func NewService(api *hyveapi.Client) *Service {
	return &Service{api: api}
}

func itemPath(id string, rest ...string) string {
	return strings.Join(append([]string{basePath, url.PathEscape(id)}, rest...), "/")
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewAppError(domain.CodeValidation, "withdrawal id is required", nil)
	}
	return nil
}

// List returns one page of withdrawal requests.
func (s *Service) List(ctx context.Context, q domain.ListQuery) (domain.ListResult[domain.Withdrawal], error) {
	return hyveapi.List[domain.Withdrawal](ctx, s.api, basePath, q)
}

// Get returns the withdrawal with id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Withdrawal, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	return hyveapi.Item[domain.Withdrawal](ctx, s.api, itemPath(id))
}

// Approve releases the payout of withdrawal id.
func (s *Service) Approve(ctx context.Context, id string) (*domain.Withdrawal, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	return hyveapi.Send[domain.Withdrawal](ctx, s.api, http.MethodPost, itemPath(id, "approve"), struct{}{})
}

// Reject declines withdrawal id. The reason is required and sent to the
// freelancer.
func (s *Service) Reject(ctx context.Context, id string, reason string) (*domain.Withdrawal, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	switch {
	case reason == "":
		return nil, domain.NewAppError(domain.CodeValidation, "a rejection reason is required", nil)
	case utf8.RuneCountInString(reason) > MaxReasonLength:
		return nil, domain.NewAppError(domain.CodeValidation, "the rejection reason is too long", nil)
	}
	return hyveapi.Send[domain.Withdrawal](ctx, s.api, http.MethodPost, itemPath(id, "reject"), map[string]string{"reason": reason})
}
