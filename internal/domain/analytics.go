package domain

import (
	"context"
	"time"
)

// AnalyticsRange bounds an analytics query. Both ends are inclusive dates.
type AnalyticsRange struct {
	From time.Time
	To   time.Time
}

// AnalyticsPoint is one day of the platform time series.
type AnalyticsPoint struct {
	Date           string  `json:"date"`
	NewFreelancers int     `json:"newFreelancers"`
	NewProjects    int     `json:"newProjects"`
	Revenue        float64 `json:"revenue"`
}

// AnalyticsOverview is the platform summary shown on the dashboard.
type AnalyticsOverview struct {
	TotalFreelancers    int              `json:"totalFreelancers"`
	VerifiedFreelancers int              `json:"verifiedFreelancers"`
	TotalCompanies      int              `json:"totalCompanies"`
	TotalTeams          int              `json:"totalTeams"`
	TotalProjects       int              `json:"totalProjects"`
	ActiveProjects      int              `json:"activeProjects"`
	PendingWithdrawals  int              `json:"pendingWithdrawals"`
	WithdrawalVolume    float64          `json:"withdrawalVolume"`
	Revenue             float64          `json:"revenue"`
	Series              []AnalyticsPoint `json:"series"`
}

// AnalyticsService is the console's facade over the analytics endpoints.
type AnalyticsService interface {
	Overview(ctx context.Context, r AnalyticsRange) (*AnalyticsOverview, error)
}
