package analytics

import (
	"strings"
	"time"

	"github.com/simp-lee/hyve-admin/internal/domain"
)

const (
	dateLayout = "2006-01-02"

	// defaultDays is the length of the range shown when none is given.
	defaultDays = 30
	// maxDays bounds a single query.
	maxDays = 366
)

// now is replaced in tests.
var now = time.Now

// RangeRequest is the date range form of the analytics screen.
type RangeRequest struct {
	From string `form:"from" json:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" json:"to" binding:"omitempty,datetime=2006-01-02"`
}

// toDomain resolves the range. A missing end is today and a missing start
// is defaultDays before the end.
func (r RangeRequest) toDomain() (domain.AnalyticsRange, error) {
	today := now().UTC().Truncate(24 * time.Hour)
	out := domain.AnalyticsRange{To: today}
	if s := strings.TrimSpace(r.To); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return out, domain.NewAppError(domain.CodeValidation, "the end date must be YYYY-MM-DD", err)
		}
		out.To = t
	}
	out.From = out.To.AddDate(0, 0, -(defaultDays - 1))
	if s := strings.TrimSpace(r.From); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return out, domain.NewAppError(domain.CodeValidation, "the start date must be YYYY-MM-DD", err)
		}
		out.From = t
	}
	return out, validateRange(out)
}

func validateRange(r domain.AnalyticsRange) error {
	switch {
	case r.From.IsZero() || r.To.IsZero():
		return domain.NewAppError(domain.CodeValidation, "both ends of the date range are required", nil)
	case r.From.After(r.To):
		return domain.NewAppError(domain.CodeValidation, "the start date is after the end date", nil)
	case r.To.Sub(r.From) > maxDays*24*time.Hour:
		return domain.NewAppError(domain.CodeValidation, "the date range may span at most one year", nil)
	}
	return nil
}

func rangeRequestFrom(r domain.AnalyticsRange) RangeRequest {
	return RangeRequest{From: r.From.Format(dateLayout), To: r.To.Format(dateLayout)}
}
