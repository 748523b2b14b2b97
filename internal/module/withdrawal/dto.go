package withdrawal

import (
	"strconv"
	"strings"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/view"
)

// RejectRequest is the reject form and the JSON body of
// POST /api/v1/withdrawals/:id/reject.
type RejectRequest struct {
	Reason string `form:"reason" json:"reason" binding:"required,max=500"`
}

func (r RejectRequest) fields() []view.Field {
	return []view.Field{
		{Name: "reason", Label: "Reason shown to the freelancer", Type: view.FieldTextarea, Value: r.Reason, Required: true},
	}
}

func amount(w domain.Withdrawal) string {
	s := strconv.FormatFloat(w.Amount, 'f', 2, 64)
	if w.Currency != "" {
		s += " " + strings.ToUpper(w.Currency)
	}
	return s
}

func viewFields(w *domain.Withdrawal) []view.Field {
	fields := []view.Field{
		{Name: "freelancerName", Label: "Freelancer", Type: view.FieldText, Value: w.FreelancerName},
		{Name: "amount", Label: "Amount", Type: view.FieldText, Value: amount(*w)},
		{Name: "method", Label: "Payout method", Type: view.FieldText, Value: w.Method},
		{Name: "status", Label: "Status", Type: view.FieldText, Value: strings.ToLower(w.Status)},
		{Name: "requestedAt", Label: "Requested", Type: view.FieldDate, Value: w.RequestedAt.Format("2006-01-02 15:04")},
	}
	if w.ProcessedAt != nil {
		fields = append(fields, view.Field{Name: "processedAt", Label: "Processed", Type: view.FieldDate, Value: w.ProcessedAt.Format("2006-01-02 15:04")})
	}
	if w.Reason != "" {
		fields = append(fields, view.Field{Name: "reason", Label: "Reason", Type: view.FieldTextarea, Value: w.Reason})
	}
	return fields
}
