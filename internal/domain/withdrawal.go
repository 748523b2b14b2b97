package domain

import (
	"context"
	"time"
)

// Withdrawal statuses.
const (
	WithdrawalPending  = "PENDING"
	WithdrawalApproved = "APPROVED"
	WithdrawalRejected = "REJECTED"
)

// WithdrawalStatuses lists the status filter choices in display order.
var WithdrawalStatuses = []string{WithdrawalPending, WithdrawalApproved, WithdrawalRejected}

// Withdrawal is a freelancer's payout request.
type Withdrawal struct {
	ID             string     `json:"id"`
	FreelancerID   string     `json:"freelancerId"`
	FreelancerName string     `json:"freelancerName"`
	Amount         float64    `json:"amount"`
	Currency       string     `json:"currency"`
	Method         string     `json:"method"`
	Status         string     `json:"status"`
	Reason         string     `json:"reason,omitempty"`
	RequestedAt    time.Time  `json:"requestedAt"`
	ProcessedAt    *time.Time `json:"processedAt,omitempty"`
}

// IsPending reports whether the withdrawal still awaits a decision.
func (w Withdrawal) IsPending() bool { return w.Status == WithdrawalPending }

// WithdrawalService is the console's facade over the withdrawal endpoints.
type WithdrawalService interface {
	List(ctx context.Context, q ListQuery) (ListResult[Withdrawal], error)
	Get(ctx context.Context, id string) (*Withdrawal, error)
	Approve(ctx context.Context, id string) (*Withdrawal, error)
	Reject(ctx context.Context, id string, reason string) (*Withdrawal, error)
}
