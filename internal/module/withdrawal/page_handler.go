package withdrawal

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/listview"
	"github.com/simp-lee/hyve-admin/internal/pkg"
	"github.com/simp-lee/hyve-admin/internal/session"
	"github.com/simp-lee/hyve-admin/internal/view"
)

const (
	listName = "withdrawals"
	base     = "/withdrawals"
	tableID  = "withdrawals-table"
)

// PageHandler serves the withdrawal screens.
type PageHandler struct {
	svc      domain.WithdrawalService
	lists    *listview.Registry
	defaults listview.Options
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(svc domain.WithdrawalService, lists *listview.Registry, defaults listview.Options) *PageHandler {
	return &PageHandler{svc: svc, lists: lists, defaults: defaults}
}

func statusBadge(w domain.Withdrawal) template.HTML {
	class := "badge"
	switch w.Status {
	case domain.WithdrawalApproved:
		class += " badge-ok"
	case domain.WithdrawalRejected:
		class += " badge-danger"
	}
	return template.HTML(`<span class="` + class + `">` + template.HTMLEscapeString(strings.ToLower(w.Status)) + `</span>`)
}

func columns() []listview.Column[domain.Withdrawal] {
	return []listview.Column[domain.Withdrawal]{
		{Key: "freelancerName", Header: "Freelancer", Value: func(w domain.Withdrawal) string { return w.FreelancerName }},
		{Key: "amount", Header: "Amount", Sortable: true, Value: amount},
		{Key: "method", Header: "Method", Value: func(w domain.Withdrawal) string { return w.Method }},
		{Key: "status", Header: "Status", Render: statusBadge},
		{Key: "requestedAt", Header: "Requested", Sortable: true, Value: func(w domain.Withdrawal) string { return w.RequestedAt.Format("2006-01-02") }},
	}
}

func (h *PageHandler) options() listview.Options {
	o := h.defaults
	o.Name = listName
	o.DefaultSort = "requestedAt"
	o.DefaultDirection = domain.SortDesc
	o.EmptyText = "No withdrawal requests."
	o.Filters = []listview.Filter{
		{Key: "status", Label: "Status", Kind: listview.FilterSelect, Choices: []listview.Choice{
			{Value: domain.WithdrawalPending, Label: "Pending"},
			{Value: domain.WithdrawalApproved, Label: "Approved"},
			{Value: domain.WithdrawalRejected, Label: "Rejected"},
		}},
		{Key: "from", Label: "Requested from", Kind: listview.FilterDate},
		{Key: "to", Label: "Requested until", Kind: listview.FilterDate},
	}
	return o
}

func (h *PageHandler) list(c *gin.Context) *listview.Controller[domain.Withdrawal] {
	return listview.Lookup(h.lists, session.IDFromContext(c.Request.Context()), listName, func() *listview.Controller[domain.Withdrawal] {
		return listview.New(columns(), h.svc.List, h.options())
	})
}

func actions(w domain.Withdrawal) []view.Action {
	item := base + "/" + w.ID
	acts := []view.Action{{Label: "View", Href: item, Method: http.MethodGet}}
	if w.IsPending() {
		acts = append(acts,
			view.Action{Label: "Approve", Href: item + "/approve", Method: http.MethodGet, Confirm: true},
			view.Action{Label: "Reject", Href: item + "/reject", Method: http.MethodGet, Danger: true},
		)
	}
	return acts
}

// List renders the withdrawal queue.
// GET /withdrawals
func (h *PageHandler) List(c *gin.Context) {
	view.ListPage(c, h.list(c), "withdrawal/list.html", "Withdrawals", view.TableOptions[domain.Withdrawal]{
		ID:      tableID,
		Base:    base,
		RowID:   func(w domain.Withdrawal) string { return w.ID },
		Actions: actions,
	}, nil)
}

// Show renders the read-only dialog.
// GET /withdrawals/:id
func (h *PageHandler) Show(c *gin.Context) {
	w, ok := h.load(c)
	if !ok {
		return
	}
	view.RenderDialog(c, view.NewDialog("Withdrawal by "+w.FreelancerName, base, view.View{ID: w.ID}, viewFields(w)))
}

// ConfirmApprove renders the approval confirmation.
// GET /withdrawals/:id/approve
func (h *PageHandler) ConfirmApprove(c *gin.Context) {
	w, ok := h.loadPending(c)
	if !ok {
		return
	}
	view.RenderConfirm(c, view.Confirm{
		Title:   "Approve withdrawal",
		Message: "Pay out " + amount(*w) + " to " + w.FreelancerName + "?",
		Action:  base + "/" + w.ID + "/approve",
		Method:  http.MethodPost,
		Label:   "Approve",
	})
}

// Approve releases the payout.
// POST /withdrawals/:id/approve
func (h *PageHandler) Approve(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		view.BadRequest(c, "Invalid withdrawal id.")
		return
	}
	w, err := h.svc.Approve(c.Request.Context(), id)
	if err != nil {
		view.Fail(c, err, "Could not approve the withdrawal. Try again.")
		return
	}
	slog.InfoContext(c.Request.Context(), "withdrawal approved", slog.String("id", id), slog.String("admin", adminID(c)))
	view.Done(c, "Withdrawal of "+amount(*w)+" approved.", base)
}

func rejectDialog(id string, req RejectRequest) view.Dialog {
	d := view.NewDialog("Reject withdrawal", base+"/"+id+"/reject", view.Create{}, req.fields())
	d.Submit = "Reject"
	return d
}

// RejectForm renders the reason dialog.
// GET /withdrawals/:id/reject
func (h *PageHandler) RejectForm(c *gin.Context) {
	w, ok := h.loadPending(c)
	if !ok {
		return
	}
	view.RenderDialog(c, rejectDialog(w.ID, RejectRequest{}))
}

// Reject declines the withdrawal with the reason from the dialog.
// POST /withdrawals/:id/reject
func (h *PageHandler) Reject(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		view.BadRequest(c, "Invalid withdrawal id.")
		return
	}
	var req RejectRequest
	bindErr := c.ShouldBind(&req)
	d := rejectDialog(id, req)
	if bindErr != nil {
		view.FormFailed(c, d, bindErr, &req, "Give a reason for the rejection.")
		return
	}
	w, err := h.svc.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		view.FormFailed(c, d, err, &req, "Could not reject the withdrawal. Try again.")
		return
	}
	slog.InfoContext(c.Request.Context(), "withdrawal rejected", slog.String("id", id), slog.String("admin", adminID(c)))
	view.Done(c, "Withdrawal of "+amount(*w)+" rejected.", base)
}

func adminID(c *gin.Context) string {
	if s := session.FromContext(c.Request.Context()); s != nil {
		return s.UserID
	}
	return ""
}

func (h *PageHandler) load(c *gin.Context) (*domain.Withdrawal, bool) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		view.BadRequest(c, "Invalid withdrawal id.")
		return nil, false
	}
	w, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		view.Fail(c, err, "Could not load the withdrawal. Try again.")
		return nil, false
	}
	return w, true
}

// loadPending is load for the decision dialogs; a decided withdrawal cannot
// be decided again.
func (h *PageHandler) loadPending(c *gin.Context) (*domain.Withdrawal, bool) {
	w, ok := h.load(c)
	if !ok {
		return nil, false
	}
	if !w.IsPending() {
		view.Fail(c, domain.NewAppError(domain.CodeValidation, "This withdrawal was already "+strings.ToLower(w.Status)+".", nil), "")
		return nil, false
	}
	return w, true
}
