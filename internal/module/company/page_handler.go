package company

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/listview"
	"github.com/simp-lee/hyve-admin/internal/pkg"
	"github.com/simp-lee/hyve-admin/internal/session"
	"github.com/simp-lee/hyve-admin/internal/view"
)

const (
	listName = "companies"
	base     = "/companies"
	tableID  = "companies-table"
)

// PageHandler serves the company screens.
type PageHandler struct {
	svc      domain.CompanyService
	lists    *listview.Registry
	defaults listview.Options
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(svc domain.CompanyService, lists *listview.Registry, defaults listview.Options) *PageHandler {
	return &PageHandler{svc: svc, lists: lists, defaults: defaults}
}

func columns() []listview.Column[domain.Company] {
	return []listview.Column[domain.Company]{
		{Key: "name", Header: "Name", Sortable: true, Value: func(co domain.Company) string { return co.Name }},
		{Key: "email", Header: "Contact", Value: func(co domain.Company) string { return co.Email }},
		{Key: "industry", Header: "Industry", Sortable: true, Value: func(co domain.Company) string { return co.Industry }},
		{Key: "size", Header: "Size", Value: func(co domain.Company) string { return co.Size }},
		{Key: "isVerified", Header: "Verified", Render: func(co domain.Company) template.HTML {
			if co.IsVerified {
				return `<span class="badge badge-ok">verified</span>`
			}
			return `<span class="badge">unverified</span>`
		}},
		{Key: "createdAt", Header: "Registered", Sortable: true, Value: func(co domain.Company) string { return co.CreatedAt.Format("2006-01-02") }},
	}
}

func (h *PageHandler) options() listview.Options {
	o := h.defaults
	o.Name = listName
	o.DefaultSort = "createdAt"
	o.DefaultDirection = domain.SortDesc
	o.Searchable = true
	o.EmptyText = "No companies match."
	o.Filters = []listview.Filter{
		{Key: "size", Label: "Size", Kind: listview.FilterSelect, Choices: listview.Choices(domain.CompanySizes...)},
		{Key: "isVerified", Label: "Verification", Kind: listview.FilterSelect, Choices: []listview.Choice{
			{Value: "true", Label: "Verified"},
			{Value: "false", Label: "Unverified"},
		}},
		{Key: "createdAfter", Label: "Registered after", Kind: listview.FilterDate},
	}
	return o
}

func (h *PageHandler) list(c *gin.Context) *listview.Controller[domain.Company] {
	return listview.Lookup(h.lists, session.IDFromContext(c.Request.Context()), listName, func() *listview.Controller[domain.Company] {
		return listview.New(columns(), h.svc.List, h.options())
	})
}

func actions(co domain.Company) []view.Action {
	item := base + "/" + co.ID
	acts := []view.Action{
		{Label: "View", Href: item, Method: http.MethodGet},
		{Label: "Edit", Href: item + "/edit", Method: http.MethodGet},
	}
	if co.IsVerified {
		acts = append(acts, view.Action{Label: "Unverify", Href: item + "/verify", Method: http.MethodDelete})
	} else {
		acts = append(acts, view.Action{Label: "Verify", Href: item + "/verify", Method: http.MethodPost})
	}
	return append(acts, view.Action{Label: "Delete", Href: item + "/delete", Method: http.MethodGet, Confirm: true, Danger: true})
}

// List renders the company index.
// GET /companies
func (h *PageHandler) List(c *gin.Context) {
	view.ListPage(c, h.list(c), "company/list.html", "Companies", view.TableOptions[domain.Company]{
		ID:      tableID,
		Base:    base,
		RowID:   func(co domain.Company) string { return co.ID },
		Actions: actions,
	}, nil)
}

// Show renders the read-only dialog.
// GET /companies/:id
func (h *PageHandler) Show(c *gin.Context) {
	co, ok := h.load(c)
	if !ok {
		return
	}
	view.RenderDialog(c, view.NewDialog(co.Name, base, view.View{ID: co.ID}, viewFields(co)))
}

// New renders the add dialog.
// GET /companies/new
func (h *PageHandler) New(c *gin.Context) {
	view.RenderDialog(c, view.NewDialog("Add company", base, view.Create{}, CreateCompanyRequest{}.fields()))
}

// Create handles the add dialog.
// POST /companies
func (h *PageHandler) Create(c *gin.Context) {
	var req CreateCompanyRequest
	bindErr := c.ShouldBind(&req)
	d := view.NewDialog("Add company", base, view.Create{}, req.fields())
	if bindErr != nil {
		view.FormFailed(c, d, bindErr, &req, "Check the highlighted fields.")
		return
	}
	co, err := h.svc.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		view.FormFailed(c, d, err, &req, "Could not add the company. Try again.")
		return
	}
	slog.InfoContext(c.Request.Context(), "company created", slog.String("id", co.ID))
	view.Done(c, co.Name+" was added.", base)
}

// Edit renders the edit dialog.
// GET /companies/:id/edit
func (h *PageHandler) Edit(c *gin.Context) {
	co, ok := h.load(c)
	if !ok {
		return
	}
	view.RenderDialog(c, view.NewDialog("Edit "+co.Name, base, view.Edit{ID: co.ID}, updateRequestFrom(co).fields()))
}

// Update handles the edit dialog.
// PUT /companies/:id
func (h *PageHandler) Update(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		view.BadRequest(c, "Invalid company id.")
		return
	}
	var req UpdateCompanyRequest
	bindErr := c.ShouldBind(&req)
	d := view.NewDialog("Edit company", base, view.Edit{ID: id}, req.fields())
	if bindErr != nil {
		view.FormFailed(c, d, bindErr, &req, "Check the highlighted fields.")
		return
	}
	co, err := h.svc.Update(c.Request.Context(), id, req.toDomain())
	if err != nil {
		view.FormFailed(c, d, err, &req, "Could not save the company. Try again.")
		return
	}
	view.Done(c, co.Name+" was saved.", base)
}

// Verify marks the company verified.
// POST /companies/:id/verify
func (h *PageHandler) Verify(c *gin.Context) { h.setVerified(c, true) }

// Unverify removes the verified badge.
// DELETE /companies/:id/verify
func (h *PageHandler) Unverify(c *gin.Context) { h.setVerified(c, false) }

func (h *PageHandler) setVerified(c *gin.Context, verified bool) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		view.BadRequest(c, "Invalid company id.")
		return
	}
	co, err := h.svc.SetVerified(c.Request.Context(), id, verified)
	if err != nil {
		view.Fail(c, err, "Could not change the verification. Try again.")
		return
	}
	msg := co.Name + " is now verified."
	if !verified {
		msg = co.Name + " is no longer verified."
	}
	view.Done(c, msg, base)
}

// ConfirmDelete renders the delete confirmation.
// GET /companies/:id/delete
func (h *PageHandler) ConfirmDelete(c *gin.Context) {
	co, ok := h.load(c)
	if !ok {
		return
	}
	view.RenderConfirm(c, view.Confirm{
		Title:   "Delete company",
		Message: "Delete " + co.Name + " and its open projects? This cannot be undone.",
		Action:  base + "/" + co.ID,
		Method:  http.MethodDelete,
		Label:   "Delete",
	})
}

// Delete removes the company.
// DELETE /companies/:id
func (h *PageHandler) Delete(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		view.BadRequest(c, "Invalid company id.")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if domain.IsNotFound(err) {
			err = domain.NewAppError(domain.CodeNotFound, "The company no longer exists.", err)
		}
		view.Fail(c, err, "Could not delete the company. Try again.")
		return
	}
	view.Done(c, "Company deleted.", base)
}

func (h *PageHandler) load(c *gin.Context) (*domain.Company, bool) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		view.BadRequest(c, "Invalid company id.")
		return nil, false
	}
	co, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		view.Fail(c, err, "Could not load the company. Try again.")
		return nil, false
	}
	return co, true
}
