package project

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/listview"
	"github.com/simp-lee/hyve-admin/internal/pkg"
	"github.com/simp-lee/hyve-admin/internal/session"
	"github.com/simp-lee/hyve-admin/internal/view"
)

const (
	listName = "projects"
	base     = "/projects"
	tableID  = "projects-table"
)

// PageHandler serves the project screens.
type PageHandler struct {
	svc      domain.ProjectService
	lists    *listview.Registry
	defaults listview.Options
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(svc domain.ProjectService, lists *listview.Registry, defaults listview.Options) *PageHandler {
	return &PageHandler{svc: svc, lists: lists, defaults: defaults}
}

func columns() []listview.Column[domain.Project] {
	return []listview.Column[domain.Project]{
		{Key: "title", Header: "Project", Sortable: true, Value: func(p domain.Project) string { return p.Title }},
		{Key: "companyName", Header: "Company", Value: func(p domain.Project) string { return p.CompanyName }},
		{Key: "budget", Header: "Budget", Sortable: true, Value: func(p domain.Project) string { return money(p.Budget) }},
		{Key: "status", Header: "Status", Value: func(p domain.Project) string { return statusLabel(p.Status) }},
		{Key: "deadline", Header: "Deadline", Sortable: true, Value: func(p domain.Project) string {
			if p.Deadline == nil {
				return "-"
			}
			return p.Deadline.Format(dateLayout)
		}},
		{Key: "createdAt", Header: "Posted", Sortable: true, Value: func(p domain.Project) string { return p.CreatedAt.Format(dateLayout) }},
	}
}

func (h *PageHandler) options() listview.Options {
	choices := make([]listview.Choice, 0, len(domain.ProjectStatuses))
	for _, s := range domain.ProjectStatuses {
		choices = append(choices, listview.Choice{Value: s, Label: statusLabel(s)})
	}
	o := h.defaults
	o.Name = listName
	o.DefaultSort = "createdAt"
	o.DefaultDirection = domain.SortDesc
	o.Searchable = true
	o.EmptyText = "No projects match."
	o.Filters = []listview.Filter{
		{Key: "status", Label: "Status", Kind: listview.FilterSelect, Choices: choices},
		{Key: "deadlineBefore", Label: "Due before", Kind: listview.FilterDate},
	}
	return o
}

func (h *PageHandler) list(c *gin.Context) *listview.Controller[domain.Project] {
	return listview.Lookup(h.lists, session.IDFromContext(c.Request.Context()), listName, func() *listview.Controller[domain.Project] {
		return listview.New(columns(), h.svc.List, h.options())
	})
}

func actions(p domain.Project) []view.Action {
	item := base + "/" + p.ID
	return []view.Action{
		{Label: "View", Href: item, Method: http.MethodGet},
		{Label: "Edit", Href: item + "/edit", Method: http.MethodGet},
		{Label: "Delete", Href: item + "/delete", Method: http.MethodGet, Confirm: true, Danger: true},
	}
}

// List renders the project index.
// GET /projects
func (h *PageHandler) List(c *gin.Context) {
	view.ListPage(c, h.list(c), "project/list.html", "Projects", view.TableOptions[domain.Project]{
		ID:      tableID,
		Base:    base,
		RowID:   func(p domain.Project) string { return p.ID },
		Actions: actions,
	}, nil)
}

// Show renders the read-only dialog.
// GET /projects/:id
func (h *PageHandler) Show(c *gin.Context) {
	p, ok := h.load(c)
	if !ok {
		return
	}
	view.RenderDialog(c, view.NewDialog(p.Title, base, view.View{ID: p.ID}, viewFields(p)))
}

// Edit renders the edit dialog.
// GET /projects/:id/edit
func (h *PageHandler) Edit(c *gin.Context) {
	p, ok := h.load(c)
	if !ok {
		return
	}
	view.RenderDialog(c, view.NewDialog("Edit "+p.Title, base, view.Edit{ID: p.ID}, updateRequestFrom(p).fields()))
}

// Update handles the edit dialog.
// PUT /projects/:id
func (h *PageHandler) Update(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		view.BadRequest(c, "Invalid project id.")
		return
	}
	var req UpdateProjectRequest
	bindErr := c.ShouldBind(&req)
	d := view.NewDialog("Edit project", base, view.Edit{ID: id}, req.fields())
	if bindErr != nil {
		view.FormFailed(c, d, bindErr, &req, "Check the highlighted fields.")
		return
	}
	p, err := h.svc.Update(c.Request.Context(), id, req.toDomain())
	if err != nil {
		view.FormFailed(c, d, err, &req, "Could not save the project. Try again.")
		return
	}
	view.Done(c, p.Title+" was saved.", base)
}

// ConfirmDelete renders the delete confirmation.
// GET /projects/:id/delete
func (h *PageHandler) ConfirmDelete(c *gin.Context) {
	p, ok := h.load(c)
	if !ok {
		return
	}
	view.RenderConfirm(c, view.Confirm{
		Title:   "Delete project",
		Message: "Delete " + p.Title + "? Proposals on it are withdrawn.",
		Action:  base + "/" + p.ID,
		Method:  http.MethodDelete,
		Label:   "Delete",
	})
}

// Delete removes the project.
// DELETE /projects/:id
func (h *PageHandler) Delete(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		view.BadRequest(c, "Invalid project id.")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if domain.IsNotFound(err) {
			err = domain.NewAppError(domain.CodeNotFound, "The project no longer exists.", err)
		}
		view.Fail(c, err, "Could not delete the project. Try again.")
		return
	}
	view.Done(c, "Project deleted.", base)
}

func (h *PageHandler) load(c *gin.Context) (*domain.Project, bool) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		view.BadRequest(c, "Invalid project id.")
		return nil, false
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		view.Fail(c, err, "Could not load the project. Try again.")
		return nil, false
	}
	return p, true
}
