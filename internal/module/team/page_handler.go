package team

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/listview"
	"github.com/simp-lee/hyve-admin/internal/pkg"
	"github.com/simp-lee/hyve-admin/internal/session"
	"github.com/simp-lee/hyve-admin/internal/view"
)

const (
	listName = "teams"
	base     = "/teams"
	tableID  = "teams-table"
)

// PageHandler serves the team screens.
type PageHandler struct {
	svc      domain.TeamService
	lists    *listview.Registry
	defaults listview.Options
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(svc domain.TeamService, lists *listview.Registry, defaults listview.Options) *PageHandler {
	return &PageHandler{svc: svc, lists: lists, defaults: defaults}
}

func columns() []listview.Column[domain.Team] {
	return []listview.Column[domain.Team]{
		{Key: "name", Header: "Team", Sortable: true, Value: func(t domain.Team) string { return t.Name }},
		{Key: "leadName", Header: "Lead", Value: func(t domain.Team) string { return t.LeadName }},
		{Key: "memberCount", Header: "Members", Sortable: true, Value: func(t domain.Team) string { return strconv.Itoa(t.MemberCount) }},
		{Key: "status", Header: "Status", Value: func(t domain.Team) string { return t.Status }},
		{Key: "createdAt", Header: "Formed", Sortable: true, Value: func(t domain.Team) string { return t.CreatedAt.Format("2006-01-02") }},
	}
}

func (h *PageHandler) options() listview.Options {
	o := h.defaults
	o.Name = listName
	o.DefaultSort = "createdAt"
	o.DefaultDirection = domain.SortDesc
	o.Searchable = true
	o.EmptyText = "No teams yet."
	o.Filters = []listview.Filter{
		{Key: "status", Label: "Status", Kind: listview.FilterSelect, Choices: []listview.Choice{
			{Value: domain.TeamActive, Label: "Active"},
			{Value: domain.TeamInactive, Label: "Inactive"},
		}},
	}
	return o
}

func (h *PageHandler) list(c *gin.Context) *listview.Controller[domain.Team] {
	return listview.Lookup(h.lists, session.IDFromContext(c.Request.Context()), listName, func() *listview.Controller[domain.Team] {
		return listview.New(columns(), h.svc.List, h.options())
	})
}

func actions(t domain.Team) []view.Action {
	item := base + "/" + t.ID
	return []view.Action{
		{Label: "View", Href: item, Method: http.MethodGet},
		{Label: "Edit", Href: item + "/edit", Method: http.MethodGet},
		{Label: "Delete", Href: item + "/delete", Method: http.MethodGet, Confirm: true, Danger: true},
	}
}

// List renders the team index.
// GET /teams
func (h *PageHandler) List(c *gin.Context) {
	view.ListPage(c, h.list(c), "team/list.html", "Teams", view.TableOptions[domain.Team]{
		ID:      tableID,
		Base:    base,
		RowID:   func(t domain.Team) string { return t.ID },
		Actions: actions,
	}, nil)
}

// Show renders the read-only dialog.
// GET /teams/:id
func (h *PageHandler) Show(c *gin.Context) {
	t, ok := h.load(c)
	if !ok {
		return
	}
	view.RenderDialog(c, view.NewDialog(t.Name, base, view.View{ID: t.ID}, viewFields(t)))
}

// Edit renders the edit dialog.
// GET /teams/:id/edit
func (h *PageHandler) Edit(c *gin.Context) {
	t, ok := h.load(c)
	if !ok {
		return
	}
	view.RenderDialog(c, view.NewDialog("Edit "+t.Name, base, view.Edit{ID: t.ID}, updateRequestFrom(t).fields()))
}

// Update handles the edit dialog.
// PUT /teams/:id
func (h *PageHandler) Update(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		view.BadRequest(c, "Invalid team id.")
		return
	}
	var req UpdateTeamRequest
	bindErr := c.ShouldBind(&req)
	d := view.NewDialog("Edit team", base, view.Edit{ID: id}, req.fields())
	if bindErr != nil {
		view.FormFailed(c, d, bindErr, &req, "Check the highlighted fields.")
		return
	}
	t, err := h.svc.Update(c.Request.Context(), id, req.toDomain())
	if err != nil {
		view.FormFailed(c, d, err, &req, "Could not save the team. Try again.")
		return
	}
	view.Done(c, t.Name+" was saved.", base)
}

// ConfirmDelete renders the delete confirmation.
// GET /teams/:id/delete
func (h *PageHandler) ConfirmDelete(c *gin.Context) {
	t, ok := h.load(c)
	if !ok {
		return
	}
	view.RenderConfirm(c, view.Confirm{
		Title:   "Disband team",
		Message: "Disband " + t.Name + "? Its " + strconv.Itoa(t.MemberCount) + " members keep their accounts.",
		Action:  base + "/" + t.ID,
		Method:  http.MethodDelete,
		Label:   "Disband",
	})
}

// Delete disbands the team.
// DELETE /teams/:id
func (h *PageHandler) Delete(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		view.BadRequest(c, "Invalid team id.")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if domain.IsNotFound(err) {
			err = domain.NewAppError(domain.CodeNotFound, "The team no longer exists.", err)
		}
		view.Fail(c, err, "Could not disband the team. Try again.")
		return
	}
	view.Done(c, "Team disbanded.", base)
}

func (h *PageHandler) load(c *gin.Context) (*domain.Team, bool) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		view.BadRequest(c, "Invalid team id.")
		return nil, false
	}
	t, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		view.Fail(c, err, "Could not load the team. Try again.")
		return nil, false
	}
	return t, true
}
