package freelancer

import (
	"html/template"
	"log/slog"
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
	listName = "freelancers"
	base     = "/freelancers"
	tableID  = "freelancers-table"

	// maxUploadBytes bounds the bulk upload file.
	maxUploadBytes = 2 << 20
)

// PageHandler serves the freelancer screens.
type PageHandler struct {
	svc      domain.FreelancerService
	lists    *listview.Registry
	defaults listview.Options
}

// NewPageHandler creates a PageHandler. defaults carries the configured page
// sizes and search debounce.
func NewPageHandler(svc domain.FreelancerService, lists *listview.Registry, defaults listview.Options) *PageHandler {
	return &PageHandler{svc: svc, lists: lists, defaults: defaults}
}

func columns() []listview.Column[domain.Freelancer] {
	return []listview.Column[domain.Freelancer]{
		{Key: "firstName", Header: "Name", Sortable: true, Value: domain.Freelancer.FullName},
		{Key: "email", Header: "Email", Sortable: true, Value: func(f domain.Freelancer) string { return f.Email }},
		{Key: "experienceLevel", Header: "Experience", Value: func(f domain.Freelancer) string { return f.ExperienceLevel }},
		{Key: "hourlyRate", Header: "Rate", Sortable: true, Value: func(f domain.Freelancer) string { return rate(f.HourlyRate) }},
		{Key: "isVerified", Header: "Verified", Render: func(f domain.Freelancer) template.HTML {
			if f.IsVerified {
				return `<span class="badge badge-ok">verified</span>`
			}
			return `<span class="badge">unverified</span>`
		}},
		{Key: "createdAt", Header: "Joined", Sortable: true, Value: func(f domain.Freelancer) string { return f.CreatedAt.Format("2006-01-02") }},
	}
}

func (h *PageHandler) options() listview.Options {
	o := h.defaults
	o.Name = listName
	o.DefaultSort = "createdAt"
	o.DefaultDirection = domain.SortDesc
	o.Searchable = true
	o.EmptyText = "No freelancers match."
	o.Filters = []listview.Filter{
		{Key: "experienceLevel", Label: "Experience", Kind: listview.FilterSelect, Choices: listview.Choices(domain.ExperienceLevels...)},
		{Key: "isVerified", Label: "Verification", Kind: listview.FilterSelect, Choices: []listview.Choice{
			{Value: "true", Label: "Verified"},
			{Value: "false", Label: "Unverified"},
		}},
	}
	return o
}

func (h *PageHandler) list(c *gin.Context) *listview.Controller[domain.Freelancer] {
	return listview.Lookup(h.lists, session.IDFromContext(c.Request.Context()), listName, func() *listview.Controller[domain.Freelancer] {
		return listview.New(columns(), h.svc.List, h.options())
	})
}

func actions(f domain.Freelancer) []view.Action {
	id := f.ID
	acts := []view.Action{
		{Label: "View", Href: base + "/" + id, Method: http.MethodGet},
		{Label: "Edit", Href: base + "/" + id + "/edit", Method: http.MethodGet},
	}
	if f.IsVerified {
		acts = append(acts, view.Action{Label: "Unverify", Href: base + "/" + id + "/verify", Method: http.MethodDelete})
	} else {
		acts = append(acts, view.Action{Label: "Verify", Href: base + "/" + id + "/verify", Method: http.MethodPost})
	}
	return append(acts, view.Action{Label: "Delete", Href: base + "/" + id + "/delete", Method: http.MethodGet, Confirm: true, Danger: true})
}

// List renders the freelancer index.
// GET /freelancers
func (h *PageHandler) List(c *gin.Context) {
	view.ListPage(c, h.list(c), "freelancer/list.html", "Freelancers", view.TableOptions[domain.Freelancer]{
		ID:      tableID,
		Base:    base,
		RowID:   func(f domain.Freelancer) string { return f.ID },
		Actions: actions,
	}, nil)
}

// Show renders the read-only dialog.
// GET /freelancers/:id
func (h *PageHandler) Show(c *gin.Context) {
	f, ok := h.load(c)
	if !ok {
		return
	}
	view.RenderDialog(c, view.NewDialog(f.FullName(), base, view.View{ID: f.ID}, viewFields(f)))
}

// New renders the add dialog.
// GET /freelancers/new
func (h *PageHandler) New(c *gin.Context) {
	req := CreateFreelancerRequest{ExperienceLevel: domain.ExperienceEntry}
	view.RenderDialog(c, view.NewDialog("Add freelancer", base, view.Create{}, req.fields()))
}

// Create handles the add dialog.
// POST /freelancers
func (h *PageHandler) Create(c *gin.Context) {
	var req CreateFreelancerRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.DebugContext(c.Request.Context(), "create freelancer: bind error", slog.Any("error", err))
		view.FormFailed(c, view.NewDialog("Add freelancer", base, view.Create{}, req.fields()), err, &req, "Check the highlighted fields.")
		return
	}
	f, err := h.svc.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		view.FormFailed(c, view.NewDialog("Add freelancer", base, view.Create{}, req.fields()), err, &req, "Could not add the freelancer. Try again.")
		return
	}
	view.Done(c, f.FullName()+" was added.", base)
}

// Edit renders the edit dialog.
// GET /freelancers/:id/edit
func (h *PageHandler) Edit(c *gin.Context) {
	f, ok := h.load(c)
	if !ok {
		return
	}
	view.RenderDialog(c, view.NewDialog("Edit "+f.FullName(), base, view.Edit{ID: f.ID}, updateRequestFrom(f).fields()))
}

// Update handles the edit dialog.
// PUT /freelancers/:id
func (h *PageHandler) Update(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		view.BadRequest(c, "Invalid freelancer id.")
		return
	}
	var req UpdateFreelancerRequest
	bindErr := c.ShouldBind(&req)
	d := view.NewDialog("Edit freelancer", base, view.Edit{ID: id}, req.fields())
	if bindErr != nil {
		slog.DebugContext(c.Request.Context(), "update freelancer: bind error", slog.Any("error", bindErr), slog.String("id", id))
		view.FormFailed(c, d, bindErr, &req, "Check the highlighted fields.")
		return
	}
	f, err := h.svc.Update(c.Request.Context(), id, req.toDomain())
	if err != nil {
		view.FormFailed(c, d, err, &req, "Could not save the freelancer. Try again.")
		return
	}
	view.Done(c, f.FullName()+" was saved.", base)
}

// Verify marks the freelancer verified.
// POST /freelancers/:id/verify
func (h *PageHandler) Verify(c *gin.Context) { h.setVerified(c, true) }

// Unverify removes the verified badge.
// DELETE /freelancers/:id/verify
func (h *PageHandler) Unverify(c *gin.Context) { h.setVerified(c, false) }

func (h *PageHandler) setVerified(c *gin.Context, verified bool) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		view.BadRequest(c, "Invalid freelancer id.")
		return
	}
	f, err := h.svc.SetVerified(c.Request.Context(), id, verified)
	if err != nil {
		view.Fail(c, err, "Could not change the verification. Try again.")
		return
	}
	msg := f.FullName() + " is now verified."
	if !verified {
		msg = f.FullName() + " is no longer verified."
	}
	view.Done(c, msg, base)
}

// ConfirmDelete renders the delete confirmation.
// GET /freelancers/:id/delete
func (h *PageHandler) ConfirmDelete(c *gin.Context) {
	f, ok := h.load(c)
	if !ok {
		return
	}
	view.RenderConfirm(c, view.Confirm{
		Title:   "Delete freelancer",
		Message: "Delete " + f.FullName() + " (" + f.Email + ")? This cannot be undone.",
		Action:  base + "/" + f.ID,
		Method:  http.MethodDelete,
		Label:   "Delete",
	})
}

// Delete removes the freelancer.
// DELETE /freelancers/:id
func (h *PageHandler) Delete(c *gin.Context) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		view.BadRequest(c, "Invalid freelancer id.")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if domain.IsNotFound(err) {
			err = domain.NewAppError(domain.CodeNotFound, "The freelancer no longer exists.", err)
		}
		view.Fail(c, err, "Could not delete the freelancer. Try again.")
		return
	}
	view.Done(c, "Freelancer deleted.", base)
}

func bulkDialog() view.BulkDialog {
	return view.BulkDialog{
		Title:   "Bulk upload freelancers",
		Action:  base + "/bulk",
		Columns: []string{"first_name", "last_name", "email", "experience_level", "hourly_rate", "phone", "skills"},
	}
}

// BulkForm renders the bulk upload dialog.
// GET /freelancers/bulk
func (h *PageHandler) BulkForm(c *gin.Context) {
	view.RenderBulk(c, bulkDialog())
}

// BulkUpload processes an uploaded CSV file.
// POST /freelancers/bulk
func (h *PageHandler) BulkUpload(c *gin.Context) {
	d := bulkDialog()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		d.Error = "Choose a CSV file of at most 2 MB."
		view.RenderBulk(c, d)
		return
	}
	file, err := fh.Open()
	if err != nil {
		d.Error = "The file could not be read."
		view.RenderBulk(c, d)
		return
	}
	defer file.Close()

	rows, err := view.ReadBulkCSV(file, bulkColumns)
	if err != nil {
		d.Error = domain.UserMessage(err, "The file could not be read.")
		view.RenderBulk(c, d)
		return
	}

	inputs, positions, failed := bulkInputs(rows)
	res := &domain.BulkResult{}
	if len(inputs) > 0 {
		res, err = h.svc.BulkCreate(c.Request.Context(), inputs)
		if err != nil {
			if domain.IsUnauthorized(err) {
				view.Fail(c, err, "")
				return
			}
			d.Error = domain.UserMessage(err, "The upload failed. Try again.")
			view.RenderBulk(c, d)
			return
		}
	}

	d.Done = true
	d.Created = res.Created
	d.Failed = mergeFailures(failed, res, positions)
	slog.InfoContext(c.Request.Context(), "freelancer bulk upload",
		slog.Int("rows", len(rows)), slog.Int("created", d.Created), slog.Int("failed", len(d.Failed)))
	if d.Created > 0 {
		view.Trigger(c, strconv.Itoa(d.Created)+" freelancers added.", view.ToastSuccess, view.EventRefresh)
	}
	view.RenderBulk(c, d)
}

// load fetches the freelancer named by the path and presents failures.
func (h *PageHandler) load(c *gin.Context) (*domain.Freelancer, bool) {
	id, err := pkg.ResourceID(c)
	if err != nil {
		view.BadRequest(c, "Invalid freelancer id.")
		return nil, false
	}
	f, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		view.Fail(c, err, "Could not load the freelancer. Try again.")
		return nil, false
	}
	return f, true
}
