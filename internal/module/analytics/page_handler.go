package analytics

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/pkg"
	"github.com/simp-lee/hyve-admin/internal/view"
)

// PageHandler serves the dashboard and the analytics screen.
type PageHandler struct {
	svc domain.AnalyticsService
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(svc domain.AnalyticsService) *PageHandler {
	return &PageHandler{svc: svc}
}

// screen is the template data shared by the dashboard and analytics pages.
type screen struct {
	Overview *domain.AnalyticsOverview
	Summary  [][2]string
	Range    RangeRequest
	Error    string
	Fields   map[string]string
}

func (h *PageHandler) load(c *gin.Context) (screen, bool) {
	var req RangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return screen{Range: req, Error: "Dates must be YYYY-MM-DD.", Fields: pkg.FieldErrors(err, &req)}, true
	}
	r, err := req.toDomain()
	if err != nil {
		return screen{Range: req, Error: domain.UserMessage(err, "Invalid date range.")}, true
	}
	s := screen{Range: rangeRequestFrom(r)}
	ov, err := h.svc.Overview(c.Request.Context(), r)
	if err != nil {
		if domain.IsUnauthorized(err) {
			view.Fail(c, err, "")
			return s, false
		}
		slog.WarnContext(c.Request.Context(), "analytics overview failed", slog.Any("error", err))
		s.Error = domain.UserMessage(err, "Analytics are unavailable right now. Try again.")
		return s, true
	}
	s.Overview = ov
	s.Summary = summaryRows(ov)
	return s, true
}

func (h *PageHandler) render(c *gin.Context, tmpl, title string) {
	s, ok := h.load(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, tmpl, view.Page(c, title, gin.H{
		"Overview": s.Overview,
		"Summary":  s.Summary,
		"Range":    s.Range,
		"Error":    s.Error,
		"Fields":   s.Fields,
	}))
}

// Dashboard renders the console home.
// GET /dashboard
func (h *PageHandler) Dashboard(c *gin.Context) {
	h.render(c, "dashboard.html", "Dashboard")
}

// Index renders the analytics screen.
// GET /analytics
func (h *PageHandler) Index(c *gin.Context) {
	h.render(c, "analytics/index.html", "Analytics")
}

// Export downloads the analytics report as PDF.
// GET /analytics/export.pdf
func (h *PageHandler) Export(c *gin.Context) {
	var req RangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		view.BadRequest(c, "Dates must be YYYY-MM-DD.")
		return
	}
	r, err := req.toDomain()
	if err != nil {
		view.Fail(c, err, "Invalid date range.")
		return
	}
	ov, err := h.svc.Overview(c.Request.Context(), r)
	if err != nil {
		view.Fail(c, err, "Analytics are unavailable right now. Try again.")
		return
	}
	doc, err := RenderPDF(ov, r, now())
	if err != nil {
		view.Fail(c, err, "Could not build the report.")
		return
	}
	name := "hyve-analytics-" + r.From.Format(dateLayout) + "-" + r.To.Format(dateLayout) + ".pdf"
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}
