package view

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/listview"
	"github.com/simp-lee/hyve-admin/internal/middleware"
	"github.com/simp-lee/hyve-admin/internal/pkg"
)

// Page templates shared by every resource.
const (
	TemplateTable   = "fragments/table.html"
	TemplateDialog  = "fragments/dialog.html"
	TemplateConfirm = "fragments/confirm.html"
	TemplateBulk    = "fragments/bulk.html"
	TemplateModal   = "shared/modal.html"
)

// Page returns the template data every console page receives.
func Page(c *gin.Context, title string, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["CSRFToken"] = middleware.GetCSRFToken(c)
	data["Session"] = middleware.CurrentSession(c)
	data["Path"] = c.Request.URL.Path
	return data
}

// Fail presents err. An expired session goes to the login screen; htmx
// requests get a toast and leave the page alone; full page loads render an
// error page.
func Fail(c *gin.Context, err error, fallback string) {
	msg := domain.UserMessage(err, fallback)
	switch {
	case domain.IsUnauthorized(err):
		Redirect(c, middleware.LoginPath(c))
	case IsHTMX(c):
		NoSwap(c)
		Toast(c, msg, ToastError)
		c.Status(http.StatusOK)
	default:
		status := domain.HTTPStatusCode(err)
		if status == http.StatusBadGateway {
			status = http.StatusInternalServerError
		}
		c.HTML(status, errorTemplate(status), Page(c, http.StatusText(status), gin.H{"Message": msg}))
	}
	if !domain.IsNotFound(err) && !domain.IsValidation(err) && !domain.IsUnauthorized(err) {
		slog.WarnContext(c.Request.Context(), "console request failed",
			slog.String("path", c.Request.URL.Path), slog.Any("error", err))
	}
}

func errorTemplate(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "errors/400.html"
	case http.StatusForbidden:
		return "errors/403.html"
	case http.StatusNotFound:
		return "errors/404.html"
	}
	return "errors/500.html"
}

// BadRequest renders the 400 page or toast for a malformed request.
func BadRequest(c *gin.Context, message string) {
	Fail(c, domain.NewAppError(domain.CodeValidation, message, nil), message)
}

// ListPage is how every index screen answers: the request's query goes through
// ctl, htmx requests get the table fragment, full loads get tmpl with the
// table under "Table". A response superseded by a newer one is dropped with
// 204 so htmx keeps the newer table.
func ListPage[T any](c *gin.Context, ctl *listview.Controller[T], tmpl, title string, opts TableOptions[T], extra gin.H) {
	allowed := make([]string, 0, len(ctl.Options().Filters))
	for _, f := range ctl.Options().Filters {
		allowed = append(allowed, f.Key)
	}

	out := ctl.Submit(c.Request.Context(), pkg.ParseListQuery(c, allowed))
	if out.Stale {
		NoSwap(c)
		c.Status(http.StatusNoContent)
		return
	}
	if err := out.Snapshot.Err; err != nil && domain.IsUnauthorized(err) {
		Fail(c, err, "")
		return
	}

	table := NewTable(ctl, out.Snapshot, opts)
	if IsHTMX(c) && c.GetHeader("HX-Target") == opts.ID {
		c.HTML(http.StatusOK, TemplateTable, gin.H{"Table": table, "CSRFToken": middleware.GetCSRFToken(c)})
		return
	}
	data := Page(c, title, extra)
	data["Table"] = table
	c.HTML(http.StatusOK, tmpl, data)
}

// RenderDialog answers with the dialog fragment for htmx and a full page
// otherwise.
func RenderDialog(c *gin.Context, d Dialog) {
	renderModal(c, TemplateDialog, d.Title, gin.H{"Dialog": d})
}

// RenderConfirm answers with the confirmation fragment.
func RenderConfirm(c *gin.Context, cf Confirm) {
	renderModal(c, TemplateConfirm, cf.Title, gin.H{"Confirm": cf})
}

// RenderBulk answers with the bulk upload fragment.
func RenderBulk(c *gin.Context, b BulkDialog) {
	renderModal(c, TemplateBulk, b.Title, gin.H{"Bulk": b})
}

func renderModal(c *gin.Context, fragment, title string, data gin.H) {
	if IsHTMX(c) {
		data["CSRFToken"] = middleware.GetCSRFToken(c)
		c.HTML(http.StatusOK, fragment, data)
		return
	}
	c.HTML(http.StatusOK, TemplateModal, Page(c, title, data))
}

// Done finishes a successful mutation: a toast, a refresh of the tables on
// the page and, for plain form posts, a redirect to back.
func Done(c *gin.Context, message, back string) {
	if IsHTMX(c) {
		Trigger(c, message, ToastSuccess, EventRefresh)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, back)
}

// FormFailed re-renders d with the errors of err: field messages for
// validation failures, a summary otherwise. Errors that are not about the
// form go through Fail.
func FormFailed(c *gin.Context, d Dialog, err error, form any, fallback string) {
	if fields := pkg.FieldErrors(err, form); fields != nil {
		RenderDialog(c, d.WithErrors("Please correct the highlighted fields.", fields))
		return
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) && (appErr.Code == domain.CodeValidation || appErr.Code == domain.CodeAlreadyExists) {
		RenderDialog(c, d.WithErrors(domain.UserMessage(err, fallback), appErr.Fields))
		return
	}
	if domain.IsUnauthorized(err) || domain.IsNotFound(err) {
		Fail(c, err, fallback)
		return
	}
	RenderDialog(c, d.WithErrors(domain.UserMessage(err, fallback), nil))
}
