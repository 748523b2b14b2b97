package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// errorPages maps status codes to error templates.
var errorPages = map[int]string{
	http.StatusBadRequest:          "errors/400.html",
	http.StatusForbidden:           "errors/403.html",
	http.StatusNotFound:            "errors/404.html",
	http.StatusTooManyRequests:     "errors/429.html",
	http.StatusInternalServerError: "errors/500.html",
}

// abortWith stops the chain and answers in the form the client expects: a
// JSON envelope for the API and JSON clients, a toast for htmx, an error page
// otherwise.
func abortWith(c *gin.Context, status int, message string) {
	c.Abort()
	switch {
	case wantsJSON(c):
		c.JSON(status, gin.H{"code": status, "message": message, "data": nil})
	case isHTMX(c):
		c.Header("HX-Reswap", "none")
		c.Header("HX-Trigger", fmt.Sprintf(`{"showToast":{"message":%q,"type":"error"}}`, message))
		c.Status(status)
	default:
		renderErrorPage(c, status, message)
	}
}

// renderErrorPage renders the template for status, falling back to
// errors/500.html and to plain text when no renderer is configured.
func renderErrorPage(c *gin.Context, status int, message string) {
	defer func() {
		if r := recover(); r != nil {
			c.Data(status, "text/plain; charset=utf-8", []byte(fmt.Sprintf("%d %s", status, http.StatusText(status))))
		}
	}()
	tmpl, ok := errorPages[status]
	if !ok {
		tmpl = errorPages[http.StatusInternalServerError]
	}
	c.HTML(status, tmpl, gin.H{"Status": status, "Title": http.StatusText(status), "Message": message})
}

// wantsJSON reports whether the request targets the JSON API or explicitly
// asks for JSON.
func wantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	accept := strings.ToLower(c.GetHeader("Accept"))
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func isHTMX(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("HX-Request"), "true")
}
