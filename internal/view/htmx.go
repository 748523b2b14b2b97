package view

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Toast kinds.
const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("HX-Request"), "true")
}

// EventRefresh asks every table on the page to refetch its current query.
const EventRefresh = "list:refresh"

// Toast sets the HX-Trigger response header with a showToast event.
func Toast(c *gin.Context, message, kind string) {
	Trigger(c, message, kind)
}

// Trigger sets HX-Trigger with a showToast event followed by the named
// events.
func Trigger(c *gin.Context, message, kind string, events ...string) {
	payload := map[string]any{
		"showToast": map[string]string{
			"message": message,
			"type":    kind,
		},
	}
	for _, e := range events {
		payload[e] = true
	}
	trigger, _ := json.Marshal(payload)
	c.Header("HX-Trigger", string(trigger))
}

// Redirect navigates the browser to path: HX-Redirect for htmx requests,
// 303 See Other otherwise.
func Redirect(c *gin.Context, path string) {
	if IsHTMX(c) {
		c.Header("HX-Redirect", path)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, path)
}

// NoSwap tells htmx to leave the page alone.
func NoSwap(c *gin.Context) {
	c.Header("HX-Reswap", "none")
}
