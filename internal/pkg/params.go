package pkg

import (
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hyve-admin/internal/domain"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ResourceID returns the ":id" path parameter. HYVE ids are opaque strings;
// anything outside [A-Za-z0-9_-] is rejected before it reaches an API path.
func ResourceID(c *gin.Context) (string, error) {
	id := c.Param("id")
	if !idPattern.MatchString(id) {
		return "", domain.NewAppError(domain.CodeValidation, "invalid id", nil)
	}
	return id, nil
}

// ValidID reports whether id has the shape of a HYVE id.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}
