package pkg

import (
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hyve-admin/internal/domain"
)

// Query parameter names of a console list URL.
const (
	ParamPage     = "page"
	ParamPageSize = "page_size"
	ParamSort     = "sort"
	ParamSearch   = "q"
)

// reservedParams lists query parameter names used for pagination/sorting, not for filtering.
var reservedParams = map[string]bool{
	ParamPage:     true,
	ParamPageSize: true,
	ParamSort:     true,
	ParamSearch:   true,
}

// validFieldName matches only alphanumeric characters and underscores.
var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ParseListQuery extracts pagination, sorting, filtering and search
// parameters from the request. Sort is "key:dir". Only filter keys listed in
// allowed are kept. Values the list does not offer are left for the list
// controller to replace with defaults.
func ParseListQuery(c *gin.Context, allowed []string) domain.ListQuery {
	return ListQueryFromValues(c.Request.URL.Query(), allowed)
}

// ListQueryFromValues is ParseListQuery over raw values.
func ListQueryFromValues(values url.Values, allowed []string) domain.ListQuery {
	page, _ := strconv.Atoi(values.Get(ParamPage))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(values.Get(ParamPageSize))

	q := domain.ListQuery{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(values.Get(ParamSearch)),
		Filters:  map[string]string{},
	}

	if key, dir, ok := strings.Cut(values.Get(ParamSort), ":"); ok || key != "" {
		key = strings.TrimSpace(key)
		if validFieldName.MatchString(key) {
			q.SortKey = key
			q.SortDirection = domain.ParseSortDirection(strings.ToLower(strings.TrimSpace(dir)))
		}
	}

	for key, vals := range values {
		if reservedParams[key] || !validFieldName.MatchString(key) || !slices.Contains(allowed, key) {
			continue
		}
		if len(vals) > 0 && vals[0] != "" {
			q.Filters[key] = vals[0]
		}
	}
	return q
}

// EncodeListQuery is the inverse of ParseListQuery.
func EncodeListQuery(q domain.ListQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set(ParamPage, strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set(ParamPageSize, strconv.Itoa(q.PageSize))
	}
	if q.SortKey != "" {
		dir := q.SortDirection
		if dir == "" {
			dir = domain.SortDesc
		}
		v.Set(ParamSort, q.SortKey+":"+string(dir))
	}
	if q.Search != "" {
		v.Set(ParamSearch, q.Search)
	}
	for k, val := range q.Filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}
