package shared

import (
	"net/http"
	"strconv"
	"strings"
)

// DefaultPerPage is the page size used when the caller does not supply one.
const DefaultPerPage = 10

// ListOptions carries the shared paging, search and sort parameters for
// list endpoints.
type ListOptions struct {
	Page      int
	PerPage   int
	Search    string
	SortBy    string
	SortOrder string
}

// ListOptionsFromRequest parses list query parameters, applying defaults.
func ListOptionsFromRequest(r *http.Request) ListOptions {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("perPage"))
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	order := strings.ToLower(strings.TrimSpace(q.Get("sortOrder")))
	if order != "asc" {
		order = "desc"
	}
	return ListOptions{
		Page:      page,
		PerPage:   perPage,
		Search:    strings.TrimSpace(q.Get("search")),
		SortBy:    strings.TrimSpace(q.Get("sortBy")),
		SortOrder: order,
	}
}

// Offset returns the row offset for the requested page.
func (o ListOptions) Offset() int {
	offset := (o.Page - 1) * o.PerPage
	if offset < 0 {
		return 0
	}
	return offset
}
