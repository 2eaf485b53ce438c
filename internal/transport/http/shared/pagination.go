package shared

import (
	"net/http"
	"strconv"
)

// Pagination is the listing window for the audit viewer and other large
// collections. The query string selects it either as limit/offset or as
// limit plus a 1-based page.
type Pagination struct {
	Limit  int
	Offset int
}

func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	q := r.URL.Query()

	limit := positiveInt(q.Get("limit"), defaultLimit)
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	offset := 0
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		offset = v
	}
	if page := positiveInt(q.Get("page"), 0); page > 1 {
		offset = (page - 1) * limit
	}

	return Pagination{Limit: limit, Offset: offset}
}

func positiveInt(raw string, fallback int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
