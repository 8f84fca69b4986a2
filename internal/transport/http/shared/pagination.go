package shared

import (
	"net/http"
	"strconv"
)

type Pagination struct {
	Limit  int
	Offset int
}

func queryInt(r *http.Request, key string) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	return v, err == nil
}

// ParsePage reads limit plus either a 1-based page or a raw offset from the
// query string. Out-of-range values fall back to the defaults rather than
// erroring; list endpoints should never 400 on pagination.
func ParsePage(r *http.Request, defaultLimit, maxLimit int) Pagination {
	p := Pagination{Limit: defaultLimit}
	if v, ok := queryInt(r, "limit"); ok && v > 0 {
		p.Limit = v
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if v, ok := queryInt(r, "offset"); ok && v > 0 {
		p.Offset = v
	}
	if page, ok := queryInt(r, "page"); ok && page > 1 {
		p.Offset = (page - 1) * p.Limit
	}
	return p
}

// SetTotalCount exposes the unpaginated row count so clients can derive page
// counts and disable their next-page control on the last page.
func SetTotalCount(w http.ResponseWriter, total int) {
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
}
