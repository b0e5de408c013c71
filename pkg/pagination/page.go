package pagination

import (
	"net/http"
	"strconv"
)

// PageNumber paginates an ordered collection by a 1-based page index.
type PageNumber[T any] struct {
	// PageSize is the default window size. Zero means DefaultPageSize.
	PageSize int
	// MaxPageSize bounds the page_size parameter. Zero means MaxPageSize.
	MaxPageSize int
	// Passthrough returns the full collection as a single unpaginated page
	// when neither page nor page_size is present on the request.
	Passthrough bool
	// BuildURL produces the absolute URL for a page link. Nil means the
	// request-derived default.
	BuildURL func(r *http.Request, page int) string
}

// PageResult is the outcome of page-number pagination.
type PageResult[T any] struct {
	Items     []T
	Count     int
	Next      *string
	Previous  *string
	Paginated bool
}

// Paginate slices items down to the requested window. A page index past the
// end yields an empty window, never an error. Malformed parameters fall back
// to defaults.
func (p PageNumber[T]) Paginate(items []T, r *http.Request) PageResult[T] {
	q := r.URL.Query()
	if p.Passthrough && !q.Has(ParamPage) && !q.Has(ParamPageSize) {
		return PageResult[T]{Items: items, Count: len(items)}
	}

	size := pageSize(r, p.PageSize, p.MaxPageSize)
	page := 1
	if raw := q.Get(ParamPage); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	count := len(items)
	totalPages := (count + size - 1) / size

	start := (page - 1) * size
	end := start + size
	if start > count {
		start = count
	}
	if end > count {
		end = count
	}

	res := PageResult[T]{Items: items[start:end], Count: count, Paginated: true}
	build := p.BuildURL
	if build == nil {
		build = requestURL
	}
	if page < totalPages {
		u := build(r, page+1)
		res.Next = &u
	}
	if page > 1 && totalPages > 0 {
		prev := page - 1
		if prev > totalPages {
			prev = totalPages
		}
		u := build(r, prev)
		res.Previous = &u
	}
	return res
}

// requestURL rebuilds the request URL as an absolute link with the page
// parameter adjusted. Page one drops the parameter to keep first-page links
// canonical.
func requestURL(r *http.Request, page int) string {
	u := *r.URL
	q := u.Query()
	if page <= 1 {
		q.Del(ParamPage)
	} else {
		q.Set(ParamPage, strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()

	u.Host = r.Host
	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		u.Scheme = proto
	}
	return u.String()
}
