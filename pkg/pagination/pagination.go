package pagination

import (
	"net/http"
	"strconv"
)

// Defaults shared by both strategies.
const (
	DefaultPageSize = 15
	MaxPageSize     = 250
)

// Reserved query parameter names.
const (
	ParamPage     = "page"
	ParamPageSize = "page_size"
	ParamCursor   = "cursor"
	ParamOrderBy  = "orderby"
	ParamStrategy = "pagination"
)

// Strategy names selectable per request via the pagination query parameter.
const (
	StrategyPage   = "page"
	StrategyCursor = "cursor"
)

// StrategyFromRequest returns the strategy requested via the pagination
// query parameter, or fallback when the parameter is absent or unknown.
func StrategyFromRequest(r *http.Request, fallback string) string {
	switch r.URL.Query().Get(ParamStrategy) {
	case StrategyPage:
		return StrategyPage
	case StrategyCursor:
		return StrategyCursor
	}
	return fallback
}

// pageSize reads the page_size parameter. Missing or malformed values fall
// back to def, values above max clamp to max. Never fails.
func pageSize(r *http.Request, def, max int) int {
	if def <= 0 {
		def = DefaultPageSize
	}
	if max <= 0 {
		max = MaxPageSize
	}
	size := def
	if raw := r.URL.Query().Get(ParamPageSize); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			size = n
		}
	}
	if size > max {
		size = max
	}
	return size
}
