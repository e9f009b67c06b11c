// Package pagination builds paged list envelopes with next/previous links.
package pagination

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Page is the list envelope returned by paged endpoints.
type Page[T any] struct {
	Items    []T     `json:"items"`
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// Request describes the page being rendered.
type Request struct {
	Page     int
	PageSize int
	Total    int64
	// BaseURL is scheme + host + path of the current request.
	BaseURL string
	// Filters are passed through verbatim; empty values are dropped.
	Filters url.Values
}

// Build wraps items in a Page and computes the neighbouring page links.
func Build[T any](items []T, req Request) Page[T] {
	if items == nil {
		items = []T{}
	}
	page := NormalizePage(req.Page)

	out := Page[T]{Items: items, Count: req.Total}
	if HasNext(page, req.PageSize, req.Total) {
		next := link(req.BaseURL, req.Filters, page+1)
		out.Next = &next
	}
	if page > 1 {
		prev := link(req.BaseURL, req.Filters, page-1)
		out.Previous = &prev
	}
	return out
}

// HasNext reports whether records remain after page. It divides instead of
// multiplying so that huge page numbers cannot overflow.
func HasNext(page, pageSize int, total int64) bool {
	if pageSize <= 0 || total <= 0 {
		return false
	}
	return int64(NormalizePage(page)) <= (total-1)/int64(pageSize)
}

// NormalizePage maps non-positive pages to the first page.
func NormalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// ParsePage reads a 1-based page number, defaulting to 1 when absent or invalid.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return NormalizePage(page)
}

// Offset returns the number of records to skip for the given page. Offsets
// that do not fit in an int64 saturate at math.MaxInt64.
func Offset(page, pageSize int) int64 {
	if pageSize <= 0 {
		return 0
	}
	skipped := int64(NormalizePage(page) - 1)
	if skipped > math.MaxInt64/int64(pageSize) {
		return math.MaxInt64
	}
	return skipped * int64(pageSize)
}

// BaseURL rebuilds scheme://host/path for the incoming request.
func BaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + r.Host + r.URL.Path
}

func link(base string, filters url.Values, page int) string {
	query := url.Values{}
	for key, values := range filters {
		for _, value := range values {
			if value != "" {
				query.Add(key, value)
			}
		}
	}
	query.Set("page", strconv.Itoa(page))
	return base + "?" + query.Encode()
}
