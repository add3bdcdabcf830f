// Package pagination implements page-numbered windows over listings and
// the count/next/previous/results response envelope.
package pagination

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	// DefaultLimit is the page size applied when the client does not ask
	// for one.
	DefaultLimit = 6
	MaxLimit     = 100
)

// Window is a validated page request.
type Window struct {
	Page  int32
	Limit int32
}

// Parse reads the page and limit query parameters, clamping nonsense
// values to the defaults.
func Parse(r *http.Request) Window {
	w := Window{Page: 1, Limit: DefaultLimit}

	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err := strconv.ParseInt(raw, 10, 32); err == nil && page > 0 {
			w.Page = int32(page)
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.ParseInt(raw, 10, 32); err == nil && limit > 0 {
			w.Limit = int32(min(limit, MaxLimit))
		}
	}
	return w
}

func (w Window) Offset() int32 {
	return (w.Page - 1) * w.Limit
}

// Envelope is the list response shape shared by every paginated endpoint.
type Envelope[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func pageURL(u *url.URL, page int32) *string {
	q := u.Query()
	q.Set("page", strconv.FormatInt(int64(page), 10))
	clone := *u
	clone.RawQuery = q.Encode()
	s := clone.String()
	return &s
}

// Envelop wraps the results with the total count and links to the
// neighboring pages of the same request.
func Envelop[T any](r *http.Request, w Window, count int64, results []T) Envelope[T] {
	if results == nil {
		results = []T{}
	}
	env := Envelope[T]{
		Count:   count,
		Results: results,
	}
	if int64(w.Offset())+int64(len(results)) < count {
		env.Next = pageURL(r.URL, w.Page+1)
	}
	if w.Page > 1 {
		env.Previous = pageURL(r.URL, w.Page-1)
	}
	return env
}
