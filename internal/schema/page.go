package schema

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/prn-tf/recipebook/internal/config"
)

// Query parameter names for list endpoints.
const (
	ParamPage    = "page"
	ParamPerPage = "per-page"
)

// Page is a validated page request.
type Page struct {
	Number  int
	PerPage int
}

// Offset returns the number of records to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// ParsePage reads page and per-page from q. Missing values take the
// configured defaults, page numbers below 1 become 1, and per-page is
// clamped to [1, MaxPerPage]. Page numbers are capped so that Offset never
// overflows. Non-numeric values are a validation error.
func ParsePage(q url.Values, cfg config.PaginationConfig) (Page, error) {
	p := Page{Number: 1, PerPage: cfg.DefaultPerPage}
	verr := NewValidationError()

	if raw := strings.TrimSpace(q.Get(ParamPage)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			verr.Add(ParamPage, "Input should be a valid integer")
		} else if n > 1 {
			p.Number = n
		}
	}

	if raw := strings.TrimSpace(q.Get(ParamPerPage)); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			verr.Add(ParamPerPage, "Input should be a valid integer")
		case n < 1:
			p.PerPage = cfg.DefaultPerPage
		default:
			p.PerPage = n
		}
	}

	if p.PerPage > cfg.MaxPerPage {
		p.PerPage = cfg.MaxPerPage
	}
	if p.PerPage > 0 && p.Number > math.MaxInt/p.PerPage {
		p.Number = math.MaxInt / p.PerPage
	}

	if err := verr.OrNil(); err != nil {
		return Page{}, err
	}
	return p, nil
}

// Pages returns the number of pages needed for total items.
func (p Page) Pages(total int64) int64 {
	if p.PerPage <= 0 || total <= 0 {
		return 0
	}
	per := int64(p.PerPage)
	return (total + per - 1) / per
}

// PageEnvelope builds the list response body; items are keyed by listKey.
func PageEnvelope[T any](listKey string, p Page, total int64, items []T) map[string]any {
	if items == nil {
		items = []T{}
	}
	return map[string]any{
		"page":     p.Number,
		"per_page": p.PerPage,
		"total":    total,
		"pages":    p.Pages(total),
		listKey:    items,
	}
}
