// Package pager exposes a monotonically growing visible prefix of the
// filtered result set.
package pager

import (
	"github.com/cmarchi/cartaz/internal/filter"
)

// DefaultPageSize matches the nine-card grid of the default page.
const DefaultPageSize = 9

// Visible returns how many records of a filtered set of total records
// are shown at the given page and page size.
func Visible(total, page, pageSize int) int {
	if total < 0 {
		total = 0
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if n := page * pageSize; n < total {
		return n
	}
	return total
}

// View ties the active filter criteria and page position to a catalog
// revision. Any change to the criteria, the page size, or the catalog
// collapses the window back to page one; a stale page must never show
// residue from a previous filter.
type View struct {
	criteria filter.Criteria
	pageSize int
	page     int
	revision uint64
	primed   bool
}

// Resolve records the incoming request against the view state and
// returns the effective page. requestedPage is honored only when
// nothing changed since the previous request.
func (v *View) Resolve(c filter.Criteria, pageSize int, revision uint64, requestedPage int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if requestedPage < 1 {
		requestedPage = 1
	}

	changed := !v.primed ||
		!v.criteria.Equal(c) ||
		v.pageSize != pageSize ||
		v.revision != revision

	v.criteria = c
	v.pageSize = pageSize
	v.revision = revision
	v.primed = true

	if changed {
		v.page = 1
	} else {
		v.page = requestedPage
	}
	return v.page
}

// Page returns the current page, at least one.
func (v *View) Page() int {
	if v.page < 1 {
		return 1
	}
	return v.page
}

// PageSize returns the current page size.
func (v *View) PageSize() int {
	if v.pageSize < 1 {
		return DefaultPageSize
	}
	return v.pageSize
}

// Advance grows the window by one page.
func (v *View) Advance() int {
	v.page = v.Page() + 1
	return v.page
}
