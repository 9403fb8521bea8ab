// Package pagination parses page/per_page query parameters.
package pagination

import (
	"fmt"
	"net/url"
	"strconv"
)

// Params are offset-pagination parameters.
type Params struct {
	Page    int
	PerPage int
}

// Parse reads page and per_page from query values, applying defaults and
// bounds. Absent values default to page 1 and defaultPerPage.
func Parse(query url.Values, defaultPerPage, maxPerPage int) (Params, error) {
	p := Params{Page: 1, PerPage: defaultPerPage}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return Params{}, fmt.Errorf("invalid 'page' parameter: must be a positive integer")
		}
		p.Page = page
	}

	if raw := query.Get("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage < 1 || perPage > maxPerPage {
			return Params{}, fmt.Errorf("invalid 'per_page' parameter: must be between 1 and %d", maxPerPage)
		}
		p.PerPage = perPage
	}

	return p, nil
}
