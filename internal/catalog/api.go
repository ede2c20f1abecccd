package catalog

import (
	"errors"

	"brewery-catalog/internal/model"
)

// PageSize is the fixed number of breweries requested per page. A page that
// comes back full implies there is a next one.
const PageSize = 10

// ErrNotFound is returned by Get when the upstream answers with a body that
// carries no string identifier.
var ErrNotFound = errors.New("brewery not found")

// ListQuery describes one page of a listing request.
type ListQuery struct {
	Page    int
	PerPage int
	Query   string
	Sort    model.SortDirection
}
