// internal/app/features/admin/list.go
package admin

import (
	"net/http"
	"strings"

	"github.com/dalemusser/clubsphere/internal/app/system/paging"
	"github.com/dalemusser/waffle/pantry/query"
)

// listPage carries the search box and pager of a filtered admin list.
type listPage struct {
	Query    string
	Range    paging.Range
	PrevLink string
	NextLink string
}

// newListPage cuts rows to the page named by ?start= and builds the pager
// links back to path.
func newListPage[T any](r *http.Request, path string, rows []T) ([]T, listPage) {
	page, rng := paging.Slice(rows, paging.ParseStart(r))
	lp := listPage{
		Query: strings.TrimSpace(query.Get(r, "q")),
		Range: rng,
	}
	if rng.HasPrev {
		lp.PrevLink = paging.Link(r, path, rng.PrevStart)
	}
	if rng.HasNext {
		lp.NextLink = paging.Link(r, path, rng.NextStart)
	}
	return page, lp
}
