// internal/app/features/admin/payments.go
package admin

import (
	"net/http"

	"github.com/dalemusser/clubsphere/internal/app/system/authz"
	"github.com/dalemusser/clubsphere/internal/app/system/search"
	"github.com/dalemusser/clubsphere/internal/app/system/timeouts"
	"github.com/dalemusser/clubsphere/internal/app/system/viewdata"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
)

type paymentsData struct {
	viewdata.BaseVM
	Payments []models.Payment
	Total    float64
	listPage
}

// ServePayments lists recorded payments, optionally for one payer (?q=),
// with the total over every match.
func (h *Handler) ServePayments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin payments")
	defer cancel()

	pays, err := h.Payments.All(ctx)
	if err != nil {
		h.loadFailed(w, r, "payments", err)
		return
	}
	q := search.Parse(query.Get(r, "q"))
	var matched []models.Payment
	for _, p := range pays {
		if q.Any(p.UserEmail) {
			matched = append(matched, p)
		}
	}
	page, lp := newListPage(r, authz.ViewAdminPayments.Path(), matched)
	templates.Render(w, r, "admin_payments", paymentsData{
		BaseVM:   viewdata.NewBaseVM(w, r, "All Payments", "/dashboard/admin"),
		Payments: page,
		Total:    models.TotalAmount(matched),
		listPage: lp,
	})
}
