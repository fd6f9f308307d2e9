package formutil

import (
	"net/http"

	"github.com/dalemusser/clubsphere/internal/app/system/viewdata"
)

// ConfirmField is the form value that marks a destructive action as
// confirmed.
const ConfirmField = "confirm"

// Confirmed reports whether the destructive form r was posted from its
// confirmation page.
func Confirmed(r *http.Request) bool {
	return Value(r, ConfirmField) == "yes"
}

// Confirm is the view model for a confirmation page. Posting its form
// repeats Action with Fields and confirm=yes.
type Confirm struct {
	viewdata.BaseVM
	Heading string
	Message string
	Action  string
	Submit  string
	Fields  map[string]string
}

// NewConfirm builds a confirmation page that returns to back on cancel.
func NewConfirm(w http.ResponseWriter, r *http.Request, heading, message, action, submit, back string) Confirm {
	return Confirm{
		BaseVM:  viewdata.NewBaseVM(w, r, heading, back),
		Heading: heading,
		Message: message,
		Action:  action,
		Submit:  submit,
	}
}
