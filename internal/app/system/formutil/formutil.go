// Package formutil provides helpers for reading club, event and profile
// forms and re-rendering them with an error.
//
// When a form submission fails, the form is re-rendered with:
// - The user's previously entered values (echoed back)
// - An error message explaining what went wrong
//
// Example usage:
//
//	type clubFormData struct {
//		formutil.Base
//		Input models.ClubInput
//	}
//
//	data := clubFormData{Input: in}
//	formutil.SetBase(&data.Base, w, r, "Add Club", "/dashboard/manager/clubs")
//	data.SetError("Club name is required.")
//	templates.Render(w, r, "manager_club_form", data)
package formutil

import (
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/clubsphere/internal/app/system/viewdata"
)

// Base contains common fields for form pages that can be embedded in form data structs.
type Base struct {
	viewdata.BaseVM
	Error template.HTML
}

// SetBase populates the common Base fields from the request.
func SetBase(b *Base, w http.ResponseWriter, r *http.Request, title, backDefault string) {
	b.BaseVM = viewdata.NewBaseVM(w, r, title, backDefault)
}

// SetError sets the error message on a Base struct.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}

// Value returns the trimmed form value.
func Value(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

// Checked reports whether a checkbox was submitted as on.
func Checked(r *http.Request, name string) bool {
	switch strings.ToLower(Value(r, name)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// Amount parses a non-negative money value; blank means zero. Values are
// rounded to cents.
func Amount(r *http.Request, name string) (float64, error) {
	s := strings.TrimPrefix(Value(r, name), "$")
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	if f < 0 {
		return 0, fmt.Errorf("%s cannot be negative", name)
	}
	return math.Round(f*100) / 100, nil
}

// Count parses a non-negative whole number; blank means zero.
func Count(r *http.Request, name string) (int, error) {
	s := Value(r, name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a whole number", name)
	}
	return n, nil
}
