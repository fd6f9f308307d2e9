// internal/app/features/checkout/templates.go
package checkout

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "checkout",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
