package events

import (
	"html/template"
	"net/http"
	"strings"
	"testing"

	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/clubsphere/internal/testutil"
	"go.uber.org/zap"
)

func TestEventDetail_DescriptionEscapedOnce(t *testing.T) {
	be := testutil.NewFakeBackend(t)
	stores := testutil.NewStores(t, be)
	sm := testutil.NewSessionManager(t)
	enroll := stores.NewEnrollment(stores.NewFlow(t, &testutil.StubProcessor{}))
	h := NewHandler(stores.Events, stores.Clubs, stores.Registrations, enroll, sm, zap.NewNop())

	ev := be.AddEvent(models.Event{Title: "Jam Night", Location: "Hall", Description: "Tom's Rock & Roll jam"})
	req := testutil.WithChiURLParam(testutil.NewRequest(http.MethodGet, "/events/"+ev.ID), "id", ev.ID)
	data, ok := h.loadDetail(testutil.NewRecorder(), req)
	if !ok {
		t.Fatal("event detail did not load")
	}

	tmpl := template.Must(template.New("stubs").Parse(
		`{{ define "layout_head" }}{{ end }}{{ define "layout_foot" }}{{ end }}{{ define "csrf_field" }}{{ end }}`))
	tmpl = template.Must(tmpl.ParseFS(FS, "templates/event_detail.gohtml"))
	var out strings.Builder
	if err := tmpl.ExecuteTemplate(&out, "event_detail", data); err != nil {
		t.Fatalf("execute event_detail: %v", err)
	}
	page := out.String()

	if !strings.Contains(page, "<p>Tom&#39;s Rock &amp; Roll jam</p>") {
		t.Errorf("description not rendered once-escaped:\n%s", page)
	}
	if strings.Contains(page, "&amp;#39;") || strings.Contains(page, "&amp;amp;") {
		t.Errorf("description escaped twice:\n%s", page)
	}
}
