package testutil

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/dalemusser/clubsphere/internal/app/system/imagehost"
	"go.uber.org/zap"
)

// PNG is enough of a PNG for content sniffing.
var PNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// ImageHost is a fake imgbb endpoint.
type ImageHost struct {
	uploads atomic.Int32
	// Link is returned as the display URL of every upload.
	Link string
}

// Uploads is how many images were received.
func (h *ImageHost) Uploads() int { return int(h.uploads.Load()) }

// NewImageHost starts a fake imgbb and returns a client wired to it.
func NewImageHost(t *testing.T) (*imagehost.Client, *ImageHost) {
	t.Helper()
	host := &ImageHost{Link: "https://i.ibb.co/test/photo.png"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("image"); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"success":false,"error":{"message":"Empty upload source."}}`))
			return
		}
		host.uploads.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"display_url":"` + host.Link + `"}}`))
	}))
	t.Cleanup(srv.Close)
	client := imagehost.New(imagehost.Config{
		APIKey:     "test-imgbb-key",
		URL:        srv.URL,
		HTTPClient: srv.Client(),
		Logger:     zap.NewNop(),
	})
	return client, host
}

// NewMultipartRequest builds a multipart POST with text fields and, when
// data is non-nil, one file under fileField.
func NewMultipartRequest(t *testing.T, target string, fields map[string]string, fileField string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if data != nil {
		fw, err := mw.CreateFormFile(fileField, "upload.png")
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
