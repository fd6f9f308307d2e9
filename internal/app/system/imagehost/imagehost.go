// Package imagehost uploads club banners, event banners and profile photos
// to imgbb and returns the public display URL.
package imagehost

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const DefaultURL = "https://api.imgbb.com/1/upload"

// MaxImageBytes caps a single upload.
const MaxImageBytes = 8 << 20

var (
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("image host not configured")
	// ErrTooLarge is returned for images over MaxImageBytes.
	ErrTooLarge = errors.New("image too large")
	// ErrNotImage is returned when the upload is not an image.
	ErrNotImage = errors.New("file is not an image")
)

// UploadFailedMessage is shown when an upload cannot be completed.
const UploadFailedMessage = "Could not upload image."

// UserMessage turns an upload error into text for a form.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrTooLarge):
		return "The image is too large."
	case errors.Is(err, ErrNotImage):
		return "The file must be an image."
	}
	return UploadFailedMessage
}

// Config configures the imgbb client.
type Config struct {
	APIKey     string
	URL        string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client uploads images to imgbb.
type Client struct {
	key        string
	url        string
	httpClient *http.Client
	log        *zap.Logger
}

// New creates the client.
func New(cfg Config) *Client {
	c := &Client{
		key:        cfg.APIKey,
		url:        strings.TrimSuffix(cfg.URL, "/"),
		httpClient: cfg.HTTPClient,
		log:        cfg.Logger,
	}
	if c.url == "" {
		c.url = DefaultURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// Upload sends the image and returns its display URL.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if c.key == "" {
		return "", ErrNotConfigured
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("imagehost: read: %w", err)
	}
	if len(data) > MaxImageBytes {
		return "", ErrTooLarge
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return "", ErrNotImage
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("imagehost: form: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return "", fmt.Errorf("imagehost: form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("imagehost: form: %w", err)
	}

	endpoint := c.url + "?key=" + url.QueryEscape(c.key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("imagehost: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("imagehost: upload: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("imagehost: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := gjson.GetBytes(raw, "error.message").String()
		c.log.Warn("image upload rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return "", fmt.Errorf("imagehost: upload: %d %s", resp.StatusCode, msg)
	}
	link := gjson.GetBytes(raw, "data.display_url").String()
	if link == "" {
		return "", errors.New("imagehost: response missing display_url")
	}
	return link, nil
}

// FromForm uploads the named file field when one was submitted. A missing or
// empty field, or a form that is not multipart, returns "" and no error.
func (c *Client) FromForm(r *http.Request, field string) (string, error) {
	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("imagehost: %w", err)
	}
	defer f.Close()
	if hdr.Size == 0 {
		return "", nil
	}
	return c.Upload(r.Context(), hdr.Filename, f)
}
