package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	DefaultIdentityToolkitURL = "https://identitytoolkit.googleapis.com/v1"
	DefaultSecureTokenURL     = "https://securetoken.googleapis.com/v1"
)

// FirebaseConfig configures the Firebase Authentication REST provider.
type FirebaseConfig struct {
	APIKey string
	// IdentityToolkitURL and SecureTokenURL override the Google endpoints.
	IdentityToolkitURL string
	SecureTokenURL     string
	HTTPClient         *http.Client
	Logger             *zap.Logger
}

// Firebase implements Provider on the Firebase Authentication REST API.
type Firebase struct {
	apiKey     string
	toolkitURL string
	tokenURL   string
	httpClient *http.Client
	log        *zap.Logger
	now        func() time.Time
}

// NewFirebase creates the provider.
func NewFirebase(cfg FirebaseConfig) *Firebase {
	f := &Firebase{
		apiKey:     cfg.APIKey,
		toolkitURL: strings.TrimSuffix(cfg.IdentityToolkitURL, "/"),
		tokenURL:   strings.TrimSuffix(cfg.SecureTokenURL, "/"),
		httpClient: cfg.HTTPClient,
		log:        cfg.Logger,
		now:        time.Now,
	}
	if f.toolkitURL == "" {
		f.toolkitURL = DefaultIdentityToolkitURL
	}
	if f.tokenURL == "" {
		f.tokenURL = DefaultSecureTokenURL
	}
	if f.httpClient == nil {
		f.httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if f.log == nil {
		f.log = zap.NewNop()
	}
	return f
}

var _ Provider = (*Firebase)(nil)

// SignIn signs in with email and password.
func (f *Firebase) SignIn(ctx context.Context, email, password string) (*Result, error) {
	body, err := f.toolkit(ctx, "signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}
	res := f.result(body)

	// signInWithPassword omits the photo; lookup fills it in.
	if info, err := f.toolkit(ctx, "lookup", map[string]any{"idToken": res.Tokens.IDToken}); err == nil {
		u := gjson.GetBytes(info, "users.0")
		if v := u.Get("photoUrl").String(); v != "" {
			res.User.PhotoURL = v
		}
		if v := u.Get("displayName").String(); v != "" {
			res.User.DisplayName = v
		}
	} else {
		f.log.Debug("account lookup after sign-in failed", zap.Error(err))
	}
	return res, nil
}

// SignUp creates an account and sets its display name and photo.
func (f *Firebase) SignUp(ctx context.Context, email, password, displayName, photoURL string) (*Result, error) {
	body, err := f.toolkit(ctx, "signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}
	res := f.result(body)

	if displayName != "" || photoURL != "" {
		if err := f.UpdateProfile(ctx, res.Tokens.IDToken, displayName, photoURL); err != nil {
			return nil, err
		}
		res.User.DisplayName = displayName
		res.User.PhotoURL = photoURL
	}
	return res, nil
}

// SignInWithGoogle exchanges a Google ID token for a Firebase session.
func (f *Firebase) SignInWithGoogle(ctx context.Context, googleIDToken, requestURI string) (*Result, error) {
	post := url.Values{}
	post.Set("id_token", googleIDToken)
	post.Set("providerId", "google.com")

	body, err := f.toolkit(ctx, "signInWithIdp", map[string]any{
		"postBody":            post.Encode(),
		"requestUri":          requestURI,
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	})
	if err != nil {
		return nil, err
	}
	return f.result(body), nil
}

// Refresh exchanges a refresh token for a new ID token.
func (f *Firebase) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	if f.apiKey == "" {
		return nil, ErrNotConfigured
	}
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	endpoint := f.tokenURL + "/token?key=" + url.QueryEscape(f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("identity refresh: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := f.send(req, "refresh")
	if err != nil {
		return nil, err
	}
	return &Tokens{
		IDToken:      gjson.GetBytes(body, "id_token").String(),
		RefreshToken: gjson.GetBytes(body, "refresh_token").String(),
		ExpiresAt:    f.expiry(gjson.GetBytes(body, "expires_in").String()),
	}, nil
}

// UpdateProfile sets the account's display name and photo.
func (f *Firebase) UpdateProfile(ctx context.Context, idToken, displayName, photoURL string) error {
	payload := map[string]any{
		"idToken":           idToken,
		"returnSecureToken": false,
	}
	if displayName != "" {
		payload["displayName"] = displayName
	}
	if photoURL != "" {
		payload["photoUrl"] = photoURL
	}
	_, err := f.toolkit(ctx, "update", payload)
	return err
}

func (f *Firebase) toolkit(ctx context.Context, method string, payload map[string]any) ([]byte, error) {
	if f.apiKey == "" {
		return nil, ErrNotConfigured
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("identity %s: %w", method, err)
	}
	endpoint := f.toolkitURL + "/accounts:" + method + "?key=" + url.QueryEscape(f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("identity %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return f.send(req, method)
}

func (f *Firebase) send(req *http.Request, op string) ([]byte, error) {
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity %s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("identity %s: read: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		code := gjson.GetBytes(body, "error.message").String()
		if code == "" {
			code = http.StatusText(resp.StatusCode)
		}
		f.log.Info("identity provider rejected request",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("code", code))
		return nil, &Error{Op: op, Status: resp.StatusCode, Code: code}
	}
	return body, nil
}

func (f *Firebase) result(body []byte) *Result {
	return &Result{
		User: User{
			UID:         gjson.GetBytes(body, "localId").String(),
			Email:       gjson.GetBytes(body, "email").String(),
			DisplayName: gjson.GetBytes(body, "displayName").String(),
			PhotoURL:    gjson.GetBytes(body, "photoUrl").String(),
		},
		Tokens: Tokens{
			IDToken:      gjson.GetBytes(body, "idToken").String(),
			RefreshToken: gjson.GetBytes(body, "refreshToken").String(),
			ExpiresAt:    f.expiry(gjson.GetBytes(body, "expiresIn").String()),
		},
	}
}

// expiry turns Firebase's "expiresIn" seconds string into an instant.
func (f *Firebase) expiry(secs string) time.Time {
	n, err := strconv.Atoi(secs)
	if err != nil || n <= 0 {
		n = 3600
	}
	return f.now().Add(time.Duration(n) * time.Second)
}
