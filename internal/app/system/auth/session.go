package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/clubsphere/internal/app/system/apiclient"
	"github.com/dalemusser/clubsphere/internal/app/system/identity"
	"github.com/dalemusser/clubsphere/internal/app/system/metrics"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// TokenKey is the session key under which the bearer token is stored.
const TokenKey = "access-token"

const (
	signedInKey     = "signed-in"
	uidKey          = "uid"
	emailKey        = "email"
	nameKey         = "name"
	photoKey        = "photo"
	roleKey         = "role"
	refreshTokenKey = "refresh-token"
	tokenExpKey     = "token-exp"
	syncAttemptsKey = "sync-attempts"
	nextSyncAtKey   = "next-sync-at"
	roleSyncedAtKey = "role-synced-at"
)

// Syncer pushes the provider identity to the backend and returns the role.
type Syncer interface {
	Sync(ctx context.Context, req models.SyncRequest) (*models.SyncResult, error)
}

// Config configures a SessionManager.
type Config struct {
	SessionKey string // HMAC key, 32+ chars
	BlockKey   string // AES key, 16/24/32 bytes; random when empty
	Name       string
	Domain     string
	MaxAge     time.Duration
	Secure     bool

	SyncBackoffBase    time.Duration
	SyncBackoffMax     time.Duration
	TokenRefreshWindow time.Duration
	RoleResyncInterval time.Duration // re-sync a resolved role this often
}

// SessionManager owns the browser session: identity, bearer token, role
// resolution, and flash notices.
type SessionManager struct {
	store         *sessions.CookieStore
	name          string
	provider      identity.Provider
	syncer        Syncer
	backoffBase   time.Duration
	backoffMax    time.Duration
	refreshWindow time.Duration
	resyncEvery   time.Duration
	log           *zap.Logger
	now           func() time.Time
}

// NewSessionManager builds the cookie store. The provider and syncer are
// attached with SetProvider and SetSyncer once they exist.
func NewSessionManager(cfg Config, logger *zap.Logger) (*SessionManager, error) {
	if cfg.SessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(cfg.SessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(cfg.SessionKey)))
	}

	block := []byte(cfg.BlockKey)
	switch len(block) {
	case 16, 24, 32:
	case 0:
		block = securecookie.GenerateRandomKey(32)
		logger.Warn("session block key not set; generated one, sessions will not survive a restart")
	default:
		return nil, fmt.Errorf("session block key must be 16, 24 or 32 bytes, got %d", len(block))
	}

	store := sessions.NewCookieStore([]byte(cfg.SessionKey), block)
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	opts := &sessions.Options{
		Domain:   cfg.Domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   cfg.Secure,
		HttpOnly: true,
	}
	if cfg.Secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts
	store.MaxAge(opts.MaxAge)

	name := cfg.Name
	if name == "" {
		name = "clubsphere-session"
	}

	sm := &SessionManager{
		store:         store,
		name:          name,
		backoffBase:   cfg.SyncBackoffBase,
		backoffMax:    cfg.SyncBackoffMax,
		refreshWindow: cfg.TokenRefreshWindow,
		resyncEvery:   cfg.RoleResyncInterval,
		log:           logger,
		now:           time.Now,
	}
	if sm.backoffBase <= 0 {
		sm.backoffBase = 5 * time.Second
	}
	if sm.backoffMax < sm.backoffBase {
		sm.backoffMax = 5 * time.Minute
	}
	if sm.resyncEvery <= 0 {
		sm.resyncEvery = 10 * time.Minute
	}

	logger.Info("session store initialized",
		zap.Bool("secure", cfg.Secure),
		zap.String("domain", cfg.Domain),
		zap.String("name", name))
	return sm, nil
}

// SetProvider attaches the identity provider used for token refresh.
func (sm *SessionManager) SetProvider(p identity.Provider) { sm.provider = p }

// SetSyncer attaches the backend identity sync.
func (sm *SessionManager) SetSyncer(s Syncer) { sm.syncer = s }

// SetClock replaces time.Now. For tests.
func (sm *SessionManager) SetClock(now func() time.Time) { sm.now = now }

func (sm *SessionManager) session(r *http.Request) *sessions.Session {
	// A cookie that fails to decode yields a fresh session.
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		sm.log.Debug("session cookie rejected; starting fresh", zap.Error(err))
	}
	return sess
}

/*─────────────────────────────────────────────────────────────────────────────*
| Sign-in / sign-out                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// Begin records a successful provider sign-in: the raw identity and token
// go into the session, state becomes resolving, and the backend sync runs
// once. The returned user carries the role when the sync succeeded.
func (sm *SessionManager) Begin(w http.ResponseWriter, r *http.Request, res *identity.Result) (*SessionUser, error) {
	sess := sm.session(r)

	// Drop anything a previous identity left behind.
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Values[signedInKey] = true
	sess.Values[uidKey] = res.User.UID
	sess.Values[emailKey] = res.User.Email
	sess.Values[nameKey] = res.User.DisplayName
	sess.Values[photoKey] = res.User.PhotoURL
	sess.Values[TokenKey] = res.Tokens.IDToken
	sess.Values[refreshTokenKey] = res.Tokens.RefreshToken
	if !res.Tokens.ExpiresAt.IsZero() {
		sess.Values[tokenExpKey] = res.Tokens.ExpiresAt.Unix()
	}
	metrics.SessionEvent("signin")

	sm.syncNow(r.Context(), sess)

	if err := sess.Save(r, w); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return userFromSession(sess), nil
}

// UpdateIdentity rewrites the stored display name and photo after a
// profile edit and re-syncs them to the backend.
func (sm *SessionManager) UpdateIdentity(w http.ResponseWriter, r *http.Request, name, photoURL string) error {
	sess := sm.session(r)
	if signed, _ := sess.Values[signedInKey].(bool); !signed {
		return nil
	}
	sess.Values[nameKey] = name
	if photoURL != "" {
		sess.Values[photoKey] = photoURL
	}
	sm.syncNow(r.Context(), sess)
	return sess.Save(r, w)
}

// SignOut discards the provider session and the stored token and expires
// the cookie. The caller redirects afterwards.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) {
	sess := sm.session(r)
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		sm.log.Warn("failed to expire session cookie", zap.Error(err))
	}
	metrics.SessionEvent("signout")
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadSession injects the current user and bearer token into r.Context().
// Along the way it refreshes a token close to expiry, retries a pending
// role sync whose backoff has elapsed, and re-syncs a resolved role after
// every refresh and once the resync interval has passed, so a role changed
// on the backend reaches the session.
func (sm *SessionManager) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sm.session(r)
		if signed, _ := sess.Values[signedInKey].(bool); !signed {
			next.ServeHTTP(w, r)
			return
		}

		dirty := false
		refreshed := false
		now := sm.now()

		if sm.needsRefresh(sess, now) {
			switch err := sm.refresh(r.Context(), sess); {
			case err == nil:
				dirty = true
				refreshed = true
			case sm.tokenExpired(sess, now):
				sm.log.Info("token expired and refresh failed; signing out", zap.Error(err))
				sm.SignOut(w, r)
				next.ServeHTTP(w, r)
				return
			default:
				sm.log.Warn("token refresh failed", zap.Error(err))
			}
		}

		if sm.syncDue(sess, now, refreshed) {
			if errors.Is(sm.syncNow(r.Context(), sess), errSessionRejected) {
				sm.SignOut(w, r)
				next.ServeHTTP(w, r)
				return
			}
			dirty = true
		}

		if dirty {
			if err := sess.Save(r, w); err != nil {
				sm.log.Warn("failed to save session", zap.Error(err))
			}
		}

		token, _ := sess.Values[TokenKey].(string)
		next.ServeHTTP(w, withUser(r, userFromSession(sess), token))
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Role sync                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

var errSessionRejected = errors.New("backend rejected the session token")

// syncDue reports whether this request should run the backend sync. An
// unresolved role waits out its backoff; a resolved one is re-synced after a
// token refresh or once resyncEvery has passed since the last success.
func (sm *SessionManager) syncDue(sess *sessions.Session, now time.Time, refreshed bool) bool {
	if role, _ := sess.Values[roleKey].(string); role == "" {
		due, _ := sess.Values[nextSyncAtKey].(int64)
		return due == 0 || !now.Before(time.Unix(due, 0))
	}
	if refreshed {
		return true
	}
	synced, _ := sess.Values[roleSyncedAtKey].(int64)
	return synced == 0 || now.Sub(time.Unix(synced, 0)) >= sm.resyncEvery
}

// syncNow pushes the identity to the backend. On success the role is stored
// and the backoff cleared. On failure the session stays resolving and the
// next attempt is scheduled; a 401 returns errSessionRejected.
func (sm *SessionManager) syncNow(ctx context.Context, sess *sessions.Session) error {
	if sm.syncer == nil {
		return nil
	}
	token, _ := sess.Values[TokenKey].(string)
	ctx = apiclient.Critical(apiclient.WithToken(ctx, token))

	res, err := sm.syncer.Sync(ctx, models.SyncRequest{
		Name:     stringValue(sess, nameKey),
		Email:    stringValue(sess, emailKey),
		PhotoURL: stringValue(sess, photoKey),
	})
	if err == nil && res != nil && models.ParseRole(string(res.Role)).Valid() {
		role := string(models.ParseRole(string(res.Role)))
		if prev, _ := sess.Values[roleKey].(string); prev != "" && prev != role {
			sm.log.Info("backend changed the session role",
				zap.String("email", stringValue(sess, emailKey)),
				zap.String("from", prev),
				zap.String("to", role))
		}
		sess.Values[roleKey] = role
		sess.Values[roleSyncedAtKey] = sm.now().Unix()
		delete(sess.Values, syncAttemptsKey)
		delete(sess.Values, nextSyncAtKey)
		metrics.SessionEvent("sync_ok")
		return nil
	}
	if err == nil {
		err = fmt.Errorf("sync returned no usable role")
	}

	metrics.SessionEvent("sync_failed")
	if apiclient.IsUnauthorized(err) {
		sm.log.Info("identity sync rejected by backend", zap.String("email", stringValue(sess, emailKey)))
		return errSessionRejected
	}

	attempts, _ := sess.Values[syncAttemptsKey].(int)
	attempts++
	delay := sm.backoff(attempts)
	sess.Values[syncAttemptsKey] = attempts
	sess.Values[nextSyncAtKey] = sm.now().Add(delay).Unix()
	delete(sess.Values, roleKey)
	delete(sess.Values, roleSyncedAtKey)

	sm.log.Warn("identity sync failed; role stays unresolved",
		zap.String("email", stringValue(sess, emailKey)),
		zap.Int("attempts", attempts),
		zap.Duration("retry_in", delay),
		zap.Error(err))
	return err
}

// backoff returns base·2^(attempts-1), capped at max.
func (sm *SessionManager) backoff(attempts int) time.Duration {
	d := sm.backoffBase
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= sm.backoffMax {
			return sm.backoffMax
		}
	}
	return d
}

/*─────────────────────────────────────────────────────────────────────────────*
| Token freshness                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (sm *SessionManager) tokenExpiry(sess *sessions.Session) time.Time {
	if exp, ok := sess.Values[tokenExpKey].(int64); ok && exp > 0 {
		return time.Unix(exp, 0)
	}
	token, _ := sess.Values[TokenKey].(string)
	return identity.ExpiresAt(token)
}

func (sm *SessionManager) tokenExpired(sess *sessions.Session, now time.Time) bool {
	exp := sm.tokenExpiry(sess)
	return !exp.IsZero() && !now.Before(exp)
}

func (sm *SessionManager) needsRefresh(sess *sessions.Session, now time.Time) bool {
	if sm.provider == nil || sm.refreshWindow <= 0 {
		return false
	}
	if rt, _ := sess.Values[refreshTokenKey].(string); rt == "" {
		return false
	}
	exp := sm.tokenExpiry(sess)
	return !exp.IsZero() && exp.Sub(now) <= sm.refreshWindow
}

func (sm *SessionManager) refresh(ctx context.Context, sess *sessions.Session) error {
	rt, _ := sess.Values[refreshTokenKey].(string)
	tok, err := sm.provider.Refresh(ctx, rt)
	if err != nil {
		return err
	}
	sess.Values[TokenKey] = tok.IDToken
	if tok.RefreshToken != "" {
		sess.Values[refreshTokenKey] = tok.RefreshToken
	}
	if !tok.ExpiresAt.IsZero() {
		sess.Values[tokenExpKey] = tok.ExpiresAt.Unix()
	}
	metrics.SessionEvent("refresh")
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func userFromSession(sess *sessions.Session) *SessionUser {
	u := &SessionUser{
		UID:      stringValue(sess, uidKey),
		Name:     stringValue(sess, nameKey),
		Email:    stringValue(sess, emailKey),
		PhotoURL: stringValue(sess, photoKey),
		Role:     models.ParseRole(stringValue(sess, roleKey)),
		State:    StateResolving,
	}
	if u.Role.Valid() {
		u.State = StateAuthenticated
	}
	u.SyncAttempts, _ = sess.Values[syncAttemptsKey].(int)
	if next, ok := sess.Values[nextSyncAtKey].(int64); ok && next > 0 {
		u.NextSyncAt = time.Unix(next, 0)
	}
	return u
}

func stringValue(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
