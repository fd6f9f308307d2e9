package auth

import (
	"net/http"

	"github.com/dalemusser/clubsphere/internal/app/system/apiclient"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Notice kinds.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
	NoticeInfo    = "info"
)

// Notice is a transient message shown once on the next rendered page.
type Notice struct {
	Kind string
	Text string
}

var noticeKinds = []string{NoticeSuccess, NoticeError, NoticeInfo}

// Notify queues a notice for the next rendered page.
func (sm *SessionManager) Notify(w http.ResponseWriter, r *http.Request, kind, text string) {
	if text == "" {
		return
	}
	sess := sm.session(r)
	sess.AddFlash(text, kind)
	if err := sess.Save(r, w); err != nil {
		sm.log.Warn("failed to save notice", zap.Error(err))
	}
}

// PopNotices returns and clears the queued notices. Call before the
// response body is written.
func (sm *SessionManager) PopNotices(w http.ResponseWriter, r *http.Request) []Notice {
	sess := sm.session(r)
	var out []Notice
	for _, kind := range noticeKinds {
		for _, f := range sess.Flashes(kind) {
			if s, ok := f.(string); ok && s != "" {
				out = append(out, Notice{Kind: kind, Text: s})
			}
		}
	}
	if len(out) > 0 {
		if err := sess.Save(r, w); err != nil {
			sm.log.Warn("failed to clear notices", zap.Error(err))
		}
	}
	return out
}

// HandleAPIError decides what a failed backend call means for the session.
// It returns true when the session was ended and a redirect to /login has
// been written; the caller must stop. Otherwise the caller reports the
// failure for that action only.
//
// A 401 ends the session when the stored token has expired, when the call
// was session-critical, or when a session-critical re-validation is also
// rejected. Any other 401 leaves the session alone.
func (sm *SessionManager) HandleAPIError(w http.ResponseWriter, r *http.Request, err error) bool {
	apiErr, ok := apiclient.AsError(err)
	if !ok || apiErr.Status != http.StatusUnauthorized {
		return false
	}

	sess := sm.session(r)
	if signed, _ := sess.Values[signedInKey].(bool); !signed {
		return false
	}

	reason := ""
	switch {
	case sm.tokenExpired(sess, sm.now()):
		reason = "token expired"
	case apiErr.Critical:
		reason = "session-critical call rejected"
	default:
		if sm.probe(r, sess) {
			reason = "re-validation rejected"
		}
	}
	if reason == "" {
		sm.log.Info("backend returned 401 for a live session; keeping session",
			zap.String("path", apiErr.Path))
		return false
	}

	sm.log.Info("ending session after 401",
		zap.String("path", apiErr.Path),
		zap.String("reason", reason))
	sm.SignOut(w, r)
	redirectToLogin(w, r)
	return true
}

// probe re-validates the token with a session-critical sync and reports
// whether the backend rejected it. Other failures change nothing.
func (sm *SessionManager) probe(r *http.Request, sess *sessions.Session) bool {
	if sm.syncer == nil {
		return false
	}
	token, _ := sess.Values[TokenKey].(string)
	ctx := apiclient.Critical(apiclient.WithToken(r.Context(), token))
	_, err := sm.syncer.Sync(ctx, models.SyncRequest{
		Name:     stringValue(sess, nameKey),
		Email:    stringValue(sess, emailKey),
		PhotoURL: stringValue(sess, photoKey),
	})
	return apiclient.IsUnauthorized(err)
}
