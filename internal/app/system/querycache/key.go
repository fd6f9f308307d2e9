package querycache

import (
	"context"
	"net/url"
	"strings"
)

// Key identifies a cached read, e.g. Key{"club", id} or Key{"adminStats"}.
// A key is a prefix of every key that extends it: invalidating
// Key{"membership", id} also drops Key{"membership", id, email}.
type Key []string

// K builds a Key.
func K(parts ...string) Key { return Key(parts) }

// String renders the key with ':' separators; parts are escaped so a ':'
// inside an id cannot fake a deeper key.
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, p := range k {
		parts[i] = url.QueryEscape(p)
	}
	return strings.Join(parts, ":")
}

// Covers reports whether invalidating k removes other.
func (k Key) Covers(other string) bool {
	s := k.String()
	return other == s || strings.HasPrefix(other, s+":")
}

// Scope partitions cached reads. User-specific reads live in that user's
// scope; public reads that do not depend on who asks share one scope.
type Scope string

// Shared is the scope of user-independent reads.
const Shared Scope = "shared"

// UserScope is the scope of reads made with one user's token.
func UserScope(email string) Scope {
	return Scope("u/" + url.QueryEscape(strings.ToLower(strings.TrimSpace(email))))
}

const scopeSep = "|"

func storageKey(scope Scope, key Key) string {
	return string(scope) + scopeSep + key.String()
}

// splitStorageKey returns the key part of a scoped storage key.
func splitStorageKey(sk string) string {
	if i := strings.Index(sk, scopeSep); i >= 0 {
		return sk[i+len(scopeSep):]
	}
	return sk
}

type userCtxKey struct{}

// WithUser records whose reads ctx carries.
func WithUser(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userCtxKey{}, strings.ToLower(strings.TrimSpace(email)))
}

// UserFrom returns the email recorded by WithUser, or "".
func UserFrom(ctx context.Context) string {
	s, _ := ctx.Value(userCtxKey{}).(string)
	return s
}
