package bridge

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// tokenAuth compares presented tokens in constant time. An empty expected
// token disables the check.
type tokenAuth struct {
	token []byte
}

func newTokenAuth(token string) tokenAuth {
	return tokenAuth{token: []byte(token)}
}

func (a tokenAuth) enabled() bool { return len(a.token) > 0 }

func (a tokenAuth) check(presented string) bool {
	if !a.enabled() {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(presented), a.token) == 1
}

// bearer extracts the token of an "Authorization: Bearer <token>" header.
func bearer(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
