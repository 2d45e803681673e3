package clientip

import (
	"net"
	"net/http"
	"strings"
)

// RealClientIP returns the client IP from r.RemoteAddr only (no proxy headers).
// Use it when traffic reaches the app directly.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}

// FromRequest trusts X-Forwarded-For and X-Real-IP before falling back to
// RealClientIP. Only use it behind a proxy that overwrites those headers.
func FromRequest(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// first hop is the client
		if ip := strings.TrimSpace(strings.Split(forwarded, ",")[0]); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return RealClientIP(r)
}

// Resolver returns the address used to key per-client limits.
type Resolver func(r *http.Request) string

// For picks FromRequest when the app sits behind a trusted proxy and
// RealClientIP otherwise.
func For(trustProxy bool) Resolver {
	if trustProxy {
		return FromRequest
	}
	return RealClientIP
}
