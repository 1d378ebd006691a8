// Package clientip resolves the originating client address of a request that
// may have passed through Vercel, Cloudflare or an nginx reverse proxy.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// GetIP returns the client's IP address, checking proxy headers in order:
// CF-Connecting-IP, X-Forwarded-For (first valid entry), X-Real-IP, then RemoteAddr.
// Returns "" when nothing parses as an IP.
func GetIP(r *http.Request) string {
	if ip := parseIP(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for candidate := range strings.SplitSeq(forwarded, ",") {
			if ip := parseIP(candidate); ip != "" {
				return ip
			}
		}
	}

	if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
