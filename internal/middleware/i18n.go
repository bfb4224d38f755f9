package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type localeContextKey struct{}

// LocaleKey stores the detected client locale in the request context.
var LocaleKey = localeContextKey{}

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// Locale detects the client's locale and stores it in the request context.
func Locale(defaultLocale string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := DetectLocale(r)
			if locale == "" {
				locale = defaultLocale
			}
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DetectLocale returns the client's preferred locale from the X-Locale
// header or the first Accept-Language entry, or "en" when neither is set.
func DetectLocale(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("X-Locale")); v != "" {
		return v
	}
	for _, part := range strings.Split(r.Header.Get("Accept-Language"), ",") {
		locale := strings.TrimSpace(strings.Split(part, ";")[0])
		if locale != "" && locale != "*" {
			return locale
		}
	}
	return "en"
}

func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return "en"
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
