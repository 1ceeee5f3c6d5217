// Package middleware provides cross-origin support for browser clients such as
// forum front ends that request summaries directly.
package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds the configuration for CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists permitted origins. An entry may use a leading
	// wildcard label, e.g. "https://*.forum.example", to allow every subdomain.
	// "*" allows any origin.
	AllowedOrigins []string

	// AllowedMethods defaults to POST, GET and OPTIONS.
	AllowedMethods []string

	// AllowedHeaders defaults to Content-Type and X-Request-ID.
	AllowedHeaders []string

	// MaxAge is how long preflight results can be cached, in seconds.
	MaxAge int

	Logger *slog.Logger
}

// OriginValidator decides whether an Origin header is allowed.
type OriginValidator struct {
	any      bool
	exact    map[string]struct{}
	suffixes []wildcardOrigin
}

type wildcardOrigin struct {
	scheme string // "https://"
	suffix string // ".forum.example"
}

// NewOriginValidator normalizes origins (lowercase, no trailing slash) and
// splits them into exact and wildcard entries. Empty entries are ignored.
func NewOriginValidator(origins []string) *OriginValidator {
	v := &OriginValidator{exact: make(map[string]struct{})}
	for _, origin := range origins {
		origin = normalizeOrigin(origin)
		switch {
		case origin == "":
		case origin == "*":
			v.any = true
		case strings.Contains(origin, "://*."):
			scheme, host, _ := strings.Cut(origin, "://")
			v.suffixes = append(v.suffixes, wildcardOrigin{scheme: scheme + "://", suffix: host[1:]})
		default:
			v.exact[origin] = struct{}{}
		}
	}
	return v
}

// IsAllowed reports whether origin matches the configured origins.
func (v *OriginValidator) IsAllowed(origin string) bool {
	origin = normalizeOrigin(origin)
	if origin == "" {
		return false
	}
	if v.any {
		return true
	}
	if _, ok := v.exact[origin]; ok {
		return true
	}
	for _, w := range v.suffixes {
		rest, ok := strings.CutPrefix(origin, w.scheme)
		if !ok {
			continue
		}
		if label, ok := strings.CutSuffix(rest, w.suffix); ok && label != "" && !strings.ContainsAny(label, "/.") {
			return true
		}
	}
	return false
}

func normalizeOrigin(origin string) string {
	origin = strings.ToLower(strings.TrimSpace(origin))
	return strings.TrimSuffix(origin, "/")
}

// CORS returns middleware that answers preflight requests and sets CORS headers
// for allowed origins. Requests without an Origin header pass through untouched.
// Disallowed origins get no CORS headers, so browsers block the response.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	validator := NewOriginValidator(config.AllowedOrigins)

	methods := config.AllowedMethods
	if len(methods) == 0 {
		methods = []string{http.MethodPost, http.MethodGet, http.MethodOptions}
	}
	headers := config.AllowedHeaders
	if len(headers) == 0 {
		headers = []string{"Content-Type", "X-Request-ID"}
	}
	allowMethods := strings.Join(methods, ", ")
	allowHeaders := strings.Join(headers, ", ")
	maxAge := strconv.Itoa(config.MaxAge)

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Origin")

			if !validator.IsAllowed(origin) {
				logger.Warn("CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("path", r.URL.Path),
					slog.String("method", r.Method))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Retry-After")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", allowMethods)
				w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
				if config.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", maxAge)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
