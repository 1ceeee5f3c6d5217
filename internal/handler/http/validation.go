package http

import (
	"errors"
	"mime"
	"net/http"

	"forum-summarizer/internal/handler/http/respond"
)

// DefaultMaxBodyBytes is the request body limit used when none is configured.
const DefaultMaxBodyBytes int64 = 1 << 20

const maxPathLength = 2048

var (
	errURITooLong           = errors.New("URI too long")
	errUnsupportedMediaType = errors.New("content type must be application/json")
)

// InputValidation returns middleware that validates and limits request inputs.
// It enforces limits on:
// - URI path length (2KB)
// - Content-Type of requests with a body (application/json)
// - Request body size (maxBodyBytes, DefaultMaxBodyBytes when <= 0)
func InputValidation(maxBodyBytes int64) func(http.Handler) http.Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > maxPathLength {
				respond.Error(w, http.StatusRequestURITooLong, errURITooLong)
				return
			}

			if hasBody(r.Method) && !isJSON(r.Header.Get("Content-Type")) {
				respond.Error(w, http.StatusUnsupportedMediaType, errUnsupportedMediaType)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

			next.ServeHTTP(w, r)
		})
	}
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}
