package summary

import "net/http"

// Register registers the summary routes with the given mux.
func Register(mux *http.ServeMux, svc Summarizer) {
	mux.Handle("POST /summaries", CreateHandler{Svc: svc})
}
