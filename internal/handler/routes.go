package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes groups the HTTP handlers served by the relay.
type Routes struct {
	Base        *Handler
	Submissions *SubmissionHandler
	NotifyLimit *RateLimiter
}

// Router builds the HTTP handler tree, middleware included.
func (rt Routes) Router() http.Handler {
	notifyHandler := http.Handler(http.HandlerFunc(rt.Submissions.Notify))
	if rt.NotifyLimit != nil {
		notifyHandler = rt.NotifyLimit.Middleware(notifyHandler)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", rt.Base.Health)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("POST /notify", notifyHandler)
	// No authentication on listing.
	mux.HandleFunc("GET /submissions", rt.Submissions.List)

	return RequestLogger(SecurityHeaders(rt.Base.CORS(mux)))
}
