package handler

import (
	"context"
	"net/http"
)

// Pinger is implemented by the submission store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	store         Pinger
	allowedOrigin string
}

func New(store Pinger, allowedOrigin string) *Handler {
	return &Handler{store: store, allowedOrigin: allowedOrigin}
}

func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", h.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if h.allowedOrigin != "*" {
			w.Header().Set("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
