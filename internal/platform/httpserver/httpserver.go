package httpserver

import (
	"net/http"
	"time"
)

// New builds the API server. The write timeout stays generous because
// run-all requests drain whole stage backlogs before responding.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       time.Minute,
	}
}
