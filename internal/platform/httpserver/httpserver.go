package httpserver

import (
	"net/http"
	"time"
)

// New builds the registry's HTTP server. Write and idle timeouts stay above
// the router's 30s request timeout so the middleware, not the server, decides
// when a slow handler is cut off.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
