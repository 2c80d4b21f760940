// package server hosts the loopback HTTP listener for the OAuth2 callback
package server

import (
	"net/http"
)

// Handler defines the interface for HTTP request handlers served by the
// callback listener.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// BasicRouter is a small HTTP router backed by [http.ServeMux].
type BasicRouter struct {
	mux *http.ServeMux
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Handler registers a custom Handler implementation on all routes it serves.
func (r *BasicRouter) Handler(handler Handler) {
	for _, route := range handler.Routes() {
		r.mux.Handle(route, handler)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
