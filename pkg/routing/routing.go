// Package routing wraps http.ServeMux so the admin HTTP surface never
// treats "//cache" and "/cache" as distinct routes.
package routing

import (
	"net/http"
	"path"
	"strings"
)

// NormalizedServeMux collapses repeated slashes in the request path before
// delegating to the embedded ServeMux.
type NormalizedServeMux struct {
	*http.ServeMux
}

// NewNormalizedServeMux builds an empty NormalizedServeMux.
func NewNormalizedServeMux() *NormalizedServeMux {
	return &NormalizedServeMux{http.NewServeMux()}
}

// ServeHTTP implements http.Handler.
func (nm *NormalizedServeMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.URL.Path, "//") {
		r.URL.Path = path.Clean(r.URL.Path)
	}
	nm.ServeMux.ServeHTTP(w, r)
}
