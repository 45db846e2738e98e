package formapi

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register the component routes.
// It is satisfied by *http.ServeMux; method-qualified patterns require Go
// 1.22 or later.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// RegisterRoutes mounts the blueprint API under basePath on mux:
//
//	GET  {base}/blueprints
//	GET  {base}/blueprints/{key}
//	POST {base}/blueprints/{key}/validate
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) error {
	return RegisterRoutesWithOptions(mux, basePath, NewOptions(fns...))
}

// RegisterRoutesWithOptions mounts the routes using a pre-built Options
// value. Callers are expected to pass an Options produced by NewOptions so
// defaults and clamps apply.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) error {
	if mux == nil {
		return fmt.Errorf("formapi: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	h := &handler{opts: opts}

	base := normalizeBasePath(basePath)
	mux.Handle("GET "+base+"/blueprints", http.HandlerFunc(h.list))
	mux.Handle("GET "+base+"/blueprints/{key}", http.HandlerFunc(h.get))
	mux.Handle("POST "+base+"/blueprints/{key}/validate", http.HandlerFunc(h.validate))
	return nil
}

// Handler returns a standalone http.Handler with the component routes
// mounted at the root.
func Handler(fns ...OptionFn) http.Handler {
	mux := http.NewServeMux()
	// RegisterRoutesWithOptions only fails on a nil mux.
	_ = RegisterRoutesWithOptions(mux, "", NewOptions(fns...))
	return mux
}

func normalizeBasePath(basePath string) string {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" || basePath == "/" {
		return ""
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	return strings.TrimRight(basePath, "/")
}
