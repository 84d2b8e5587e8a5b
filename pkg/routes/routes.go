// Package routes declares HTTP routes as data and registers them on a ServeMux.
package routes

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/veritas/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler. OpenAPI, when set,
// documents the route in generated specs.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Group nests routes under a shared prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Mux is satisfied by *http.ServeMux and any router exposing the same
// registration method.
type Mux interface {
	HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request))
}

// Register adds every route in groups to mux.
func Register(mux Mux, groups ...Group) {
	walk(groups, func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, h)
	})
}

// Patterns lists the ServeMux patterns groups would register, in order.
func Patterns(groups ...Group) []string {
	var out []string
	walk(groups, func(pattern string, _ http.HandlerFunc) {
		out = append(out, pattern)
	})
	return out
}

// Document adds every route carrying an OpenAPI operation to spec.
// ServeMux wildcards such as {index} and the {$} anchor map to OpenAPI paths.
func Document(spec *openapi.Spec, groups ...Group) {
	walkRoutes(groups, func(path string, r Route) {
		if r.OpenAPI == nil {
			return
		}
		path = strings.TrimSuffix(path, "{$}")
		if path == "" {
			path = "/"
		}
		spec.AddOperation(r.Method, path, r.OpenAPI)
	})
}

func walk(groups []Group, visit func(pattern string, h http.HandlerFunc)) {
	walkRoutes(groups, func(path string, r Route) {
		visit(r.Method+" "+path, r.Handler)
	})
}

func walkRoutes(groups []Group, visit func(path string, r Route)) {
	var rec func(parent string, g Group)
	rec = func(parent string, g Group) {
		prefix := parent + g.Prefix
		for _, r := range g.Routes {
			visit(prefix+r.Pattern, r)
		}
		for _, c := range g.Children {
			rec(prefix, c)
		}
	}
	for _, g := range groups {
		rec("", g)
	}
}
