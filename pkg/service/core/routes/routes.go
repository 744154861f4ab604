package routes

import (
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/docker/cli/cli/command/formatter/tabwriter"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
)

type AddRoutesFn func(router chi.Router)

var anyOrigin = []string{"https://*", "http://*"}

// Add mounts the routes behind a CORS policy that lets browsers on
// allowedOrigins call the console API and read the export file name. No
// origins means any http(s) origin.
func Add(r chi.Router, allowedOrigins []string, routes ...AddRoutesFn) {
	if len(allowedOrigins) == 0 {
		allowedOrigins = anyOrigin
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	for _, route := range routes {
		route(r)
	}
}

type routeRow struct {
	method      string
	pattern     string
	middlewares int
}

// Print writes the route table sorted by pattern and method.
func Print(r chi.Router, out io.Writer) error {
	var table []routeRow

	err := chi.Walk(r, func(method, pattern string, _ http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		table = append(table, routeRow{method: method, pattern: pattern, middlewares: len(middlewares)})

		return nil
	})
	if err != nil {
		return fmt.Errorf("walking routes: %w", err)
	}

	sort.Slice(table, func(i, j int) bool {
		if table[i].pattern != table[j].pattern {
			return table[i].pattern < table[j].pattern
		}

		return table[i].method < table[j].method
	})

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "Method\tRoute\tMiddlewares")

	for _, rt := range table {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\n", rt.method, rt.pattern, rt.middlewares)
	}

	return w.Flush()
}
