// Package httptransport assembles the public HTTP surface.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"courier/internal/transport/http/shared"
)

// Registrar mounts a feature's routes onto the router.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires all public endpoints. Feature handlers register their own
// routes and middleware so transport concerns remain isolated.
func NewRouter(features ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Get("/health-check", handleHealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, f := range features {
		f.Register(r)
	}
	return r
}

func handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
