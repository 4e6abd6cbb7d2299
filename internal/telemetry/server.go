package telemetry

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

var (
	// ErrUnavailable marks a view that cannot be computed yet.
	ErrUnavailable = errors.New("view unavailable")
	// ErrNotFound marks a view of a player who is not in the game.
	ErrNotFound = errors.New("player not found")
)

// StatusSource is what the status surface reports on.
type StatusSource interface {
	Health() interface{}
	View(viewerID, targetID string) (interface{}, error)
}

// Routes builds the local status router: /healthz, /metrics and /view.
func Routes(src StatusSource, m *Metrics) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, src.Health())
	})
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}
	r.Get("/view", func(w http.ResponseWriter, r *http.Request) {
		viewer := r.URL.Query().Get("viewer")
		target := r.URL.Query().Get("target")
		if viewer == "" {
			http.Error(w, "viewer is required", http.StatusBadRequest)
			return
		}
		if target == "" {
			target = viewer
		}

		view, err := src.View(viewer, target)
		switch {
		case errors.Is(err, ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrUnavailable):
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		case err != nil:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		default:
			writeJSON(w, http.StatusOK, view)
		}
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
