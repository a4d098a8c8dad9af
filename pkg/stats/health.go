package stats

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gitscope/gitscope/pkg/db"
	"github.com/gorilla/mux"
)

// HealthController registers the health check routes.
func HealthController(_ context.Context, r *mux.Router) {
	r.HandleFunc("/livez", getLiveness)
	r.HandleFunc("/readyz", getReadiness)
}

func getLiveness(w http.ResponseWriter, r *http.Request) {
	renderStatus(http.StatusOK)(w, r)
}

func getReadiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dbx := db.FromContext(ctx)

	if err := dbx.PingContext(ctx); err != nil {
		renderStatus(http.StatusServiceUnavailable)(w, r)
		return
	}

	renderStatus(http.StatusOK)(w, r)
}

func renderStatus(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
		io.WriteString(w, fmt.Sprintf("%d %s", code, http.StatusText(code))) //nolint:errcheck,gosec
	}
}
