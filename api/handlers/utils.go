package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/securegate/admin-portal/api/services"
	"github.com/securegate/admin-portal/internal/i18n"
)

const TimeFormat string = "2006-01-02T15:04:05Z"

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// Health godoc
// @Summary Service health
// @Description Reports whether the service can reach its database. No authentication is required.
// @Tags health
// @Produce json
// @Success 200 {object} models.Response{data=HealthResponse}
// @Failure 503 {object} models.Response
// @Router /health [get]
func Health(db Pinger) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("health check failed")
			services.HandleErrResponse(w, r, http.StatusServiceUnavailable, i18n.MsgUnavailable, err)
			return
		}

		services.HandleSuccessResponse(w, http.StatusOK, HealthResponse{
			Status: "ok",
			Time:   time.Now().UTC().Format(TimeFormat),
		})
	}
}
