package get

import (
	"context"
	"log/slog"
	"net/http"
	"netattend/api"
	"netattend/pkg/response"
	"netattend/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type StatsGetter interface {
	Stats(ctx context.Context) (*api.StatsResponse, error)
}

type Response struct {
	response.Response
	Stats api.StatsResponse `json:"stats,omitempty"`
}

func New(log *slog.Logger, getter StatsGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.stats.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		stats, err := getter.Stats(r.Context())

		if err != nil {
			log.Error("Failed to compute stats", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to compute stats"))
			return
		}

		log.Info("Stats computed", slog.Int("overall", stats.OverallPercentage))
		render.JSON(w, r, Response{
			Stats: *stats,
		})
	}
}
