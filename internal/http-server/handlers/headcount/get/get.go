package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"netattend/api"
	"netattend/pkg/response"
	"netattend/pkg/sl"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type HeadcountEstimator interface {
	Headcount(ctx context.Context, expected int) (*api.HeadcountResponse, error)
}

type Response struct {
	response.Response
	Headcount api.HeadcountResponse `json:"headcount,omitempty"`
}

// New asks the model boundary for a simulated headcount of the current class.
func New(log *slog.Logger, estimator HeadcountEstimator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.headcount.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		expected, err := strconv.Atoi(r.URL.Query().Get("expected"))
		if err != nil || expected <= 0 {
			log.Error("expected is missing or invalid")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "expected must be a positive integer"))
			return
		}

		headcount, err := estimator.Headcount(r.Context(), expected)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid headcount request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "expected must be a positive integer"))
			return
		}

		if err != nil {
			log.Error("Failed to estimate headcount", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to estimate headcount"))
			return
		}

		log.Info("Headcount estimated", slog.Int("estimated", headcount.Estimated))
		render.JSON(w, r, Response{
			Headcount: *headcount,
		})
	}
}
