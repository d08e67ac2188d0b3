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

type ProfileGetter interface {
	Profile(ctx context.Context) (*api.ProfileResponse, error)
}

type Response struct {
	response.Response
	Profile api.ProfileResponse `json:"profile,omitempty"`
}

func New(log *slog.Logger, getter ProfileGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.profile.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		profile, err := getter.Profile(r.Context())

		if err != nil {
			log.Error("Failed to get profile", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get profile"))
			return
		}

		log.Info("Profile retrieved", slog.String("roll_no", profile.RollNo))
		render.JSON(w, r, Response{
			Profile: *profile,
		})
	}
}
