package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"netattend/api"
	"netattend/pkg/response"
	"netattend/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, req *api.ProfileRequest) (*api.ProfileResponse, error)
}

type Request struct {
	api.ProfileRequest
}

type Response struct {
	response.Response
	Profile api.ProfileResponse `json:"profile,omitempty"`
}

func New(log *slog.Logger, updater ProfileUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.profile.update.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		if req.Name == "" {
			log.Error("name is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "name is required"))
			return
		}

		if req.RollNo == "" {
			log.Error("roll_no is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "roll_no is required"))
			return
		}

		profile, err := updater.UpdateProfile(r.Context(), &req.ProfileRequest)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid profile payload", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid profile fields"))
			return
		}

		if err != nil {
			log.Error("Failed to update profile", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to update profile"))
			return
		}

		log.Info("Profile updated", slog.String("roll_no", profile.RollNo), slog.String("mode", profile.Mode))
		render.JSON(w, r, Response{
			Profile: *profile,
		})
	}
}
