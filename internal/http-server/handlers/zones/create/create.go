package create

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

type ZoneCreator interface {
	CreateZone(ctx context.Context, req *api.ZoneRequest) (*api.ZoneResponse, error)
}

type Request struct {
	api.ZoneRequest
}

type Response struct {
	response.Response
	Zone api.ZoneResponse `json:"zone,omitempty"`
}

func New(log *slog.Logger, creator ZoneCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.zones.create.New"

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

		if req.SSID == "" {
			log.Error("ssid is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "ssid is required"))
			return
		}

		zone, err := creator.CreateZone(r.Context(), &req.ZoneRequest)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid zone payload", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "ssid is required"))
			return
		}

		if err != nil {
			log.Error("Failed to create zone", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create zone"))
			return
		}

		log.Info("Zone created", slog.Any("zone", zone))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Zone: *zone,
		})
	}
}
