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

type SubjectCreator interface {
	CreateSubject(ctx context.Context, req *api.SubjectRequest) (*api.SubjectResponse, error)
}

type Request struct {
	api.SubjectRequest
}

type Response struct {
	response.Response
	Subject api.SubjectResponse `json:"subject,omitempty"`
}

func New(log *slog.Logger, creator SubjectCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.subjects.create.New"

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

		log.Info("Request body decoded", slog.Any("request", req))

		if req.Name == "" {
			log.Error("name is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "name is required"))
			return
		}

		subject, err := creator.CreateSubject(r.Context(), &req.SubjectRequest)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid subject payload", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid schedule fields"))
			return
		}

		if err != nil {
			log.Error("Failed to create subject", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create subject"))
			return
		}

		log.Info("Subject created", slog.Any("subject", subject))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Subject: *subject,
		})
	}
}
