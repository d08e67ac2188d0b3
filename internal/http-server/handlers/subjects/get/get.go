package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"netattend/api"
	"netattend/pkg/response"
	"netattend/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type SubjectGetter interface {
	GetSubject(ctx context.Context, id string) (*api.SubjectResponse, error)
	ListSubjects(ctx context.Context) ([]*api.SubjectResponse, error)
}

type Response struct {
	response.Response
	Subjects []api.SubjectResponse `json:"subjects,omitempty"`
	Subject  *api.SubjectResponse  `json:"subject,omitempty"`
}

func New(log *slog.Logger, getter SubjectGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.subjects.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		if id != "" {
			subject, err := getter.GetSubject(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("resource not found")
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get subject", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get subject"))
				return
			}

			log.Info("Subject retrieved", slog.Any("subject", subject))
			render.JSON(w, r, Response{
				Subject: subject,
			})
			return
		}

		subjects, err := getter.ListSubjects(r.Context())

		if err != nil {
			log.Error("Failed to list subjects", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list subjects"))
			return
		}

		log.Info("Subjects retrieved", slog.Int("count", len(subjects)))
		subjectsResponse := make([]api.SubjectResponse, len(subjects))
		for i, s := range subjects {
			subjectsResponse[i] = *s
		}
		render.JSON(w, r, Response{
			Subjects: subjectsResponse,
		})
	}
}
