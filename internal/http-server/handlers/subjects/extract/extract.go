package extract

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

type TimetableImporter interface {
	ImportTimetable(ctx context.Context, imageData string) ([]*api.SubjectResponse, error)
}

type Request struct {
	api.ExtractRequest
}

type Response struct {
	response.Response
	Imported int                   `json:"imported"`
	Subjects []api.SubjectResponse `json:"subjects,omitempty"`
}

// New runs timetable extraction over an uploaded image and creates the
// subjects the model could read out of it.
func New(log *slog.Logger, importer TimetableImporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.subjects.extract.New"

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

		if req.ImageData == "" {
			log.Error("image_data is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "image_data is required"))
			return
		}

		subjects, err := importer.ImportTimetable(r.Context(), req.ImageData)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid extract payload", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "image_data is required"))
			return
		}

		if err != nil {
			log.Error("Timetable extraction failed", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "timetable extraction failed"))
			return
		}

		log.Info("Timetable imported", slog.Int("count", len(subjects)))

		subjectsResponse := make([]api.SubjectResponse, len(subjects))
		for i, s := range subjects {
			subjectsResponse[i] = *s
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Imported: len(subjects),
			Subjects: subjectsResponse,
		})
	}
}
