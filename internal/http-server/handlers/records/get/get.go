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
	"github.com/go-chi/render"
)

type RecordLister interface {
	ListRecords(ctx context.Context, subjectID *string) ([]*api.RecordResponse, error)
}

type Response struct {
	response.Response
	Records []api.RecordResponse `json:"records,omitempty"`
}

func New(log *slog.Logger, lister RecordLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.records.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var subjectIDPtr *string
		if subjectID := r.URL.Query().Get("subject_id"); subjectID != "" {
			subjectIDPtr = &subjectID
		}

		records, err := lister.ListRecords(r.Context(), subjectIDPtr)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("resource not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
			return
		}

		if err != nil {
			log.Error("Failed to list records", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list records"))
			return
		}

		log.Info("Records retrieved", slog.Int("count", len(records)))
		recordsResponse := make([]api.RecordResponse, len(records))
		for i, rec := range records {
			recordsResponse[i] = *rec
		}
		render.JSON(w, r, Response{
			Records: recordsResponse,
		})
	}
}
