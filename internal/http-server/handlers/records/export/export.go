package export

import (
	"context"
	"log/slog"
	"net/http"
	"netattend/pkg/response"
	"netattend/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type RecordExporter interface {
	ExportRecordsCSV(ctx context.Context) ([]byte, error)
}

// New streams the full attendance history as a CSV download.
func New(log *slog.Logger, exporter RecordExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.records.export.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		raw, err := exporter.ExportRecordsCSV(r.Context())

		if err != nil {
			log.Error("Failed to export records", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to export records"))
			return
		}

		log.Info("Records exported", slog.Int("bytes", len(raw)))

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="attendance.csv"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(raw)
	}
}
