package delete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"netattend/pkg/response"
	"netattend/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type SubjectDeleter interface {
	DeleteSubject(ctx context.Context, id string) error
}

// New deletes a subject; its attendance records go with it.
func New(log *slog.Logger, deleter SubjectDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.subjects.delete.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Error("id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "id is required"))
			return
		}

		err := deleter.DeleteSubject(r.Context(), id)

		if errors.Is(err, response.ErrCheckoutPending) {
			log.Error("checkout in progress")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.CHECKOUT_PENDING), "a checkout is in progress"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("resource not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
			return
		}

		if err != nil {
			log.Error("Failed to delete subject", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to delete subject"))
			return
		}

		log.Info("Subject deleted", slog.String("id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}
