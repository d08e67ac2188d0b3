package checkout

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

type CheckOuter interface {
	CheckOut(ctx context.Context, subjectID string) (*api.RecordResponse, error)
}

type Request struct {
	api.CheckOutRequest
}

type Response struct {
	response.Response
	Record api.RecordResponse `json:"record,omitempty"`
}

func New(log *slog.Logger, checker CheckOuter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.checkout.New"

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

		if req.SubjectID == "" {
			log.Error("subject_id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "subject_id is required"))
			return
		}

		record, err := checker.CheckOut(r.Context(), req.SubjectID)

		if errors.Is(err, response.ErrNotCheckedIn) {
			log.Error("not checked in for subject")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.NOT_CHECKED_IN), "not checked in for this subject"))
			return
		}

		if errors.Is(err, response.ErrCheckoutPending) {
			log.Error("checkout already in progress")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.CHECKOUT_PENDING), "a checkout is already in progress"))
			return
		}

		if errors.Is(err, response.ErrLocked) {
			log.Error("checkout locked by another instance")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.LOCKED), "checkout is locked"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("resource not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
			return
		}

		if err != nil {
			log.Error("Failed to check out", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to check out"))
			return
		}

		log.Info("Checked out", slog.String("record_id", record.ID), slog.Bool("is_anomaly", record.IsAnomaly))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Record: *record,
		})
	}
}
