package checkin

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

type CheckInner interface {
	CheckIn(ctx context.Context, subjectID string) (*api.SessionResponse, error)
}

type Request struct {
	api.CheckInRequest
}

type Response struct {
	response.Response
	Session api.SessionResponse `json:"session,omitempty"`
}

func New(log *slog.Logger, checker CheckInner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.checkin.New"

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

		session, err := checker.CheckIn(r.Context(), req.SubjectID)

		if errors.Is(err, response.ErrAlreadyCheckedIn) {
			log.Error("session already active")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.ALREADY_CHECKED_IN), "a session is already active"))
			return
		}

		if errors.Is(err, response.ErrCheckoutPending) {
			log.Error("checkout in progress")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.CHECKOUT_PENDING), "a checkout is in progress"))
			return
		}

		if errors.Is(err, response.ErrNoZoneDefined) {
			log.Error("no wifi zone defined")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.NO_ZONE_DEFINED), "no wifi zone defined"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("no subject in session")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "no subject in session right now"))
			return
		}

		if err != nil {
			log.Error("Failed to check in", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to check in"))
			return
		}

		log.Info("Checked in", slog.String("subject_id", session.SubjectID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Session: *session,
		})
	}
}
