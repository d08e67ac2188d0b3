package get

import (
	"context"
	"log/slog"
	"net/http"
	"netattend/api"
	"netattend/pkg/response"
	"netattend/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type SessionGetter interface {
	Session(ctx context.Context) (*api.SessionResponse, error)
}

type Response struct {
	response.Response
	Session api.SessionResponse `json:"session,omitempty"`
}

// New reports the current session state. The response carries both the
// active check-in and the subject whose window contains now.
func New(log *slog.Logger, getter SessionGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		session, err := getter.Session(r.Context())

		if err != nil {
			log.Error("Failed to get session", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get session"))
			return
		}

		log.Info("Session retrieved", slog.Bool("checked_in", session.CheckedIn))
		render.JSON(w, r, Response{
			Session: *session,
		})
	}
}
