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

type ZoneLister interface {
	ListZones(ctx context.Context) ([]*api.ZoneResponse, error)
}

type Response struct {
	response.Response
	Zones []api.ZoneResponse `json:"zones,omitempty"`
}

func New(log *slog.Logger, lister ZoneLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.zones.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		zones, err := lister.ListZones(r.Context())

		if err != nil {
			log.Error("Failed to list zones", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list zones"))
			return
		}

		log.Info("Zones retrieved", slog.Int("count", len(zones)))
		zonesResponse := make([]api.ZoneResponse, len(zones))
		for i, z := range zones {
			zonesResponse[i] = *z
		}
		render.JSON(w, r, Response{
			Zones: zonesResponse,
		})
	}
}
