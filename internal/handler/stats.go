package handler

import (
	"net/http"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
	"github.com/meridwen/QuestBoard_Go/internal/logger"
	"github.com/meridwen/QuestBoard_Go/internal/stats"
)

// HandleGetStats handles GET /stats?field=&value=
func HandleGetStats(svc stats.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		field := domain.StatsField(r.URL.Query().Get("field"))
		value := r.URL.Query().Get("value")

		if field != "" && value == "" {
			respondError(w, http.StatusBadRequest, "value is required when field is set")
			return
		}

		summary, err := svc.Summary(r.Context(), field, value)
		if err != nil {
			log.Error("Failed to build stats summary", "error", err, "field", field)
			status, msg := mapServiceError(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, summary)
	}
}
