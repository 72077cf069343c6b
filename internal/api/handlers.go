package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samarth-project/samarth/internal/service"
)

type queryRequest struct {
	Query string `json:"query"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "samarth",
	})
}

func handleQuery(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Query == "" {
			http.Error(w, `{"error":"query is required"}`, http.StatusBadRequest)
			return
		}

		queryID := uuid.New().String()
		w.Header().Set("X-Query-Id", queryID)

		resp := svc.ProcessQuery(r.Context(), req.Query)

		zap.L().Info("api: query processed",
			zap.String("query_id", queryID),
			zap.String("intent", resp.Intent),
			zap.Bool("cached", resp.Cached),
			zap.Bool("success", resp.Success),
		)

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleDatasets(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if term := r.URL.Query().Get("q"); term != "" {
			writeJSON(w, http.StatusOK, svc.SearchDatasets(term))
			return
		}
		writeJSON(w, http.StatusOK, svc.Datasets())
	}
}

func handleCacheStatus(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"entries": svc.CacheLen()})
	}
}

func handleCacheClear(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ClearCache(r.Context())
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("api: encode response", zap.Error(err))
	}
}
