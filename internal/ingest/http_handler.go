package ingest

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"kalasahayak/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
	log *zap.Logger
}

func NewHTTPHandler(svc *Service, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, log: log}
}

// Register mounts the ingest routes behind admin. Nothing is mounted when
// admin is nil.
func (h *HTTPHandler) Register(mux *http.ServeMux, admin func(http.Handler) http.Handler) {
	if admin == nil {
		return
	}
	mux.Handle("POST /v1/admin/ingest", admin(http.HandlerFunc(h.Ingest)))
	mux.Handle("GET /v1/admin/ingest/runs", admin(http.HandlerFunc(h.Runs)))
}

// Ingest handles POST /v1/admin/ingest
// @Summary Trigger catalog ingestion
// @Description Pull published products from the Kala Sahayak service into the catalog
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /v1/admin/ingest [post]
func (h *HTTPHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	run, err := h.svc.Run(r.Context())
	switch {
	case errors.Is(err, ErrAlreadyRunning):
		httpx.JSONError(w, r, http.StatusConflict, "INGEST_RUNNING", err.Error(), nil)
	case err != nil && run == nil:
		h.log.Error("start ingest", zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	case err != nil:
		httpx.JSONError(w, r, http.StatusBadGateway, "INGEST_FAILED", run.Error, nil)
	default:
		httpx.JSONSuccess(w, r, run, nil)
	}
}

// Runs handles GET /v1/admin/ingest/runs
func (h *HTTPHandler) Runs(w http.ResponseWriter, r *http.Request) {
	runs, err := h.svc.ListRuns(r.Context(), 20)
	if err != nil {
		h.log.Error("list ingest runs", zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, runs, map[string]any{"count": len(runs)})
}
