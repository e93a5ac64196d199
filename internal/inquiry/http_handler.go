package inquiry

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"kalasahayak/internal/httpx"
)

type HTTPHandler struct {
	svc          *Service
	log          *zap.Logger
	supportPhone string
}

func NewHTTPHandler(svc *Service, log *zap.Logger, supportPhone string) *HTTPHandler {
	return &HTTPHandler{svc: svc, log: log, supportPhone: supportPhone}
}

func (h *HTTPHandler) Register(mux *http.ServeMux, admin func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /v1/artisan-inquiries", h.Create)
	mux.HandleFunc("GET /v1/support/links", h.SupportLinks)
	if admin != nil {
		mux.Handle("GET /v1/admin/artisan-inquiries", admin(http.HandlerFunc(h.List)))
	}
}

// Create handles POST /v1/artisan-inquiries
// @Summary Submit an artisan inquiry
// @Tags inquiries
// @Accept json
// @Produce json
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /v1/artisan-inquiries [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	req = req.Normalize()
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid inquiry", details)
		return
	}

	inq, err := h.svc.Submit(r.Context(), req)
	if err != nil {
		h.log.Error("submit inquiry", zap.String("request_id", httpx.RequestIDFrom(r)), zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONCreated(w, r, inq)
}

// SupportLinks handles GET /v1/support/links
func (h *HTTPHandler) SupportLinks(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, Links(h.supportPhone, r.URL.Query().Get("message")), nil)
}

// List handles GET /v1/admin/artisan-inquiries
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "limit must be between 1 and 500", nil)
			return
		}
		limit = n
	}

	items, err := h.svc.ListRecent(r.Context(), limit)
	if err != nil {
		h.log.Error("list inquiries", zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, items, map[string]any{"count": len(items)})
}
