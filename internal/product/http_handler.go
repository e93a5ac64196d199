package product

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"kalasahayak/internal/catalog"
	"kalasahayak/internal/httpx"
)

type HTTPHandler struct {
	svc             *Service
	log             *zap.Logger
	defaultPageSize int
	maxPageSize     int
}

func NewHTTPHandler(svc *Service, log *zap.Logger, defaultPageSize, maxPageSize int) *HTTPHandler {
	return &HTTPHandler{svc: svc, log: log, defaultPageSize: defaultPageSize, maxPageSize: maxPageSize}
}

// Register mounts the public routes on mux and the admin routes behind admin.
// A nil admin leaves the admin routes unmounted.
func (h *HTTPHandler) Register(mux *http.ServeMux, admin func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /v1/products", h.Browse)
	mux.HandleFunc("GET /v1/products/{id}", h.Get)
	mux.HandleFunc("GET /v1/categories", h.Categories)
	mux.HandleFunc("GET /v1/sort-options", h.SortOptions)
	if admin != nil {
		mux.Handle("PUT /v1/admin/products/{id}", admin(http.HandlerFunc(h.Upsert)))
	}
}

type itemView struct {
	catalog.Item
	DiscountPercent int `json:"discount_percent,omitempty"`
}

func views(items []catalog.Item) []itemView {
	out := make([]itemView, len(items))
	for i, it := range items {
		out[i] = itemView{Item: it, DiscountPercent: it.DiscountPercent()}
	}
	return out
}

// parseQuery reads the browse parameters. Absent values take their
// defaults; present but invalid values are rejected.
func (h *HTTPHandler) parseQuery(r *http.Request) (catalog.Query, []httpx.ErrorDetail) {
	values := r.URL.Query()
	var details []httpx.ErrorDetail

	cats, err := catalog.ParseCategories(values.Get("category"))
	if err != nil {
		details = append(details, httpx.ErrorDetail{Field: "category", Message: "category must be one of all, " + categoryIDs()})
	}

	sort, err := catalog.ParseSortKey(values.Get("sort"))
	if err != nil {
		details = append(details, httpx.ErrorDetail{Field: "sort", Message: "sort must be one of " + sortKeys()})
	}

	page, ok := intParam(values.Get("page"), 1)
	if !ok || page < 1 {
		details = append(details, httpx.ErrorDetail{Field: "page", Message: "page must be a positive integer"})
	}

	pageSize, ok := intParam(values.Get("page_size"), h.defaultPageSize)
	if !ok || pageSize < 1 || pageSize > h.maxPageSize {
		details = append(details, httpx.ErrorDetail{Field: "page_size", Message: "page_size must be between 1 and " + strconv.Itoa(h.maxPageSize)})
	}

	return catalog.Query{
		Categories: cats,
		Search:     strings.TrimSpace(values.Get("q")),
		Sort:       sort,
		Page:       page,
		PageSize:   pageSize,
	}, details
}

func intParam(raw string, def int) (int, bool) {
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	return n, err == nil
}

func categoryIDs() string {
	var ids []string
	for _, o := range catalog.Categories() {
		ids = append(ids, o.Value)
	}
	return strings.Join(ids, ", ")
}

func sortKeys() string {
	var keys []string
	for _, o := range catalog.SortKeys() {
		keys = append(keys, o.Value)
	}
	return strings.Join(keys, ", ")
}

// Browse handles GET /v1/products
// @Summary Browse the catalog
// @Description Filter, sort and paginate the storefront catalog
// @Tags products
// @Produce json
// @Param category query string false "Comma separated category ids, or all"
// @Param q query string false "Case-insensitive search on title and artisan"
// @Param sort query string false "featured, newest, price-low, price-high, rating, popularity" default(featured)
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(8)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /v1/products [get]
func (h *HTTPHandler) Browse(w http.ResponseWriter, r *http.Request) {
	q, details := h.parseQuery(r)
	if len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_QUERY", "Invalid catalog query", details)
		return
	}

	res, err := h.svc.Browse(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	from, to := res.Window()
	httpx.JSONSuccess(w, r, views(res.Items), map[string]any{
		"page":           res.Page,
		"page_size":      res.PageSize,
		"total":          res.TotalMatched,
		"total_pages":    res.TotalPages,
		"has_more":       res.HasMore(),
		"showing_from":   from,
		"showing_to":     to,
		"active_filters": catalog.ActiveFilterCount(q),
	})
}

// Get handles GET /v1/products/{id}
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path string true "Product id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/products/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Product id is required", nil)
		return
	}

	it, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, itemView{Item: it, DiscountPercent: it.DiscountPercent()}, nil)
}

// Categories handles GET /v1/categories
// @Summary List categories with match counts
// @Tags products
// @Produce json
// @Param q query string false "Search text the counts are computed under"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/categories [get]
func (h *HTTPHandler) Categories(w http.ResponseWriter, r *http.Request) {
	facets, err := h.svc.Facets(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, facets, nil)
}

// SortOptions handles GET /v1/sort-options
func (h *HTTPHandler) SortOptions(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, catalog.SortKeys(), nil)
}

type upsertRequest struct {
	Title         string           `json:"title" validate:"notblank,max=200"`
	ArtisanName   string           `json:"artisan_name" validate:"notblank,max=100"`
	Category      string           `json:"category" validate:"required,catalog_category"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	ImageURL      string           `json:"image_url,omitempty" validate:"omitempty,max=500"`
	Rating        float64          `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount   int              `json:"review_count" validate:"gte=0"`
	IsNew         bool             `json:"is_new"`
	IsOnSale      bool             `json:"is_on_sale"`
}

// Upsert handles PUT /v1/admin/products/{id}
// @Summary Create or replace a product
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /v1/admin/products/{id} [put]
func (h *HTTPHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Product id is required", nil)
		return
	}

	var req upsertRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid product", details)
		return
	}

	it := catalog.Item{
		ID:            id,
		Title:         strings.TrimSpace(req.Title),
		ArtisanName:   strings.TrimSpace(req.ArtisanName),
		Category:      catalog.Category(req.Category),
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		ImageURL:      req.ImageURL,
		Rating:        req.Rating,
		ReviewCount:   req.ReviewCount,
		IsNew:         req.IsNew,
		IsOnSale:      req.IsOnSale,
	}
	if err := h.svc.Upsert(r.Context(), it); err != nil {
		if errors.Is(err, catalog.ErrContractViolation) {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
			return
		}
		h.writeError(w, r, err)
		return
	}
	h.log.Info("product upserted", zap.String("id", id), zap.String("by", httpx.UserIDFrom(r)))
	httpx.JSONSuccess(w, r, itemView{Item: it, DiscountPercent: it.DiscountPercent()}, nil)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrContractViolation):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_QUERY", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	default:
		h.log.Error("product request failed", zap.String("request_id", httpx.RequestIDFrom(r)), zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
