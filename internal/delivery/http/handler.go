// Package http exposes the shop over a JSON API. Handlers take a single
// mutex around every state-changing operation: the core is written for a
// single-writer model, so the HTTP layer provides exactly that.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/pastryshop/backend/internal/catalog"
	"github.com/pastryshop/backend/internal/entity"
	"github.com/pastryshop/backend/internal/ledger"
	"github.com/pastryshop/backend/internal/report"
	"github.com/pastryshop/backend/internal/session"
)

// Handler handles HTTP requests for the application.
type Handler struct {
	mu       sync.Mutex
	catalog  *catalog.Catalog
	ledger   *ledger.Ledger
	sessions *session.Registry
	reports  *report.Engine
}

func NewHandler(c *catalog.Catalog, l *ledger.Ledger, sessions *session.Registry, reports *report.Engine) *Handler {
	return &Handler{
		catalog:  c,
		ledger:   l,
		sessions: sessions,
		reports:  reports,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.handleListProducts)
	mux.HandleFunc("POST /api/products", h.handleAddProduct)
	mux.HandleFunc("DELETE /api/products/{name}", h.handleRemoveProduct)
	mux.HandleFunc("POST /api/products/{name}/rating", h.handleSubmitRating)

	mux.HandleFunc("GET /api/cart", h.handleGetCart)
	mux.HandleFunc("POST /api/cart/items", h.handleReserve)
	mux.HandleFunc("PATCH /api/cart/items/{name}", h.handleUpdateQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{name}", h.handleRemoveFromCart)

	mux.HandleFunc("POST /api/checkout", h.handleCheckout)
	mux.HandleFunc("POST /api/checkout/reopen", h.handleReopen)

	mux.HandleFunc("GET /api/orders", h.handleListOrders)
	mux.HandleFunc("PATCH /api/orders/{id}/status", h.handleSetStatus)

	mux.HandleFunc("POST /api/reports/{type}", h.handleGenerateReport)
}

// --- products ---

type productView struct {
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Price         float64             `json:"price"`
	Quantity      int                 `json:"availableQuantity"`
	DateAdded     string              `json:"dateAdded"`
	ExpiryDate    string              `json:"expiryDate"`
	Rating        float64             `json:"rating"`
	RatingCount   int                 `json:"ratingCount"`
	PurchaseCount int                 `json:"purchaseCount"`
	Capabilities  entity.Capabilities `json:"capabilities"`
}

func viewOf(p *entity.Product, caps entity.Capabilities) productView {
	return productView{
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Quantity:      p.Quantity,
		DateAdded:     p.DateAdded,
		ExpiryDate:    p.ExpiryDate,
		Rating:        p.Rating,
		RatingCount:   p.RatingCount,
		PurchaseCount: p.PurchaseCount,
		Capabilities:  caps,
	}
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	caps := entity.UserCapabilities()
	if r.URL.Query().Get("view") == "admin" {
		caps = entity.AdminCapabilities()
	}

	h.mu.Lock()
	views := make([]productView, 0, h.catalog.Len())
	for p := range h.catalog.List() {
		views = append(views, viewOf(p, caps))
	}
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, views)
}

type addProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"availableQuantity"`
	DateAdded   string  `json:"dateAdded"`
	ExpiryDate  string  `json:"expiryDate"`
}

func (h *Handler) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	var req addProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Price < 0 || req.Quantity < 0 {
		http.Error(w, "name required, price and quantity must be non-negative", http.StatusBadRequest)
		return
	}

	p := &entity.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		DateAdded:   req.DateAdded,
		ExpiryDate:  req.ExpiryDate,
	}

	h.mu.Lock()
	h.catalog.Add(p)
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, viewOf(p, entity.AdminCapabilities()))
}

func (h *Handler) handleRemoveProduct(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p := h.catalog.FindByName(r.PathValue("name"))
	if p == nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	h.catalog.Remove(p)
	w.WriteHeader(http.StatusNoContent)
}

type ratingRequest struct {
	Score float64 `json:"score"`
}

func (h *Handler) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	// The 1..5 range is enforced here, at the edge; the catalog itself only
	// rejects non-positive scores.
	if req.Score < 1 || req.Score > 5 {
		http.Error(w, "score must be between 1 and 5", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	p := h.catalog.FindByName(r.PathValue("name"))
	if p == nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	if err := h.catalog.SubmitRating(p, req.Score); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rating":      p.Rating,
		"ratingCount": p.RatingCount,
	})
}

// --- cart ---

func (h *Handler) session(w http.ResponseWriter, r *http.Request) *ledger.CheckoutSession {
	id := r.Header.Get("X-Session-ID")
	if id == "" {
		http.Error(w, "missing X-Session-ID header", http.StatusBadRequest)
		return nil
	}
	return h.sessions.Get(id)
}

type cartItemView struct {
	Product  string  `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	h.mu.Lock()
	items := make([]cartItemView, 0, s.Cart().Len())
	for p, qty := range s.Cart().Items() {
		items = append(items, cartItemView{Product: p.Name, Quantity: qty, Price: p.Price})
	}
	total := s.Cart().Total()
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": total,
	})
}

type reserveRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

func (h *Handler) handleReserve(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	var req reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Quantity <= 0 {
		http.Error(w, "quantity must be positive", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	p := h.catalog.FindByName(req.Product)
	if p == nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	msg, err := s.Cart().Reserve(p, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	p := h.catalog.FindByName(r.PathValue("name"))
	if p == nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	msg, err := s.Cart().UpdateQuantity(p, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func (h *Handler) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	p := h.catalog.FindByName(r.PathValue("name"))
	if p == nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	msg := s.Cart().Remove(p)
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// --- checkout / orders ---

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	h.mu.Lock()
	order, msg, err := h.ledger.Commit(r.Context(), s)
	h.mu.Unlock()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"order_id": order.ID,
		"total":    order.TotalValue,
		"status":   order.Status.String(),
		"message":  msg,
	})
}

func (h *Handler) handleReopen(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	s.Reopen()
	w.WriteHeader(http.StatusNoContent)
}

type orderView struct {
	ID        string   `json:"id"`
	Products  []string `json:"products"`
	Total     float64  `json:"total"`
	CreatedAt string   `json:"created_at"`
	Status    string   `json:"status"`
	Details   string   `json:"details"`
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	views := make([]orderView, 0, h.ledger.Len())
	for o := range h.ledger.All() {
		views = append(views, orderView{
			ID:        o.ID,
			Products:  o.ProductNames(),
			Total:     o.TotalValue,
			CreatedAt: o.CreatedAt.Format("2006-01-02 15:04:05"),
			Status:    o.Status.String(),
			Details:   o.Details(),
		})
	}
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, views)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	status, err := entity.ParseStatus(req.Status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	order := h.ledger.FindByID(r.PathValue("id"))
	if order == nil {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	h.ledger.SetStatus(r.Context(), order, status)

	writeJSON(w, http.StatusOK, map[string]string{
		"order_id": order.ID,
		"status":   order.Status.String(),
	})
}

// --- reports ---

// reportFiles keeps the historical file names readers expect to find in the
// reports directory.
var reportFiles = map[string]string{
	"total-sales":     "RaportTotalVanzari.txt",
	"stock-listing":   "RaportProdusePeStoc.txt",
	"recently-added":  "RaportProduseAdaugateRecent.txt",
	"near-expiry":     "RaportProduseAproapeExpirate.txt",
	"stock-summary":   "RaportGeneralStoc.txt",
	"sales-trend":     "RaportTendinteVanzari.txt",
	"rating-matrix":   "RaportRatinguriProduseMatrice.txt",
	"completed":       "RaportComenziFinalizate.txt",
	"order-frequency": "RaportFrecventaComenzi.txt",
}

func (h *Handler) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("type")
	filename, ok := reportFiles[kind]
	if !ok {
		http.Error(w, "unknown report type", http.StatusNotFound)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var (
		err       error
		completed []*entity.Order
	)
	switch kind {
	case "total-sales":
		err = h.reports.TotalSales(filename)
	case "stock-listing":
		err = h.reports.StockListing(filename)
	case "recently-added":
		err = h.reports.RecentlyAdded(filename)
	case "near-expiry":
		err = h.reports.NearExpiry(filename)
	case "stock-summary":
		err = h.reports.StockSummary(filename)
	case "sales-trend":
		err = h.reports.SalesTrend(filename)
	case "rating-matrix":
		err = h.reports.RatingMatrix(filename)
	case "completed":
		completed, err = h.reports.CompletedOrders(filename)
	case "order-frequency":
		err = h.reports.OrderFrequency(filename)
	}
	if err != nil {
		slog.Error("Failed to generate report", "type", kind, "err", err)
		http.Error(w, "failed to generate report", http.StatusInternalServerError)
		return
	}

	resp := map[string]any{"report": kind, "file": filename}
	if kind == "completed" {
		ids := make([]string, len(completed))
		for i, o := range completed {
			ids[i] = o.ID
		}
		resp["orders"] = ids
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeDomainError maps recoverable domain failures to HTTP statuses,
// keeping the descriptive message.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrInsufficientStock):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, entity.ErrEmptyCart):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, entity.ErrAlreadyCommitted):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		slog.Error("Unexpected error", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// EnableCORS is a middleware to allow a browser frontend to connect.
func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Session-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
