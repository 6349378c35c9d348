package stalld

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"webstall/internal/model"
)

// Server serves the shop API over a store.
type Server struct {
	store *Store
}

// NewServer returns a server over store.
func NewServer(store *Store) *Server {
	return &Server{store: store}
}

// Router builds the chi router for the shop API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/product", s.handleListProducts)
		r.Get("/product/{id}", s.handleGetProduct)
		r.Post("/order", s.handlePlaceOrder)
	})
	return r
}

// listResponse is the catalog wire shape: a count plus the items.
type listResponse struct {
	Total int          `json:"total"`
	Items []model.Item `json:"items"`
}

// orderRequest is the order submission wire shape.
type orderRequest struct {
	Payment string   `json:"payment"`
	Address string   `json:"address"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Total   int64    `json:"total"`
	Items   []string `json:"items"`
}

// orderResponse acknowledges an accepted order.
type orderResponse struct {
	ID    string `json:"id"`
	Total int64  `json:"total"`
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.Products(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "catalog unavailable")
		log.Printf("stalld: list products: %v", err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	writeJSON(w, http.StatusOK, listResponse{Total: len(items), Items: items})
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, ok, err := s.store.Product(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "catalog unavailable")
		log.Printf("stalld: get product: %v", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("product %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed order body")
		return
	}
	if msg := s.validateOrder(r, req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	id := uuid.NewString()
	order := model.Order{
		Payment: model.PaymentMethod(req.Payment),
		Address: req.Address,
		Email:   req.Email,
		Phone:   req.Phone,
		Total:   &req.Total,
		Items:   req.Items,
	}
	if err := s.store.InsertOrder(r.Context(), id, order); err != nil {
		writeError(w, http.StatusInternalServerError, "order could not be recorded")
		log.Printf("stalld: insert order: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{ID: id, Total: req.Total})
}

// validateOrder checks an order against the catalog and returns an
// error message, or "" when the order is acceptable.
func (s *Server) validateOrder(r *http.Request, req orderRequest) string {
	switch model.PaymentMethod(req.Payment) {
	case model.PaymentCard, model.PaymentCash:
	default:
		return "payment method is required"
	}
	if req.Address == "" {
		return "address is required"
	}
	if req.Email == "" {
		return "email is required"
	}
	if req.Phone == "" {
		return "phone is required"
	}
	if len(req.Items) == 0 {
		return "order has no items"
	}

	seen := make(map[string]bool, len(req.Items))
	var sum int64
	for _, id := range req.Items {
		if seen[id] {
			return fmt.Sprintf("duplicate item %s", id)
		}
		seen[id] = true
		item, ok, err := s.store.Product(r.Context(), id)
		if err != nil {
			log.Printf("stalld: validate order: %v", err)
			return "catalog unavailable"
		}
		if !ok {
			return fmt.Sprintf("unknown item %s", id)
		}
		if item.Priceless() {
			return fmt.Sprintf("item %s cannot be purchased", id)
		}
		sum += *item.Price
	}
	if sum != req.Total {
		return "total mismatch"
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("stalld: write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
