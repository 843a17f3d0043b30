package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"PosServer/app/services"
)

// OrderRequest is the checkout payload submitted by a client.
// Prices are never read from the request; the server computes the total
// from current catalog prices.
type OrderRequest struct {
	Items   []services.CartLine `json:"items"`
	TableID *uint               `json:"tableId,omitempty"`
}

// handleCreateOrder processes a checkout: price, deduct stock, persist,
// broadcast. 201 with the hydrated order on success.
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := s.orderSvc.PlaceOrder(r.Context(), req.Items, req.TableID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidQuantity) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Failed to create order: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to process order")
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// handleGetOrders lists all orders, newest first
func (s *Server) handleGetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orderSvc.GetOrders(r.Context())
	if err != nil {
		log.Printf("Failed to fetch orders: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}
