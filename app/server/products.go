package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"PosServer/app/models"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

func (s *Server) handleGetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.productSvc.GetProducts(r.Context())
	if err != nil {
		log.Printf("Failed to fetch products: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	product, err := s.productSvc.GetProduct(r.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		log.Printf("Failed to fetch product %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch product")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if product.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if product.Price.IsNegative() {
		writeError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	if err := s.productSvc.CreateProduct(r.Context(), &product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeError(w, http.StatusConflict, "a product with this name already exists")
			return
		}
		log.Printf("Failed to create product: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

func (s *Server) handleSetRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var items []models.RecipeItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for _, item := range items {
		if !item.Quantity.IsPositive() {
			writeError(w, http.StatusBadRequest, "recipe item quantity must be positive")
			return
		}
	}

	if err := s.productSvc.SetRecipe(r.Context(), id, items); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		log.Printf("Failed to set recipe for product %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to set recipe")
		return
	}

	product, err := s.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		log.Printf("Failed to reload product %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to set recipe")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// parseID extracts the {id} route parameter, writing a 400 on failure
func parseID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
