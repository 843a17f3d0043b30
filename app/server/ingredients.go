package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"PosServer/app/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (s *Server) handleGetIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := s.ingredientSvc.GetIngredients(r.Context())
	if err != nil {
		log.Printf("Failed to fetch ingredients: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch ingredients")
		return
	}
	writeJSON(w, http.StatusOK, ingredients)
}

func (s *Server) handleCreateIngredient(w http.ResponseWriter, r *http.Request) {
	var ingredient models.Ingredient
	if err := json.NewDecoder(r.Body).Decode(&ingredient); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if ingredient.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if ingredient.Unit == "" {
		ingredient.Unit = models.UnitPiece
	}

	if err := s.ingredientSvc.CreateIngredient(r.Context(), &ingredient); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeError(w, http.StatusConflict, "an ingredient with this name already exists")
			return
		}
		log.Printf("Failed to create ingredient: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create ingredient")
		return
	}

	writeJSON(w, http.StatusCreated, ingredient)
}

// StockAdjustment is a manual restock or correction
type StockAdjustment struct {
	Quantity decimal.Decimal `json:"quantity"` // signed delta
	Reason   string          `json:"reason"`
}

func (s *Server) handleAdjustIngredientStock(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var adj StockAdjustment
	if err := json.NewDecoder(r.Body).Decode(&adj); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if adj.Reason == "" {
		adj.Reason = "Manual adjustment"
	}

	ingredient, err := s.ingredientSvc.AdjustStock(r.Context(), id, adj.Quantity, adj.Reason)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "ingredient not found")
		return
	}
	if err != nil {
		log.Printf("Failed to adjust stock for ingredient %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to adjust stock")
		return
	}

	writeJSON(w, http.StatusOK, ingredient)
}

func (s *Server) handleGetIngredientMovements(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	movements, err := s.ingredientSvc.GetMovements(r.Context(), id)
	if err != nil {
		log.Printf("Failed to fetch movements for ingredient %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch movements")
		return
	}
	writeJSON(w, http.StatusOK, movements)
}
