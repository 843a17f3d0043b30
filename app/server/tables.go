package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"PosServer/app/models"

	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

func (s *Server) handleGetTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.tableSvc.GetTables(r.Context())
	if err != nil {
		log.Printf("Failed to fetch tables: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch tables")
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	var table models.Table
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if table.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := s.tableSvc.CreateTable(r.Context(), &table); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeError(w, http.StatusConflict, "a table with this name already exists")
			return
		}
		log.Printf("Failed to create table: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create table")
		return
	}

	writeJSON(w, http.StatusCreated, table)
}

// handleTableQRCode renders a QR code clients scan to start an order for
// this table.
func (s *Server) handleTableQRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	table, err := s.tableSvc.GetTable(r.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "table not found")
		return
	}
	if err != nil {
		log.Printf("Failed to fetch table %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch table")
		return
	}

	url := fmt.Sprintf("http://%s/order?tableId=%d", r.Host, table.ID)
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		log.Printf("Failed to generate QR code for table %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
