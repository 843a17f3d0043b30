package server

import (
	"encoding/json"
	"log"
	"net/http"

	"PosServer/app/models"
)

func (s *Server) handleGetTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.financeSvc.GetTransactions(r.Context())
	if err != nil {
		log.Printf("Failed to fetch transactions: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch transactions")
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var transaction models.FinancialTransaction
	if err := json.NewDecoder(r.Body).Decode(&transaction); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if transaction.Description == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	if transaction.Type != models.TransactionExpense && transaction.Type != models.TransactionIncome {
		writeError(w, http.StatusBadRequest, "type must be expense or income")
		return
	}

	if err := s.financeSvc.CreateTransaction(r.Context(), &transaction); err != nil {
		log.Printf("Failed to create transaction: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create transaction")
		return
	}

	writeJSON(w, http.StatusCreated, transaction)
}
