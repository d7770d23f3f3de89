package handlers

import (
	"fintrack-server/src/models"
	"fintrack-server/src/services"
	"fintrack-server/src/util"
	"net/http"
)

func CreateTransaction(transactions *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}
		var req models.TransactionRequest
		if err := decodeBody(w, r, &req); err != nil {
			util.WriteError(w, r, err)
			return
		}

		created, err := transactions.Create(r.Context(), userID, req)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		util.WriteJSON(w, http.StatusCreated, "Transaction created successfully", map[string]any{"transaction": created})
	}
}

func GetTransactions(transactions *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}
		q := r.URL.Query()

		page, err := transactions.List(r.Context(), userID, services.TransactionQuery{
			Page:      q.Get("page"),
			Limit:     q.Get("limit"),
			Type:      q.Get("type"),
			Category:  q.Get("category"),
			Search:    q.Get("search"),
			StartDate: q.Get("startDate"),
			EndDate:   q.Get("endDate"),
		})
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		util.WriteJSON(w, http.StatusOK, "Transactions retrieved successfully", page)
	}
}

func GetTransactionByID(transactions *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}
		id, err := idParam(r, "id")
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		txn, err := transactions.Get(r.Context(), userID, id)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		util.WriteJSON(w, http.StatusOK, "Transaction retrieved successfully", map[string]any{"transaction": txn})
	}
}

func UpdateTransaction(transactions *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}
		id, err := idParam(r, "id")
		if err != nil {
			util.WriteError(w, r, err)
			return
		}
		var req models.TransactionRequest
		if err := decodeBody(w, r, &req); err != nil {
			util.WriteError(w, r, err)
			return
		}

		updated, err := transactions.Update(r.Context(), userID, id, req)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		util.WriteJSON(w, http.StatusOK, "Transaction updated successfully", map[string]any{"transaction": updated})
	}
}

func DeleteTransaction(transactions *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}
		id, err := idParam(r, "id")
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		if err := transactions.Delete(r.Context(), userID, id); err != nil {
			util.WriteError(w, r, err)
			return
		}

		util.WriteJSON(w, http.StatusOK, "Transaction deleted successfully", nil)
	}
}
