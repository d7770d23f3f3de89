package handlers

import (
	"fintrack-server/src/logging"
	"fintrack-server/src/models"
	"fintrack-server/src/services"
	"fintrack-server/src/util"
	"net/http"
)

func CreateBudget(budgets *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}
		var req models.BudgetRequest
		if err := decodeBody(w, r, &req); err != nil {
			util.WriteError(w, r, err)
			return
		}

		created, err := budgets.Create(r.Context(), userID, req)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		logging.FromContext(r.Context()).Info("budget created",
			logging.FieldUserID, userID, "budget_id", created.ID, "category", created.Category)
		util.WriteJSON(w, http.StatusCreated, "Budget created successfully", map[string]any{"budget": created})
	}
}

func GetBudgets(budgets *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}
		q := r.URL.Query()

		list, err := budgets.List(r.Context(), userID, q.Get("period"), q.Get("active"))
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		util.WriteJSON(w, http.StatusOK, "Budgets retrieved successfully", map[string]any{"budgets": list})
	}
}

func GetBudgetByID(budgets *services.BudgetService) http.HandlerFunc {
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

		budget, err := budgets.Get(r.Context(), userID, id)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		util.WriteJSON(w, http.StatusOK, "Budget retrieved successfully", map[string]any{"budget": budget})
	}
}

func UpdateBudget(budgets *services.BudgetService) http.HandlerFunc {
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
		var req models.BudgetRequest
		if err := decodeBody(w, r, &req); err != nil {
			util.WriteError(w, r, err)
			return
		}

		updated, err := budgets.Update(r.Context(), userID, id, req)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		logging.FromContext(r.Context()).Info("budget updated", logging.FieldUserID, userID, "budget_id", id)
		util.WriteJSON(w, http.StatusOK, "Budget updated successfully", map[string]any{"budget": updated})
	}
}

func DeleteBudget(budgets *services.BudgetService) http.HandlerFunc {
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

		if err := budgets.Delete(r.Context(), userID, id); err != nil {
			util.WriteError(w, r, err)
			return
		}

		logging.FromContext(r.Context()).Info("budget deleted", logging.FieldUserID, userID, "budget_id", id)
		util.WriteJSON(w, http.StatusOK, "Budget deleted successfully", nil)
	}
}
