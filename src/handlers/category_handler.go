package handlers

import (
	"fintrack-server/src/logging"
	"fintrack-server/src/models"
	"fintrack-server/src/services"
	"fintrack-server/src/util"
	"net/http"
)

func GetCategories(categories *services.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		list, err := categories.List(r.Context(), userID, r.URL.Query().Get("type"))
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		util.WriteJSON(w, http.StatusOK, "Categories retrieved successfully", map[string]any{"categories": list})
	}
}

func CreateCategory(categories *services.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}
		var req models.CategoryRequest
		if err := decodeBody(w, r, &req); err != nil {
			util.WriteError(w, r, err)
			return
		}

		created, err := categories.Create(r.Context(), userID, req)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		logging.FromContext(r.Context()).Info("category created",
			logging.FieldUserID, userID, "category_id", created.ID)
		util.WriteJSON(w, http.StatusCreated, "Category created successfully", map[string]any{"category": created})
	}
}

func UpdateCategory(categories *services.CategoryService) http.HandlerFunc {
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
		var req models.CategoryRequest
		if err := decodeBody(w, r, &req); err != nil {
			util.WriteError(w, r, err)
			return
		}

		updated, err := categories.Update(r.Context(), userID, id, req)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		util.WriteJSON(w, http.StatusOK, "Category updated successfully", map[string]any{"category": updated})
	}
}

func DeleteCategory(categories *services.CategoryService) http.HandlerFunc {
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

		if err := categories.Delete(r.Context(), userID, id); err != nil {
			util.WriteError(w, r, err)
			return
		}

		logging.FromContext(r.Context()).Info("category deleted",
			logging.FieldUserID, userID, "category_id", id)
		util.WriteJSON(w, http.StatusOK, "Category deleted successfully", nil)
	}
}
