package handlers

import (
	"fintrack-server/src/logging"
	"fintrack-server/src/middleware"
	"fintrack-server/src/models"
	"fintrack-server/src/services"
	"fintrack-server/src/util"
	"net/http"
)

func Register(auth *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := decodeBody(w, r, &req); err != nil {
			util.WriteError(w, r, err)
			return
		}

		resp, err := auth.Register(r.Context(), req)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		logging.FromContext(r.Context()).Info("user registered", logging.FieldUserID, resp.User.ID)
		util.WriteJSON(w, http.StatusCreated, "User registered successfully", resp)
	}
}

func Login(auth *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := decodeBody(w, r, &req); err != nil {
			util.WriteError(w, r, err)
			return
		}

		resp, err := auth.Login(r.Context(), req)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		util.WriteJSON(w, http.StatusOK, "Login successful", resp)
	}
}

func GetProfile(auth *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		user, err := auth.Profile(r.Context(), userID)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		util.WriteJSON(w, http.StatusOK, "Profile retrieved successfully", map[string]any{"user": user})
	}
}

// ValidateToken reports the identity the auth middleware resolved.
func ValidateToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFromContext(r.Context())
		if !ok {
			util.WriteError(w, r, util.Unauthorized("Access token required"))
			return
		}

		util.WriteJSON(w, http.StatusOK, "Token is valid", map[string]any{"user": user, "valid": true})
	}
}
