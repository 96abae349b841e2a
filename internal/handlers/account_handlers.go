package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/qazimabbas/LostnFound/internal/api"
	"github.com/qazimabbas/LostnFound/internal/engine/actors"
	"github.com/qazimabbas/LostnFound/internal/middleware"
	"github.com/qazimabbas/LostnFound/internal/models"
)

// SignupRequest is the /api/users/signup payload.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phoneNo" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries partial fields; omitted fields stay unchanged.
type UpdateProfileRequest struct {
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phoneNo"`
	Password     string `json:"password" validate:"omitempty,min=6"`
	ProfileImage string `json:"profilePic"`
}

func (s *Server) HandleSignup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := s.validate.Struct(req); err != nil {
			api.WriteMessage(w, http.StatusBadRequest, "All fields are required")
			return
		}

		result, err := s.ask(s.Engine.GetAccountActor(), &actors.RegisterAccountMsg{
			Name:     req.Name,
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			Phone:    req.Phone,
		})
		if appErr := s.asAppError(result, err); appErr != nil {
			s.writeBareError(w, appErr)
			return
		}

		account := result.(*models.Account)
		token, tokenErr := s.Sessions.GenerateToken(account.ID)
		if tokenErr != nil {
			s.Log.Errorw("failed to issue session token", "error", tokenErr)
			api.WriteMessage(w, http.StatusInternalServerError, "Something went wrong")
			return
		}
		s.Sessions.SetCookie(w, token)

		api.WriteJSON(w, http.StatusCreated, api.ProfileOf(account))
	}
}

func (s *Server) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := s.validate.Struct(req); err != nil {
			api.WriteMessage(w, http.StatusBadRequest, "Email and password are required")
			return
		}

		result, err := s.ask(s.Engine.GetAccountActor(), &actors.AuthenticateMsg{
			Email:    req.Email,
			Password: req.Password,
		})
		if appErr := s.asAppError(result, err); appErr != nil {
			s.writeBareError(w, appErr)
			return
		}

		account := result.(*models.Account)
		token, tokenErr := s.Sessions.GenerateToken(account.ID)
		if tokenErr != nil {
			s.Log.Errorw("failed to issue session token", "error", tokenErr)
			api.WriteMessage(w, http.StatusInternalServerError, "Something went wrong")
			return
		}
		s.Sessions.SetCookie(w, token)

		api.WriteJSON(w, http.StatusOK, api.ProfileOf(account))
	}
}

func (s *Server) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Sessions.ClearCookie(w)
		api.WriteMessage(w, http.StatusOK, "Logged out successfully")
	}
}

func (s *Server) HandleUpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := middleware.GetAccountIDFromContext(r.Context())
		if !ok {
			api.WriteMessage(w, http.StatusUnauthorized, "Not authorized, please login")
			return
		}

		var req UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := s.validate.Struct(req); err != nil {
			api.WriteMessage(w, http.StatusBadRequest, "Invalid profile fields")
			return
		}

		result, err := s.ask(s.Engine.GetAccountActor(), &actors.UpdateProfileMsg{
			AccountID:    accountID,
			Name:         req.Name,
			Username:     req.Username,
			Email:        req.Email,
			Phone:        req.Phone,
			Password:     req.Password,
			ProfileImage: req.ProfileImage,
		})
		if appErr := s.asAppError(result, err); appErr != nil {
			s.writeBareError(w, appErr)
			return
		}

		account := result.(*models.Account)
		api.WriteJSON(w, http.StatusOK, api.ProfileOf(account))
	}
}
