package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/qazimabbas/LostnFound/internal/api"
	"github.com/qazimabbas/LostnFound/internal/engine/actors"
	"github.com/qazimabbas/LostnFound/internal/middleware"
	"github.com/qazimabbas/LostnFound/internal/models"
	"github.com/qazimabbas/LostnFound/internal/utils"
)

type CreateResponseRequest struct {
	ListingID string `json:"itemId" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

type UpdateResponseStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

func (s *Server) HandleCreateResponse() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		senderID, ok := middleware.GetAccountIDFromContext(r.Context())
		if !ok {
			api.WriteMessage(w, http.StatusUnauthorized, "Not authorized, please login")
			return
		}

		var req CreateResponseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := s.validate.Struct(req); err != nil {
			api.WriteMessage(w, http.StatusBadRequest, "Item ID and message are required")
			return
		}

		listingID, err := uuid.Parse(req.ListingID)
		if err != nil {
			api.WriteMessage(w, http.StatusNotFound, "Item not found")
			return
		}

		result, askErr := s.ask(s.Engine.GetResponseActor(), &actors.CreateResponseMsg{
			SenderID:  senderID,
			ListingID: listingID,
			Message:   req.Message,
		})
		if appErr := s.asAppError(result, askErr); appErr != nil {
			// A rejected earlier response blocks the new one; its id rides
			// along so the client can offer deleting it.
			if appErr.Ref != "" {
				api.WriteJSON(w, utils.AppErrorToHTTPStatus(appErr.Code), map[string]any{
					"message":            appErr.Message,
					"existingResponseId": appErr.Ref,
				})
				return
			}
			s.writeBareError(w, appErr)
			return
		}

		api.WriteSuccess(w, http.StatusCreated, result)
	}
}

func (s *Server) HandleSentResponses() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		senderID, ok := middleware.GetAccountIDFromContext(r.Context())
		if !ok {
			api.WriteMessage(w, http.StatusUnauthorized, "Not authorized, please login")
			return
		}

		result, err := s.ask(s.Engine.GetResponseActor(), &actors.ListSentMsg{SenderID: senderID})
		if appErr := s.asAppError(result, err); appErr != nil {
			s.writeBareError(w, appErr)
			return
		}

		api.WriteSuccess(w, http.StatusOK, result)
	}
}

// HandleReceivedResponses lists responses on the caller's lost items.
func (s *Server) HandleReceivedResponses() http.HandlerFunc {
	return s.handleReceived(models.KindLost)
}

// HandleReceivedClaims lists responses on the caller's found items.
func (s *Server) HandleReceivedClaims() http.HandlerFunc {
	return s.handleReceived(models.KindFound)
}

func (s *Server) handleReceived(kind models.ListingKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetAccountIDFromContext(r.Context())
		if !ok {
			api.WriteMessage(w, http.StatusUnauthorized, "Not authorized, please login")
			return
		}

		result, err := s.ask(s.Engine.GetResponseActor(), &actors.ListReceivedMsg{
			OwnerID: ownerID,
			Kind:    kind,
		})
		if appErr := s.asAppError(result, err); appErr != nil {
			s.writeBareError(w, appErr)
			return
		}

		api.WriteSuccess(w, http.StatusOK, result)
	}
}

func (s *Server) HandleUpdateResponseStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, ok := middleware.GetAccountIDFromContext(r.Context())
		if !ok {
			api.WriteMessage(w, http.StatusUnauthorized, "Not authorized, please login")
			return
		}

		responseID, err := uuid.Parse(chi.URLParam(r, "responseId"))
		if err != nil {
			api.WriteMessage(w, http.StatusNotFound, "Response not found")
			return
		}

		var req UpdateResponseStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := s.validate.Struct(req); err != nil {
			api.WriteMessage(w, http.StatusBadRequest, "Invalid status")
			return
		}

		result, askErr := s.ask(s.Engine.GetResponseActor(), &actors.UpdateResponseStatusMsg{
			CallerID:   callerID,
			ResponseID: responseID,
			Status:     req.Status,
		})
		if appErr := s.asAppError(result, askErr); appErr != nil {
			s.writeBareError(w, appErr)
			return
		}

		api.WriteSuccess(w, http.StatusOK, result)
	}
}

func (s *Server) HandleDeleteResponse() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, ok := middleware.GetAccountIDFromContext(r.Context())
		if !ok {
			api.WriteMessage(w, http.StatusUnauthorized, "Not authorized, please login")
			return
		}

		responseID, err := uuid.Parse(chi.URLParam(r, "responseId"))
		if err != nil {
			api.WriteMessage(w, http.StatusNotFound, "Response not found")
			return
		}

		result, askErr := s.ask(s.Engine.GetResponseActor(), &actors.DeleteResponseMsg{
			CallerID:   callerID,
			ResponseID: responseID,
		})
		if appErr := s.asAppError(result, askErr); appErr != nil {
			s.writeBareError(w, appErr)
			return
		}

		api.WriteSuccessMessage(w, http.StatusOK, "Response deleted successfully")
	}
}
