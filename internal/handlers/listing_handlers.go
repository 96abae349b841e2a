package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/qazimabbas/LostnFound/internal/api"
	"github.com/qazimabbas/LostnFound/internal/engine/actors"
	"github.com/qazimabbas/LostnFound/internal/middleware"
)

// CreateListingRequest is the /api/items/list payload. Images are base64 data
// URIs.
type CreateListingRequest struct {
	Kind        string   `json:"type" validate:"required,oneof=lost found"`
	Title       string   `json:"title" validate:"required"`
	Category    string   `json:"category" validate:"required,oneof=electronics accessories documents others"`
	Location    string   `json:"location" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Images      []string `json:"images" validate:"max=3"`
}

// SearchListingsRequest is the /api/items/all-items filter. Every field is
// optional; category "all" matches everything.
type SearchListingsRequest struct {
	Kind      string `json:"type" validate:"omitempty,oneof=lost found"`
	Category  string `json:"category" validate:"omitempty,oneof=all electronics accessories documents others"`
	FreeText  string `json:"search"`
	DateRange string `json:"dateRange" validate:"omitempty,oneof=today week month"`
	Location  string `json:"location"`
}

// UpdateListingRequest carries partial fields; a non-empty images slice
// replaces all images.
type UpdateListingRequest struct {
	Kind        string   `json:"type" validate:"omitempty,oneof=lost found"`
	Title       string   `json:"title"`
	Category    string   `json:"category" validate:"omitempty,oneof=electronics accessories documents others"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Images      []string `json:"images" validate:"max=3"`
}

func (s *Server) HandleCreateListing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetAccountIDFromContext(r.Context())
		if !ok {
			api.WriteStatusError(w, http.StatusUnauthorized, "Not authorized, please login")
			return
		}

		var req CreateListingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteStatusError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := s.validate.Struct(req); err != nil {
			api.WriteStatusError(w, http.StatusBadRequest, "All fields are required")
			return
		}

		result, err := s.ask(s.Engine.GetListingActor(), &actors.CreateListingMsg{
			OwnerID:     ownerID,
			Kind:        req.Kind,
			Title:       req.Title,
			Category:    req.Category,
			Location:    req.Location,
			Description: req.Description,
			Images:      req.Images,
		})
		if appErr := s.asAppError(result, err); appErr != nil {
			s.writeStatusError(w, appErr)
			return
		}

		api.WriteData(w, http.StatusCreated, map[string]any{"item": result})
	}
}

func (s *Server) HandleSearchListings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SearchListingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteStatusError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := s.validate.Struct(req); err != nil {
			api.WriteStatusError(w, http.StatusBadRequest, "Invalid search filters")
			return
		}

		result, err := s.ask(s.Engine.GetListingActor(), &actors.SearchListingsMsg{
			Kind:      req.Kind,
			Category:  req.Category,
			FreeText:  req.FreeText,
			DateRange: req.DateRange,
			Location:  req.Location,
		})
		if appErr := s.asAppError(result, err); appErr != nil {
			s.writeStatusError(w, appErr)
			return
		}

		items := result.([]*api.ListingView)
		api.WriteDataCount(w, http.StatusOK, len(items), map[string]any{"items": items})
	}
}

func (s *Server) HandleGetListing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listingID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			api.WriteStatusError(w, http.StatusNotFound, "No item found with that ID")
			return
		}

		result, askErr := s.ask(s.Engine.GetListingActor(), &actors.GetListingMsg{ListingID: listingID})
		if appErr := s.asAppError(result, askErr); appErr != nil {
			s.writeStatusError(w, appErr)
			return
		}

		api.WriteData(w, http.StatusOK, map[string]any{"item": result})
	}
}

func (s *Server) HandleUpdateListing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, ok := middleware.GetAccountIDFromContext(r.Context())
		if !ok {
			api.WriteStatusError(w, http.StatusUnauthorized, "Not authorized, please login")
			return
		}

		listingID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			api.WriteStatusError(w, http.StatusNotFound, "Item not found")
			return
		}

		var req UpdateListingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteStatusError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := s.validate.Struct(req); err != nil {
			api.WriteStatusError(w, http.StatusBadRequest, "Invalid item fields")
			return
		}

		result, askErr := s.ask(s.Engine.GetListingActor(), &actors.UpdateListingMsg{
			CallerID:    callerID,
			ListingID:   listingID,
			Kind:        req.Kind,
			Title:       req.Title,
			Category:    req.Category,
			Location:    req.Location,
			Description: req.Description,
			Images:      req.Images,
		})
		if appErr := s.asAppError(result, askErr); appErr != nil {
			s.writeStatusError(w, appErr)
			return
		}

		api.WriteData(w, http.StatusOK, map[string]any{"item": result})
	}
}

func (s *Server) HandleMyListings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetAccountIDFromContext(r.Context())
		if !ok {
			api.WriteStatusError(w, http.StatusUnauthorized, "Not authorized, please login")
			return
		}

		result, err := s.ask(s.Engine.GetListingActor(), &actors.ListOwnListingsMsg{OwnerID: ownerID})
		if appErr := s.asAppError(result, err); appErr != nil {
			s.writeStatusError(w, appErr)
			return
		}

		items := result.([]*api.ListingView)
		api.WriteDataCount(w, http.StatusOK, len(items), map[string]any{"items": items})
	}
}

func (s *Server) HandleDeleteListing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, ok := middleware.GetAccountIDFromContext(r.Context())
		if !ok {
			api.WriteStatusError(w, http.StatusUnauthorized, "Not authorized, please login")
			return
		}

		listingID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			api.WriteStatusError(w, http.StatusNotFound, "Item not found")
			return
		}

		result, askErr := s.ask(s.Engine.GetListingActor(), &actors.DeleteListingMsg{
			CallerID:  callerID,
			ListingID: listingID,
		})
		if appErr := s.asAppError(result, askErr); appErr != nil {
			s.writeStatusError(w, appErr)
			return
		}

		api.WriteStatusMessage(w, http.StatusOK, "Item deleted successfully")
	}
}
