package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/openlodging/mediasync/internal/http/response"
)

// handleGetMedia returns the document-store state of one asset.
func (s *Server) handleGetMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	guid := chi.URLParam(r, "guid")
	if guid == "" {
		response.BadRequest(w, "media GUID is required", s.logger)
		return
	}

	rec, err := s.docs.GetByGUID(ctx, guid)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, toMediaResponse(rec), s.logger)
}

// handleGetMediaRooms returns the rooms currently associated with an asset
// in the catalog store.
func (s *Server) handleGetMediaRooms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	guid := chi.URLParam(r, "guid")
	if guid == "" {
		response.BadRequest(w, "media GUID is required", s.logger)
		return
	}

	rec, err := s.docs.GetByGUID(ctx, guid)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	rooms, err := s.catalog.GetRoomsByMediaID(ctx, rec.MediaID)
	if err != nil {
		s.logger.Error("failed to load room associations", "guid", guid, "error", err)
		response.InternalError(w, "failed to load room associations", s.logger)
		return
	}

	response.Success(w, toRoomResponses(rooms), s.logger)
}

// handleGetPropertyHeroes returns the active hero media for a property.
// The hero-uniqueness invariant makes more than one entry a reconciliation
// bug, but the endpoint reports whatever the store holds.
func (s *Server) handleGetPropertyHeroes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	propertyID, err := strconv.ParseInt(chi.URLParam(r, "propertyID"), 10, 64)
	if err != nil || propertyID <= 0 {
		response.BadRequest(w, "property ID must be a positive integer", s.logger)
		return
	}

	heroes, err := s.docs.GetHeroMedia(ctx, propertyID, s.cfg.Media.Domain)
	if err != nil {
		s.logger.Error("failed to load hero media", "property_id", propertyID, "error", err)
		response.InternalError(w, "failed to load hero media", s.logger)
		return
	}

	out := make([]MediaResponse, len(heroes))
	for i := range heroes {
		out[i] = toMediaResponse(&heroes[i])
	}
	response.Success(w, out, s.logger)
}
