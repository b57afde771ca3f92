package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	"github.com/openlodging/mediasync/internal/domain"
	"github.com/openlodging/mediasync/internal/http/response"
	"github.com/openlodging/mediasync/internal/id"
)

// handleIngestEvent accepts one image event, validates it, and runs it
// through the reconciliation service. Ingestion is rate limited per property
// so one noisy feed cannot starve the rest.
func (s *Server) handleIngestEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ImageEventRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if !s.limiter.Allow(strconv.FormatInt(req.PropertyID, 10)) {
		s.logger.Warn("ingest rate limit exceeded", "property_id", req.PropertyID)
		response.TooManyRequests(w, "too many events for this property, retry later", s.logger)
		return
	}

	ev := req.toDomain()
	if ev.EventID == "" {
		ev.EventID = id.MustGenerate("evt")
	}

	res, err := s.media.HandleEvent(ctx, ev)
	if err != nil {
		s.logger.Error("event processing failed",
			"event_id", ev.EventID,
			"kind", ev.Kind,
			"property_id", ev.PropertyID,
			"error", err,
		)
		response.HandleError(w, err, s.logger)
		return
	}

	if ev.Kind == domain.EventAdd && !res.Duplicate && !res.Replaced {
		response.Created(w, res, s.logger)
		return
	}
	response.Success(w, res, s.logger)
}
