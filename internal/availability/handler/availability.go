package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"tably/internal/availability/service"
	apperrors "tably/pkg/errors"
	httputil "tably/pkg/http"
	"tably/pkg/logger"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

type availabilityResponse struct {
	VenueID   string   `json:"venue_id"`
	Date      string   `json:"date"`
	PartySize int      `json:"party_size"`
	Times     []string `json:"times"`
	Reason    string   `json:"reason,omitempty"`
}

func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	venueID := query.Get("venue_id")
	date := query.Get("date")
	partySizeStr := query.Get("party_size")

	if venueID == "" || date == "" || partySizeStr == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "The 'venue_id', 'date' and 'party_size' query parameters are required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Get", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	partySize, err := strconv.Atoi(partySizeStr)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("invalid party_size parameter: %s", partySizeStr))); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	result, err := h.service.GetAvailableTimes(r.Context(), venueID, date, partySize)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, availabilityResponse{
		VenueID:   venueID,
		Date:      date,
		PartySize: partySize,
		Times:     result.Times,
		Reason:    result.Reason,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.Get)
}
