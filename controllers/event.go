package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-volunteer/models"
	"go-volunteer/services"
	"go-volunteer/utils"
)

// EventController handles event CRUD and registration requests.
type EventController struct {
	events *services.EventService
	logger zerolog.Logger
}

func NewEventController(events *services.EventService, logger zerolog.Logger) *EventController {
	return &EventController{events: events, logger: logger}
}

// GetEvents handles GET /api/events with whitelisted filtering, field
// selection, sorting and pagination.
func (c *EventController) GetEvents(w http.ResponseWriter, r *http.Request) {
	query, err := utils.ParseEventQuery(r.URL.Query())
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, total, err := c.events.List(r.Context(), query)
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}

	pagination := map[string]interface{}{}
	if int64(query.Page*query.Limit) < total {
		pagination["next"] = map[string]int{"page": query.Page + 1, "limit": query.Limit}
	}
	if query.Page > 1 {
		pagination["prev"] = map[string]int{"page": query.Page - 1, "limit": query.Limit}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"count":      len(events),
		"pagination": pagination,
		"data":       events,
	})
}

// GetEvent handles GET /api/events/{id}.
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, services.ErrEventNotFound.Message)
		return
	}

	event, err := c.events.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	utils.RespondData(w, http.StatusOK, event)
}

// CreateEvent handles POST /api/events (organization only).
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ownerID, _, ok := callerID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := c.events.Create(r.Context(), ownerID, &event)
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	utils.RespondData(w, http.StatusCreated, created)
}

// UpdateEvent handles PUT /api/events/{id} (owning organization only).
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	callerUserID, _, ok := callerID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, services.ErrEventNotFound.Message)
		return
	}

	var in services.UpdateEventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event, err := c.events.Update(r.Context(), id, callerUserID, in)
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	utils.RespondData(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /api/events/{id} (owning organization only).
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	callerUserID, _, ok := callerID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, services.ErrEventNotFound.Message)
		return
	}

	if err := c.events.Delete(r.Context(), id, callerUserID); err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	utils.RespondData(w, http.StatusOK, map[string]interface{}{})
}

// GetMyOrganizationEvents handles GET /api/events/organization/me.
func (c *EventController) GetMyOrganizationEvents(w http.ResponseWriter, r *http.Request) {
	callerUserID, _, ok := callerID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}
	c.respondOrganizationEvents(w, r, callerUserID)
}

// GetOrganizationEvents handles GET /api/events/organization/{orgId}.
func (c *EventController) GetOrganizationEvents(w http.ResponseWriter, r *http.Request) {
	orgID, err := primitive.ObjectIDFromHex(mux.Vars(r)["orgId"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid organization ID format")
		return
	}
	c.respondOrganizationEvents(w, r, orgID)
}

func (c *EventController) respondOrganizationEvents(w http.ResponseWriter, r *http.Request, orgUserID primitive.ObjectID) {
	events, err := c.events.ByOrganization(r.Context(), orgUserID)
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(events),
		"data":    events,
	})
}

// RegisterForEvent handles POST /api/events/{eventId}/register (volunteer only).
func (c *EventController) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	callerUserID, _, ok := callerID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}
	eventID, err := primitive.ObjectIDFromHex(mux.Vars(r)["eventId"])
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, services.ErrEventNotFound.Message)
		return
	}

	var in services.RegisterForEventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event, err := c.events.RegisterVolunteer(r.Context(), eventID, callerUserID, in)
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	utils.RespondData(w, http.StatusOK, event)
}

// UpdateVolunteerStatus handles PUT /api/events/{eventId}/volunteers/{volunteerId}
// (owning organization only).
func (c *EventController) UpdateVolunteerStatus(w http.ResponseWriter, r *http.Request) {
	callerUserID, _, ok := callerID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	vars := mux.Vars(r)
	eventID, err := primitive.ObjectIDFromHex(vars["eventId"])
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, services.ErrEventNotFound.Message)
		return
	}
	volunteerID, err := primitive.ObjectIDFromHex(vars["volunteerId"])
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, services.ErrVolunteerNotInEvent.Message)
		return
	}

	var in struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event, err := c.events.UpdateVolunteerStatus(r.Context(), eventID, volunteerID, callerUserID, in.Status)
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	utils.RespondData(w, http.StatusOK, event)
}
