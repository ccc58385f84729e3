package controllers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-volunteer/services"
	"go-volunteer/store"
	"go-volunteer/utils"
)

// VolunteerController handles the volunteer directory endpoints.
type VolunteerController struct {
	volunteers store.VolunteerStore
	logger     zerolog.Logger
}

func NewVolunteerController(volunteers store.VolunteerStore, logger zerolog.Logger) *VolunteerController {
	return &VolunteerController{volunteers: volunteers, logger: logger}
}

// GetVolunteers handles GET /api/volunteers (admin only).
func (c *VolunteerController) GetVolunteers(w http.ResponseWriter, r *http.Request) {
	volunteers, err := c.volunteers.List(r.Context())
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(volunteers),
		"data":    volunteers,
	})
}

// GetVolunteer handles GET /api/volunteers/{id}.
func (c *VolunteerController) GetVolunteer(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Volunteer not found")
		return
	}

	volunteer, err := c.volunteers.ByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Volunteer not found")
			return
		}
		writeServiceError(w, c.logger, err)
		return
	}
	utils.RespondData(w, http.StatusOK, volunteer)
}

// GetMyEvents handles GET /api/volunteers/me/events: the authenticated
// volunteer's own mirror of their registrations.
func (c *VolunteerController) GetMyEvents(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := callerID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	volunteer, err := c.volunteers.ByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeServiceError(w, c.logger, services.ErrProfileNotFound)
			return
		}
		writeServiceError(w, c.logger, err)
		return
	}
	utils.RespondData(w, http.StatusOK, volunteer.RegisteredEvents)
}
