package controllers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-volunteer/store"
	"go-volunteer/utils"
)

// OrganizationController handles the organization directory endpoints.
type OrganizationController struct {
	organizations store.OrganizationStore
	logger        zerolog.Logger
}

func NewOrganizationController(organizations store.OrganizationStore, logger zerolog.Logger) *OrganizationController {
	return &OrganizationController{organizations: organizations, logger: logger}
}

// GetOrganizations handles GET /api/organizations (admin only).
func (c *OrganizationController) GetOrganizations(w http.ResponseWriter, r *http.Request) {
	organizations, err := c.organizations.List(r.Context())
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(organizations),
		"data":    organizations,
	})
}

// GetOrganization handles GET /api/organizations/{id}.
func (c *OrganizationController) GetOrganization(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Organization not found")
		return
	}

	organization, err := c.organizations.ByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Organization not found")
			return
		}
		writeServiceError(w, c.logger, err)
		return
	}
	utils.RespondData(w, http.StatusOK, organization)
}
