package routes

import (
	"github.com/gorilla/mux"

	"go-volunteer/controllers"
	"go-volunteer/middleware"
	"go-volunteer/models"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(
	router *mux.Router,
	auth *controllers.AuthController,
	events *controllers.EventController,
	volunteers *controllers.VolunteerController,
	organizations *controllers.OrganizationController,
) {
	api := router.PathPrefix("/api").Subrouter()

	// Auth routes
	authRouter := api.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/register", auth.Register).Methods("POST")
	authRouter.HandleFunc("/login", auth.Login).Methods("POST")
	authRouter.HandleFunc("/verify-email/{token}", auth.VerifyEmail).Methods("GET")
	authRouter.HandleFunc("/resend-verification", auth.ResendVerification).Methods("POST")
	authRouter.Handle("/complete-profile", middleware.Protect(auth.CompleteProfile)).Methods("POST")
	authRouter.Handle("/me", middleware.Protect(auth.Me)).Methods("GET")

	// Event routes. The literal /organization paths are registered before the
	// /{id} patterns so they are matched first.
	eventRouter := api.PathPrefix("/events").Subrouter()
	eventRouter.HandleFunc("", events.GetEvents).Methods("GET")
	eventRouter.Handle("", middleware.Protect(events.CreateEvent, models.RoleOrganization)).Methods("POST")
	eventRouter.Handle("/organization/me", middleware.Protect(events.GetMyOrganizationEvents, models.RoleOrganization)).Methods("GET")
	eventRouter.HandleFunc("/organization/{orgId}", events.GetOrganizationEvents).Methods("GET")
	eventRouter.HandleFunc("/{id}", events.GetEvent).Methods("GET")
	eventRouter.Handle("/{id}", middleware.Protect(events.UpdateEvent, models.RoleOrganization)).Methods("PUT")
	eventRouter.Handle("/{id}", middleware.Protect(events.DeleteEvent, models.RoleOrganization)).Methods("DELETE")
	eventRouter.Handle("/{eventId}/register", middleware.Protect(events.RegisterForEvent, models.RoleVolunteer)).Methods("POST")
	eventRouter.Handle("/{eventId}/volunteers/{volunteerId}", middleware.Protect(events.UpdateVolunteerStatus, models.RoleOrganization)).Methods("PUT")

	// Volunteer directory
	volunteerRouter := api.PathPrefix("/volunteers").Subrouter()
	volunteerRouter.Handle("", middleware.Protect(volunteers.GetVolunteers, models.RoleAdmin)).Methods("GET")
	volunteerRouter.Handle("/me/events", middleware.Protect(volunteers.GetMyEvents, models.RoleVolunteer)).Methods("GET")
	volunteerRouter.Handle("/{id}", middleware.Protect(volunteers.GetVolunteer)).Methods("GET")

	// Organization directory
	organizationRouter := api.PathPrefix("/organizations").Subrouter()
	organizationRouter.Handle("", middleware.Protect(organizations.GetOrganizations, models.RoleAdmin)).Methods("GET")
	organizationRouter.Handle("/{id}", middleware.Protect(organizations.GetOrganization)).Methods("GET")
}
