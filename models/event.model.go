package models

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event statuses
const (
	EventStatusUpcoming  = "upcoming"
	EventStatusActive    = "active"
	EventStatusCompleted = "completed"
	EventStatusCancelled = "cancelled"
)

// Registration statuses
const (
	RegistrationPending    = "pending"
	RegistrationAccepted   = "accepted"
	RegistrationRejected   = "rejected"
	RegistrationWaitlisted = "waitlisted"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 500

	// DefaultEventImage is used when no image is supplied on creation.
	DefaultEventImage = "https://via.placeholder.com/150"
)

// EventCategories is the closed set of accepted event categories.
var EventCategories = []string{
	"Environment",
	"Education",
	"Health",
	"Animals",
	"Community",
	"Arts",
	"Elderly",
	"Children",
	"Disability",
	"Homelessness",
}

// Registration records one volunteer's participation request on an event.
// At most one exists per (event, volunteer) pair.
type Registration struct {
	Volunteer    primitive.ObjectID `bson:"volunteer" json:"volunteer"`
	Status       string             `bson:"status" json:"status"`
	Message      string             `bson:"message" json:"message"`
	Skills       []string           `bson:"skills" json:"skills"`
	RegisteredAt time.Time          `bson:"registered_at" json:"registeredAt"`
}

// Event is owned by the organization user referenced in Organization; only
// that user may mutate or delete it.
type Event struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Organization         primitive.ObjectID `bson:"organization" json:"organization"`
	Title                string             `bson:"title" json:"title"`
	Description          string             `bson:"description" json:"description"`
	Date                 time.Time          `bson:"date" json:"date"`
	StartTime            string             `bson:"start_time" json:"startTime"`
	EndTime              string             `bson:"end_time" json:"endTime"`
	Location             string             `bson:"location" json:"location"`
	Address              string             `bson:"address" json:"address"`
	Category             string             `bson:"category" json:"category"`
	SkillsRequired       []string           `bson:"skills_required" json:"skillsRequired"`
	VolunteersNeeded     int                `bson:"volunteers_needed" json:"volunteersNeeded"`
	VolunteersRegistered []Registration     `bson:"volunteers_registered" json:"volunteersRegistered"`
	Status               string             `bson:"status" json:"status"`
	Image                string             `bson:"image" json:"image"`
	CreatedAt            time.Time          `bson:"created_at" json:"createdAt"`
}

// ValidCategory reports whether category is in the closed category set.
func ValidCategory(category string) bool {
	for _, c := range EventCategories {
		if c == category {
			return true
		}
	}
	return false
}

// ValidEventStatus reports whether status is a known event status.
func ValidEventStatus(status string) bool {
	switch status {
	case EventStatusUpcoming, EventStatusActive, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}

// ValidRegistrationStatus reports whether status is a known registration status.
func ValidRegistrationStatus(status string) bool {
	switch status {
	case RegistrationPending, RegistrationAccepted, RegistrationRejected, RegistrationWaitlisted:
		return true
	}
	return false
}

// Validate checks the event's own fields. It does not touch registrations.
func (e *Event) Validate() error {
	switch {
	case e.Title == "":
		return errors.New("Please add a title")
	case len(e.Title) > maxTitleLength:
		return fmt.Errorf("Title cannot be more than %d characters", maxTitleLength)
	case e.Description == "":
		return errors.New("Please add a description")
	case len(e.Description) > maxDescriptionLength:
		return fmt.Errorf("Description cannot be more than %d characters", maxDescriptionLength)
	case e.Date.IsZero():
		return errors.New("Please add an event date")
	case e.StartTime == "":
		return errors.New("Please add a start time")
	case e.EndTime == "":
		return errors.New("Please add an end time")
	case e.Location == "":
		return errors.New("Please add a location")
	case e.Address == "":
		return errors.New("Please add an address")
	case !ValidCategory(e.Category):
		return errors.New("Please add a valid category")
	case len(e.SkillsRequired) == 0:
		return errors.New("Please add required skills")
	case e.VolunteersNeeded < 1:
		return errors.New("At least 1 volunteer is required")
	case !ValidEventStatus(e.Status):
		return errors.New("Invalid event status")
	}
	return nil
}

// RefreshStatus applies the lazy upcoming->active transition. It is evaluated
// on every save path rather than by a background clock.
func (e *Event) RefreshStatus(now time.Time) {
	if e.Status == EventStatusUpcoming && e.Date.Before(now) {
		e.Status = EventStatusActive
	}
}

// FindRegistration returns the registration for volunteerID, or nil.
func (e *Event) FindRegistration(volunteerID primitive.ObjectID) *Registration {
	for i := range e.VolunteersRegistered {
		if e.VolunteersRegistered[i].Volunteer == volunteerID {
			return &e.VolunteersRegistered[i]
		}
	}
	return nil
}
