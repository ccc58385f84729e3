// Package store defines the persistence interfaces for the platform and
// provides two implementations: MongoDB (production) and in-memory (tests).
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-volunteer/models"
)

var (
	// ErrNotFound is returned when no document matches.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned on a unique-constraint violation.
	ErrDuplicate = errors.New("store: duplicate key")
)

// Cond constrains one field. Keys are operators from the whitelist
// {eq, gt, gte, lt, lte, in}; "in" carries a slice value.
type Cond map[string]interface{}

// SortKey orders a result set by one field.
type SortKey struct {
	Field string
	Desc  bool
}

// EventQuery is a whitelist-built query for listing events. Field names are
// the stored (bson) names.
type EventQuery struct {
	Filter map[string]Cond
	Sort   []SortKey
	Select []string
	Page   int
	Limit  int
}

// UserStore persists account identities.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	// ByVerificationToken matches a user whose stored token equals token and
	// whose expiry is strictly after now, in a single lookup.
	ByVerificationToken(ctx context.Context, token string, now time.Time) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// VolunteerStore persists volunteer profiles.
type VolunteerStore interface {
	Create(ctx context.Context, volunteer *models.Volunteer) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Volunteer, error)
	ByUser(ctx context.Context, userID primitive.ObjectID) (*models.Volunteer, error)
	List(ctx context.Context) ([]models.Volunteer, error)
	// AddRegisteredEvent appends the mirror entry to the profile owned by userID.
	AddRegisteredEvent(ctx context.Context, userID primitive.ObjectID, entry models.RegisteredEvent) error
}

// OrganizationStore persists organization profiles.
type OrganizationStore interface {
	Create(ctx context.Context, organization *models.Organization) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Organization, error)
	ByUser(ctx context.Context, userID primitive.ObjectID) (*models.Organization, error)
	List(ctx context.Context) ([]models.Organization, error)
	AddEvent(ctx context.Context, userID, eventID primitive.ObjectID) error
	RemoveEvent(ctx context.Context, userID, eventID primitive.ObjectID) error
}

// EventStore persists events with their embedded registrations.
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	// Update replaces the stored document, so cleared fields do not linger.
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// List returns one page of events plus the total collection count.
	List(ctx context.Context, q EventQuery) ([]models.Event, int64, error)
	// ByOrganization returns the events owned by orgUserID, soonest first.
	ByOrganization(ctx context.Context, orgUserID primitive.ObjectID) ([]models.Event, error)
}
