package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-volunteer/models"
	"go-volunteer/store"
)

// EventService handles event CRUD and the volunteer registration state
// machine. Ownership is checked after existence, so a missing event reports
// not-found even to an unauthorized caller.
type EventService struct {
	events        store.EventStore
	organizations store.OrganizationStore
	volunteers    store.VolunteerStore
	logger        zerolog.Logger
	now           func() time.Time
}

func NewEventService(
	events store.EventStore,
	organizations store.OrganizationStore,
	volunteers store.VolunteerStore,
	logger zerolog.Logger,
) *EventService {
	return &EventService{
		events:        events,
		organizations: organizations,
		volunteers:    volunteers,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *EventService) List(ctx context.Context, q store.EventQuery) ([]models.Event, int64, error) {
	return s.events.List(ctx, q)
}

func (s *EventService) Get(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	event, err := s.events.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *EventService) ByOrganization(ctx context.Context, orgUserID primitive.ObjectID) ([]models.Event, error) {
	return s.events.ByOrganization(ctx, orgUserID)
}

// Create stores a new event owned by ownerID and records it on the
// organization profile. The profile is required up front: login is possible
// before profile completion, and inserting first would orphan the event when
// the profile-side write finds nothing to update.
func (s *EventService) Create(ctx context.Context, ownerID primitive.ObjectID, event *models.Event) (*models.Event, error) {
	if _, err := s.organizations.ByUser(ctx, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	now := s.now()

	event.ID = primitive.NilObjectID
	event.Organization = ownerID
	event.VolunteersRegistered = []models.Registration{}
	event.CreatedAt = now
	if event.Status == "" {
		event.Status = models.EventStatusUpcoming
	}
	if event.Image == "" {
		event.Image = models.DefaultEventImage
	}

	if err := event.Validate(); err != nil {
		return nil, NewValidationError(err.Error())
	}
	event.RefreshStatus(now)

	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	if err := s.organizations.AddEvent(ctx, ownerID, event.ID); err != nil {
		return nil, err
	}
	return event, nil
}

// UpdateEventInput carries the mutable event fields; nil means keep.
type UpdateEventInput struct {
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	Date             *time.Time `json:"date"`
	StartTime        *string    `json:"startTime"`
	EndTime          *string    `json:"endTime"`
	Location         *string    `json:"location"`
	Address          *string    `json:"address"`
	Category         *string    `json:"category"`
	SkillsRequired   *[]string  `json:"skillsRequired"`
	VolunteersNeeded *int       `json:"volunteersNeeded"`
	Status           *string    `json:"status"`
	Image            *string    `json:"image"`
}

// Update applies the supplied fields to an event owned by callerID,
// re-running the field validators and the lazy status refresh.
func (s *EventService) Update(ctx context.Context, id, callerID primitive.ObjectID, in UpdateEventInput) (*models.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Organization != callerID {
		return nil, ErrNotEventOwner
	}

	if in.Title != nil {
		event.Title = *in.Title
	}
	if in.Description != nil {
		event.Description = *in.Description
	}
	if in.Date != nil {
		event.Date = *in.Date
	}
	if in.StartTime != nil {
		event.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		event.EndTime = *in.EndTime
	}
	if in.Location != nil {
		event.Location = *in.Location
	}
	if in.Address != nil {
		event.Address = *in.Address
	}
	if in.Category != nil {
		event.Category = *in.Category
	}
	if in.SkillsRequired != nil {
		event.SkillsRequired = *in.SkillsRequired
	}
	if in.VolunteersNeeded != nil {
		event.VolunteersNeeded = *in.VolunteersNeeded
	}
	if in.Status != nil {
		event.Status = *in.Status
	}
	if in.Image != nil {
		event.Image = *in.Image
	}

	if err := event.Validate(); err != nil {
		return nil, NewValidationError(err.Error())
	}
	event.RefreshStatus(s.now())

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes an event owned by callerID and pulls it from the
// organization profile's events list.
func (s *EventService) Delete(ctx context.Context, id, callerID primitive.ObjectID) error {
	event, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if event.Organization != callerID {
		return ErrNotEventOwner
	}

	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.organizations.RemoveEvent(ctx, callerID, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

type RegisterForEventInput struct {
	VolunteerID string   `json:"volunteerId"`
	Message     string   `json:"message"`
	Skills      []string `json:"skills"`
}

// RegisterVolunteer moves (event, volunteer) from unregistered to pending.
// Capacity counts every existing registration regardless of status, so a
// rejected volunteer still occupies a slot. The event write lands first and
// the volunteer-side mirror second; a mirror failure reports the whole
// operation failed without rolling back the event write. The capacity
// read-check-write is not serialized across requests, so concurrent
// registrations can overbook; the store's per-document atomicity is the only
// guarantee relied on.
func (s *EventService) RegisterVolunteer(ctx context.Context, eventID, callerID primitive.ObjectID, in RegisterForEventInput) (*models.Event, error) {
	if in.VolunteerID == "" || in.Message == "" || len(in.Skills) == 0 {
		return nil, NewValidationError("Missing required fields")
	}
	volunteerID, err := primitive.ObjectIDFromHex(in.VolunteerID)
	if err != nil {
		return nil, NewValidationError("Invalid volunteer ID")
	}

	event, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if callerID != volunteerID {
		return nil, ErrNotOwnRegistration
	}
	if event.FindRegistration(volunteerID) != nil {
		return nil, ErrAlreadyRegistered
	}
	if len(event.VolunteersRegistered) >= event.VolunteersNeeded {
		return nil, ErrEventFull
	}

	now := s.now()
	event.VolunteersRegistered = append(event.VolunteersRegistered, models.Registration{
		Volunteer:    volunteerID,
		Status:       models.RegistrationPending,
		Message:      in.Message,
		Skills:       in.Skills,
		RegisteredAt: now,
	})
	event.RefreshStatus(now)
	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}

	mirror := models.RegisteredEvent{Event: event.ID, Status: models.RegistrationPending}
	if err := s.volunteers.AddRegisteredEvent(ctx, volunteerID, mirror); err != nil {
		s.logger.Error().Err(err).
			Str("event", event.ID.Hex()).
			Str("volunteer", volunteerID.Hex()).
			Msg("registration mirror write failed; event entry was not rolled back")
		return nil, err
	}
	return event, nil
}

// UpdateVolunteerStatus overwrites the registration's status in place. The
// organization may move a registration between accepted, rejected, waitlisted
// and pending freely; applying the same status twice is a no-op. The mirror
// entry on the volunteer profile is not updated.
func (s *EventService) UpdateVolunteerStatus(ctx context.Context, eventID, volunteerID, callerID primitive.ObjectID, status string) (*models.Event, error) {
	if !models.ValidRegistrationStatus(status) {
		return nil, NewValidationError("Invalid registration status")
	}

	event, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Organization != callerID {
		return nil, ErrNotEventOwner
	}

	registration := event.FindRegistration(volunteerID)
	if registration == nil {
		return nil, ErrVolunteerNotInEvent
	}
	registration.Status = status

	event.RefreshStatus(s.now())
	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}
