package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-volunteer/models"
	"go-volunteer/store"
)

func TestCreateEventRecordsOwnership(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.newOrganization(t, "org@example.com", "Helping Hands")

	event := env.newEvent(t, ownerID, 5)
	assert.Equal(t, ownerID, event.Organization)
	assert.Equal(t, models.EventStatusUpcoming, event.Status)
	assert.Equal(t, models.DefaultEventImage, event.Image)
	assert.Empty(t, event.VolunteersRegistered)

	org, err := env.organizations.ByUser(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Contains(t, org.Events, event.ID)
}

func TestCreateEventValidation(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.newOrganization(t, "org@example.com", "Helping Hands")

	_, err := env.eventsSvc.Create(context.Background(), ownerID, &models.Event{
		Title:            "Bad Category",
		Description:      "d",
		Date:             env.now.Add(time.Hour),
		StartTime:        "09:00",
		EndTime:          "10:00",
		Location:         "loc",
		Address:          "addr",
		Category:         "Sports",
		SkillsRequired:   []string{"x"},
		VolunteersNeeded: 1,
	})
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.StatusCode)

	_, err = env.eventsSvc.Create(context.Background(), ownerID, &models.Event{
		Title:            "No Volunteers",
		Description:      "d",
		Date:             env.now.Add(time.Hour),
		StartTime:        "09:00",
		EndTime:          "10:00",
		Location:         "loc",
		Address:          "addr",
		Category:         "Education",
		SkillsRequired:   []string{"x"},
		VolunteersNeeded: 0,
	})
	assert.Error(t, err)
}

func TestCreateEventRequiresOrganizationProfile(t *testing.T) {
	env := newTestEnv(t)
	// Verified organization user who has not completed their profile yet.
	user := env.registerVerified(t, "org@example.com", models.RoleOrganization)

	_, err := env.eventsSvc.Create(context.Background(), user.ID, &models.Event{
		Title:            "Orphan",
		Description:      "d",
		Date:             env.now.Add(time.Hour),
		StartTime:        "09:00",
		EndTime:          "10:00",
		Location:         "loc",
		Address:          "addr",
		Category:         "Community",
		SkillsRequired:   []string{"x"},
		VolunteersNeeded: 1,
	})
	assert.ErrorIs(t, err, ErrProfileNotFound)

	// The failing check runs before the insert, so nothing was stored.
	_, total, err := env.eventsSvc.List(context.Background(), store.EventQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCreateEventWithPastDateBecomesActive(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.newOrganization(t, "org@example.com", "Helping Hands")

	event, err := env.eventsSvc.Create(context.Background(), ownerID, &models.Event{
		Title:            "Yesterday",
		Description:      "d",
		Date:             env.now.Add(-time.Hour),
		StartTime:        "09:00",
		EndTime:          "10:00",
		Location:         "loc",
		Address:          "addr",
		Category:         "Community",
		SkillsRequired:   []string{"x"},
		VolunteersNeeded: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusActive, event.Status)
}

func TestUpdateEventOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.newOrganization(t, "org@example.com", "Helping Hands")
	otherID := env.newOrganization(t, "other@example.com", "Other Org")
	event := env.newEvent(t, ownerID, 5)

	title := "Renamed"
	_, err := env.eventsSvc.Update(context.Background(), event.ID, otherID, UpdateEventInput{Title: &title})
	assert.ErrorIs(t, err, ErrNotEventOwner)

	updated, err := env.eventsSvc.Update(context.Background(), event.ID, ownerID, UpdateEventInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	// Untouched fields survive the partial update.
	assert.Equal(t, event.Description, updated.Description)
}

func TestUpdateMissingEventIsNotFoundEvenForStrangers(t *testing.T) {
	env := newTestEnv(t)
	strangerID := env.newOrganization(t, "other@example.com", "Other Org")

	// Existence is checked before ownership.
	title := "x"
	_, err := env.eventsSvc.Update(context.Background(), primitive.NewObjectID(), strangerID, UpdateEventInput{Title: &title})
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestDeleteEventRemovesOrganizationReference(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.newOrganization(t, "org@example.com", "Helping Hands")
	otherID := env.newOrganization(t, "other@example.com", "Other Org")
	event := env.newEvent(t, ownerID, 5)

	err := env.eventsSvc.Delete(context.Background(), event.ID, otherID)
	assert.ErrorIs(t, err, ErrNotEventOwner)

	require.NoError(t, env.eventsSvc.Delete(context.Background(), event.ID, ownerID))

	_, err = env.eventsSvc.Get(context.Background(), event.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)

	org, err := env.organizations.ByUser(context.Background(), ownerID)
	require.NoError(t, err)
	assert.NotContains(t, org.Events, event.ID)
}

func TestRegisterVolunteer(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.newOrganization(t, "org@example.com", "Helping Hands")
	volunteerID := env.newVolunteer(t, "vol@example.com")
	event := env.newEvent(t, ownerID, 5)

	updated, err := env.eventsSvc.RegisterVolunteer(context.Background(), event.ID, volunteerID, RegisterForEventInput{
		VolunteerID: volunteerID.Hex(),
		Message:     "I want to help",
		Skills:      []string{"first aid"},
	})
	require.NoError(t, err)
	require.Len(t, updated.VolunteersRegistered, 1)

	registration := updated.VolunteersRegistered[0]
	assert.Equal(t, volunteerID, registration.Volunteer)
	assert.Equal(t, models.RegistrationPending, registration.Status)
	assert.Equal(t, "I want to help", registration.Message)
	assert.Equal(t, env.now, registration.RegisteredAt)

	// The mirror entry landed on the volunteer profile.
	volunteer, err := env.volunteers.ByUser(context.Background(), volunteerID)
	require.NoError(t, err)
	require.Len(t, volunteer.RegisteredEvents, 1)
	assert.Equal(t, event.ID, volunteer.RegisteredEvents[0].Event)
	assert.Equal(t, models.RegistrationPending, volunteer.RegisteredEvents[0].Status)
}

func TestRegisterVolunteerForbiddenForOthers(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.newOrganization(t, "org@example.com", "Helping Hands")
	volunteerID := env.newVolunteer(t, "vol@example.com")
	impostorID := env.newVolunteer(t, "impostor@example.com")
	event := env.newEvent(t, ownerID, 5)

	_, err := env.eventsSvc.RegisterVolunteer(context.Background(), event.ID, impostorID, RegisterForEventInput{
		VolunteerID: volunteerID.Hex(),
		Message:     "on their behalf",
		Skills:      []string{"x"},
	})
	assert.ErrorIs(t, err, ErrNotOwnRegistration)
}

func TestRegisterVolunteerMissingFields(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.newOrganization(t, "org@example.com", "Helping Hands")
	volunteerID := env.newVolunteer(t, "vol@example.com")
	event := env.newEvent(t, ownerID, 5)

	_, err := env.eventsSvc.RegisterVolunteer(context.Background(), event.ID, volunteerID, RegisterForEventInput{
		VolunteerID: volunteerID.Hex(),
	})
	assert.Error(t, err)
}

func TestRegisterVolunteerMissingEvent(t *testing.T) {
	env := newTestEnv(t)
	volunteerID := env.newVolunteer(t, "vol@example.com")

	_, err := env.eventsSvc.RegisterVolunteer(context.Background(), primitive.NewObjectID(), volunteerID, RegisterForEventInput{
		VolunteerID: volunteerID.Hex(),
		Message:     "hi",
		Skills:      []string{"x"},
	})
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRegisterVolunteerDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.newOrganization(t, "org@example.com", "Helping Hands")
	volunteerID := env.newVolunteer(t, "vol@example.com")
	event := env.newEvent(t, ownerID, 5)

	in := RegisterForEventInput{VolunteerID: volunteerID.Hex(), Message: "hi", Skills: []string{"x"}}
	_, err := env.eventsSvc.RegisterVolunteer(context.Background(), event.ID, volunteerID, in)
	require.NoError(t, err)

	_, err = env.eventsSvc.RegisterVolunteer(context.Background(), event.ID, volunteerID, in)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	// The pair still has exactly one registration.
	stored, err := env.eventsSvc.Get(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Len(t, stored.VolunteersRegistered, 1)
}

func TestRegisterVolunteerEventFull(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.newOrganization(t, "org@example.com", "Helping Hands")
	event := env.newEvent(t, ownerID, 2)

	for _, email := range []string{"a@example.com", "b@example.com"} {
		id := env.newVolunteer(t, email)
		_, err := env.eventsSvc.RegisterVolunteer(context.Background(), event.ID, id, RegisterForEventInput{
			VolunteerID: id.Hex(), Message: "hi", Skills: []string{"x"},
		})
		require.NoError(t, err)
	}

	lateID := env.newVolunteer(t, "late@example.com")
	_, err := env.eventsSvc.RegisterVolunteer(context.Background(), event.ID, lateID, RegisterForEventInput{
		VolunteerID: lateID.Hex(), Message: "hi", Skills: []string{"x"},
	})
	assert.ErrorIs(t, err, ErrEventFull)
}

func TestCapacityCountsRejectedEntries(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.newOrganization(t, "org@example.com", "Helping Hands")
	volunteerA := env.newVolunteer(t, "a@example.com")
	volunteerB := env.newVolunteer(t, "b@example.com")
	event := env.newEvent(t, ownerID, 1)

	_, err := env.eventsSvc.RegisterVolunteer(context.Background(), event.ID, volunteerA, RegisterForEventInput{
		VolunteerID: volunteerA.Hex(), Message: "hi", Skills: []string{"x"},
	})
	require.NoError(t, err)

	bInput := RegisterForEventInput{VolunteerID: volunteerB.Hex(), Message: "hi", Skills: []string{"x"}}
	_, err = env.eventsSvc.RegisterVolunteer(context.Background(), event.ID, volunteerB, bInput)
	assert.ErrorIs(t, err, ErrEventFull)

	// Rejecting A does not free the slot: capacity counts every entry.
	_, err = env.eventsSvc.UpdateVolunteerStatus(context.Background(), event.ID, volunteerA, ownerID, models.RegistrationRejected)
	require.NoError(t, err)

	_, err = env.eventsSvc.RegisterVolunteer(context.Background(), event.ID, volunteerB, bInput)
	assert.ErrorIs(t, err, ErrEventFull)
}

func TestRegistrationMirrorFailureReportsFailure(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.newOrganization(t, "org@example.com", "Helping Hands")
	event := env.newEvent(t, ownerID, 5)

	// A verified user with no volunteer profile makes the mirror write fail.
	user := env.registerVerified(t, "noprofile@example.com", models.RoleVolunteer)

	_, err := env.eventsSvc.RegisterVolunteer(context.Background(), event.ID, user.ID, RegisterForEventInput{
		VolunteerID: user.ID.Hex(), Message: "hi", Skills: []string{"x"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Known gap: the event-side write is not rolled back when the mirror
	// write fails.
	stored, err := env.eventsSvc.Get(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Len(t, stored.VolunteersRegistered, 1)
}

func TestUpdateVolunteerStatus(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.newOrganization(t, "org@example.com", "Helping Hands")
	volunteerID := env.newVolunteer(t, "vol@example.com")
	event := env.newEvent(t, ownerID, 5)

	_, err := env.eventsSvc.RegisterVolunteer(context.Background(), event.ID, volunteerID, RegisterForEventInput{
		VolunteerID: volunteerID.Hex(), Message: "keep me", Skills: []string{"first aid"},
	})
	require.NoError(t, err)

	updated, err := env.eventsSvc.UpdateVolunteerStatus(context.Background(), event.ID, volunteerID, ownerID, models.RegistrationAccepted)
	require.NoError(t, err)

	registration := updated.FindRegistration(volunteerID)
	require.NotNil(t, registration)
	assert.Equal(t, models.RegistrationAccepted, registration.Status)
	// Only the status changes; the rest of the entry is preserved.
	assert.Equal(t, "keep me", registration.Message)
	assert.Equal(t, []string{"first aid"}, registration.Skills)
	assert.Equal(t, env.now, registration.RegisteredAt)
}

func TestUpdateVolunteerStatusIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.newOrganization(t, "org@example.com", "Helping Hands")
	volunteerID := env.newVolunteer(t, "vol@example.com")
	event := env.newEvent(t, ownerID, 5)

	_, err := env.eventsSvc.RegisterVolunteer(context.Background(), event.ID, volunteerID, RegisterForEventInput{
		VolunteerID: volunteerID.Hex(), Message: "hi", Skills: []string{"x"},
	})
	require.NoError(t, err)

	first, err := env.eventsSvc.UpdateVolunteerStatus(context.Background(), event.ID, volunteerID, ownerID, models.RegistrationWaitlisted)
	require.NoError(t, err)
	second, err := env.eventsSvc.UpdateVolunteerStatus(context.Background(), event.ID, volunteerID, ownerID, models.RegistrationWaitlisted)
	require.NoError(t, err)
	assert.Equal(t, first.VolunteersRegistered, second.VolunteersRegistered)
}

func TestUpdateVolunteerStatusReassignsFreely(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.newOrganization(t, "org@example.com", "Helping Hands")
	volunteerID := env.newVolunteer(t, "vol@example.com")
	event := env.newEvent(t, ownerID, 5)

	_, err := env.eventsSvc.RegisterVolunteer(context.Background(), event.ID, volunteerID, RegisterForEventInput{
		VolunteerID: volunteerID.Hex(), Message: "hi", Skills: []string{"x"},
	})
	require.NoError(t, err)

	for _, status := range []string{
		models.RegistrationAccepted,
		models.RegistrationRejected,
		models.RegistrationWaitlisted,
		models.RegistrationAccepted,
	} {
		updated, err := env.eventsSvc.UpdateVolunteerStatus(context.Background(), event.ID, volunteerID, ownerID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.FindRegistration(volunteerID).Status)
	}
}

func TestUpdateVolunteerStatusGates(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.newOrganization(t, "org@example.com", "Helping Hands")
	otherID := env.newOrganization(t, "other@example.com", "Other Org")
	volunteerID := env.newVolunteer(t, "vol@example.com")
	event := env.newEvent(t, ownerID, 5)

	_, err := env.eventsSvc.RegisterVolunteer(context.Background(), event.ID, volunteerID, RegisterForEventInput{
		VolunteerID: volunteerID.Hex(), Message: "hi", Skills: []string{"x"},
	})
	require.NoError(t, err)

	_, err = env.eventsSvc.UpdateVolunteerStatus(context.Background(), primitive.NewObjectID(), volunteerID, ownerID, models.RegistrationAccepted)
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = env.eventsSvc.UpdateVolunteerStatus(context.Background(), event.ID, primitive.NewObjectID(), ownerID, models.RegistrationAccepted)
	assert.ErrorIs(t, err, ErrVolunteerNotInEvent)

	_, err = env.eventsSvc.UpdateVolunteerStatus(context.Background(), event.ID, volunteerID, otherID, models.RegistrationAccepted)
	assert.ErrorIs(t, err, ErrNotEventOwner)

	_, err = env.eventsSvc.UpdateVolunteerStatus(context.Background(), event.ID, volunteerID, ownerID, "approved")
	assert.Error(t, err)
}

func TestByOrganizationSortsByDate(t *testing.T) {
	env := newTestEnv(t)
	ownerID := env.newOrganization(t, "org@example.com", "Helping Hands")

	later, err := env.eventsSvc.Create(context.Background(), ownerID, &models.Event{
		Title: "Later", Description: "d", Date: env.now.Add(96 * time.Hour),
		StartTime: "09:00", EndTime: "10:00", Location: "loc", Address: "addr",
		Category: "Education", SkillsRequired: []string{"x"}, VolunteersNeeded: 1,
	})
	require.NoError(t, err)
	sooner := env.newEvent(t, ownerID, 1)

	events, err := env.eventsSvc.ByOrganization(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, sooner.ID, events[0].ID)
	assert.Equal(t, later.ID, events[1].ID)
}
