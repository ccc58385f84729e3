package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-volunteer/models"
	"go-volunteer/store"
	"go-volunteer/utils"
)

func init() {
	utils.JwtKey = []byte("test-secret")
}

// fakeMailer records deliveries and can be flipped to fail.
type fakeMailer struct {
	fail bool
	sent []sentMail
}

type sentMail struct {
	to    string
	token string
	name  string
}

func (m *fakeMailer) SendVerificationEmail(toEmail, token, name string) error {
	if m.fail {
		return errors.New("smtp: connection refused")
	}
	m.sent = append(m.sent, sentMail{to: toEmail, token: token, name: name})
	return nil
}

func (m *fakeMailer) lastToken() string {
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].token
}

type testEnv struct {
	users         *store.MemoryUserStore
	volunteers    *store.MemoryVolunteerStore
	organizations *store.MemoryOrganizationStore
	events        *store.MemoryEventStore
	mailer        *fakeMailer
	verification  *VerificationService
	auth          *AuthService
	eventsSvc     *EventService
	now           time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:         store.NewMemoryUserStore(),
		volunteers:    store.NewMemoryVolunteerStore(),
		organizations: store.NewMemoryOrganizationStore(),
		events:        store.NewMemoryEventStore(),
		mailer:        &fakeMailer{},
		now:           time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	logger := zerolog.Nop()
	env.verification = NewVerificationService(env.users, env.mailer, logger)
	env.auth = NewAuthService(env.users, env.volunteers, env.organizations, env.verification, logger)
	env.eventsSvc = NewEventService(env.events, env.organizations, env.volunteers, logger)

	clock := func() time.Time { return env.now }
	env.verification.now = clock
	env.auth.now = clock
	env.eventsSvc.now = clock
	return env
}

func (env *testEnv) advance(d time.Duration) {
	env.now = env.now.Add(d)
}

// register runs the full signup flow and returns the created user.
func (env *testEnv) register(t *testing.T, email, role string) *models.User {
	t.Helper()

	_, err := env.auth.Register(context.Background(), RegisterInput{
		Email:    email,
		Password: "secret123",
		Role:     role,
		Name:     "Test User",
	})
	require.NoError(t, err)

	user, err := env.users.ByEmail(context.Background(), email)
	require.NoError(t, err)
	return user
}

// registerVerified signs up and redeems the delivered token.
func (env *testEnv) registerVerified(t *testing.T, email, role string) *models.User {
	t.Helper()

	env.register(t, email, role)
	user, err := env.verification.Redeem(context.Background(), env.mailer.lastToken())
	require.NoError(t, err)
	return user
}

// newVolunteer creates a verified volunteer user with a completed profile and
// returns the user id.
func (env *testEnv) newVolunteer(t *testing.T, email string) primitive.ObjectID {
	t.Helper()

	user := env.registerVerified(t, email, models.RoleVolunteer)
	_, err := env.auth.CompleteProfile(context.Background(), user.ID, CompleteProfileInput{
		Name:   "Vol " + email,
		Phone:  "555-0100",
		Skills: []string{"first aid"},
	})
	require.NoError(t, err)
	return user.ID
}

// newOrganization creates a verified organization user with a completed
// profile and returns the user id.
func (env *testEnv) newOrganization(t *testing.T, email, orgName string) primitive.ObjectID {
	t.Helper()

	user := env.registerVerified(t, email, models.RoleOrganization)
	_, err := env.auth.CompleteProfile(context.Background(), user.ID, CompleteProfileInput{
		OrganizationName: orgName,
		Phone:            "555-0200",
		Address:          "1 Main St",
		Description:      "Helps people",
	})
	require.NoError(t, err)
	return user.ID
}

// newEvent creates an event owned by ownerID with the given capacity.
func (env *testEnv) newEvent(t *testing.T, ownerID primitive.ObjectID, needed int) *models.Event {
	t.Helper()

	event, err := env.eventsSvc.Create(context.Background(), ownerID, &models.Event{
		Title:            "Beach Cleanup",
		Description:      "Pick up litter along the shore",
		Date:             env.now.Add(48 * time.Hour),
		StartTime:        "09:00",
		EndTime:          "13:00",
		Location:         "North Beach",
		Address:          "Shore Rd",
		Category:         "Environment",
		SkillsRequired:   []string{"teamwork"},
		VolunteersNeeded: needed,
	})
	require.NoError(t, err)
	return event
}
