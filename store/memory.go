package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-volunteer/models"
)

// In-memory store implementations. They back the service unit tests and keep
// the same observable semantics as the mongo stores: sentinel errors, unique
// keys, copy-on-read.

// MemoryUserStore implements UserStore in memory.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (s *MemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) ByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryUserStore) ByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) ByVerificationToken(_ context.Context, token string, now time.Time) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		return nil, ErrNotFound
	}
	for _, u := range s.users {
		if u.VerificationToken == token && u.VerificationTokenExpire.After(now) {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// MemoryVolunteerStore implements VolunteerStore in memory.
type MemoryVolunteerStore struct {
	mu         sync.Mutex
	volunteers map[primitive.ObjectID]models.Volunteer
}

func NewMemoryVolunteerStore() *MemoryVolunteerStore {
	return &MemoryVolunteerStore{volunteers: make(map[primitive.ObjectID]models.Volunteer)}
}

func (s *MemoryVolunteerStore) Create(_ context.Context, volunteer *models.Volunteer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.volunteers {
		if v.User == volunteer.User {
			return ErrDuplicate
		}
	}
	if volunteer.ID.IsZero() {
		volunteer.ID = primitive.NewObjectID()
	}
	s.volunteers[volunteer.ID] = copyVolunteer(*volunteer)
	return nil
}

func (s *MemoryVolunteerStore) ByID(_ context.Context, id primitive.ObjectID) (*models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	volunteer, ok := s.volunteers[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyVolunteer(volunteer)
	return &out, nil
}

func (s *MemoryVolunteerStore) ByUser(_ context.Context, userID primitive.ObjectID) (*models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.volunteers {
		if v.User == userID {
			out := copyVolunteer(v)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryVolunteerStore) List(_ context.Context) ([]models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Volunteer{}
	for _, v := range s.volunteers {
		out = append(out, copyVolunteer(v))
	}
	return out, nil
}

func (s *MemoryVolunteerStore) AddRegisteredEvent(_ context.Context, userID primitive.ObjectID, entry models.RegisteredEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, v := range s.volunteers {
		if v.User == userID {
			v.RegisteredEvents = append(append([]models.RegisteredEvent{}, v.RegisteredEvents...), entry)
			s.volunteers[id] = v
			return nil
		}
	}
	return ErrNotFound
}

// MemoryOrganizationStore implements OrganizationStore in memory.
type MemoryOrganizationStore struct {
	mu            sync.Mutex
	organizations map[primitive.ObjectID]models.Organization
}

func NewMemoryOrganizationStore() *MemoryOrganizationStore {
	return &MemoryOrganizationStore{organizations: make(map[primitive.ObjectID]models.Organization)}
}

func (s *MemoryOrganizationStore) Create(_ context.Context, organization *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.organizations {
		if o.User == organization.User || o.OrganizationName == organization.OrganizationName {
			return ErrDuplicate
		}
	}
	if organization.ID.IsZero() {
		organization.ID = primitive.NewObjectID()
	}
	s.organizations[organization.ID] = copyOrganization(*organization)
	return nil
}

func (s *MemoryOrganizationStore) ByID(_ context.Context, id primitive.ObjectID) (*models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	organization, ok := s.organizations[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyOrganization(organization)
	return &out, nil
}

func (s *MemoryOrganizationStore) ByUser(_ context.Context, userID primitive.ObjectID) (*models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.organizations {
		if o.User == userID {
			out := copyOrganization(o)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryOrganizationStore) List(_ context.Context) ([]models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Organization{}
	for _, o := range s.organizations {
		out = append(out, copyOrganization(o))
	}
	return out, nil
}

func (s *MemoryOrganizationStore) AddEvent(_ context.Context, userID, eventID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, o := range s.organizations {
		if o.User == userID {
			o.Events = append(append([]primitive.ObjectID{}, o.Events...), eventID)
			s.organizations[id] = o
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryOrganizationStore) RemoveEvent(_ context.Context, userID, eventID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, o := range s.organizations {
		if o.User == userID {
			events := []primitive.ObjectID{}
			for _, e := range o.Events {
				if e != eventID {
					events = append(events, e)
				}
			}
			o.Events = events
			s.organizations[id] = o
			return nil
		}
	}
	return ErrNotFound
}

// MemoryEventStore implements EventStore in memory.
type MemoryEventStore struct {
	mu     sync.Mutex
	events map[primitive.ObjectID]models.Event
}

func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{events: make(map[primitive.ObjectID]models.Event)}
}

func (s *MemoryEventStore) Create(_ context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	s.events[event.ID] = copyEvent(*event)
	return nil
}

func (s *MemoryEventStore) ByID(_ context.Context, id primitive.ObjectID) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyEvent(event)
	return &out, nil
}

func (s *MemoryEventStore) Update(_ context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[event.ID]; !ok {
		return ErrNotFound
	}
	s.events[event.ID] = copyEvent(*event)
	return nil
}

func (s *MemoryEventStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *MemoryEventStore) List(_ context.Context, q EventQuery) ([]models.Event, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := int64(len(s.events))

	matched := []models.Event{}
	for _, e := range s.events {
		if matchesEvent(&e, q.Filter) {
			matched = append(matched, copyEvent(e))
		}
	}
	sortEvents(matched, q.Sort)

	start := (q.Page - 1) * q.Limit
	if start >= len(matched) {
		return []models.Event{}, total, nil
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *MemoryEventStore) ByOrganization(_ context.Context, orgUserID primitive.ObjectID) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Event{}
	for _, e := range s.events {
		if e.Organization == orgUserID {
			out = append(out, copyEvent(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func matchesEvent(e *models.Event, filter map[string]Cond) bool {
	for field, cond := range filter {
		value, ok := eventField(e, field)
		if !ok {
			return false
		}
		for op, want := range cond {
			if !matchOp(value, op, want) {
				return false
			}
		}
	}
	return true
}

func eventField(e *models.Event, field string) (interface{}, bool) {
	switch field {
	case "category":
		return e.Category, true
	case "status":
		return e.Status, true
	case "location":
		return e.Location, true
	case "title":
		return e.Title, true
	case "date":
		return e.Date, true
	case "created_at":
		return e.CreatedAt, true
	case "volunteers_needed":
		return e.VolunteersNeeded, true
	}
	return nil, false
}

func matchOp(value interface{}, op string, want interface{}) bool {
	switch v := value.(type) {
	case string:
		switch op {
		case "eq":
			return v == want
		case "in":
			options, ok := want.([]string)
			if !ok {
				return false
			}
			for _, o := range options {
				if o == v {
					return true
				}
			}
			return false
		}
	case int:
		w, ok := want.(int)
		if !ok {
			return false
		}
		switch op {
		case "eq":
			return v == w
		case "gt":
			return v > w
		case "gte":
			return v >= w
		case "lt":
			return v < w
		case "lte":
			return v <= w
		}
	case time.Time:
		w, ok := want.(time.Time)
		if !ok {
			return false
		}
		switch op {
		case "eq":
			return v.Equal(w)
		case "gt":
			return v.After(w)
		case "gte":
			return !v.Before(w)
		case "lt":
			return v.Before(w)
		case "lte":
			return !v.After(w)
		}
	}
	return false
}

func sortEvents(events []models.Event, keys []SortKey) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(events, func(i, j int) bool {
		for _, key := range keys {
			a, _ := eventField(&events[i], key.Field)
			b, _ := eventField(&events[j], key.Field)
			c := compareValues(a, b)
			if c == 0 {
				continue
			}
			if key.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compareValues(a, b interface{}) int {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case int:
		bv, _ := b.(int)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case time.Time:
		bv, _ := b.(time.Time)
		switch {
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		}
	}
	return 0
}

func copyVolunteer(v models.Volunteer) models.Volunteer {
	v.Interests = append([]string{}, v.Interests...)
	v.Skills = append([]string{}, v.Skills...)
	v.RegisteredEvents = append([]models.RegisteredEvent{}, v.RegisteredEvents...)
	return v
}

func copyOrganization(o models.Organization) models.Organization {
	o.Events = append([]primitive.ObjectID{}, o.Events...)
	return o
}

func copyEvent(e models.Event) models.Event {
	e.SkillsRequired = append([]string{}, e.SkillsRequired...)
	registrations := make([]models.Registration, len(e.VolunteersRegistered))
	copy(registrations, e.VolunteersRegistered)
	for i := range registrations {
		registrations[i].Skills = append([]string{}, registrations[i].Skills...)
	}
	e.VolunteersRegistered = registrations
	return e
}
