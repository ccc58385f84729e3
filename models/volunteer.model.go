package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RegisteredEvent is the volunteer-side mirror of a Registration held on an
// Event document. Status is written once at registration time; later status
// changes are only reflected on the event copy.
type RegisteredEvent struct {
	Event  primitive.ObjectID `bson:"event" json:"event"`
	Status string             `bson:"status" json:"status"`
}

// Volunteer is the role-specific profile attached to a verified user with the
// volunteer role. One per user.
type Volunteer struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	User               primitive.ObjectID `bson:"user" json:"user"`
	Name               string             `bson:"name" json:"name"`
	Phone              string             `bson:"phone" json:"phone"`
	Interests          []string           `bson:"interests" json:"interests"`
	Skills             []string           `bson:"skills" json:"skills"`
	PreviousExperience string             `bson:"previous_experience,omitempty" json:"previousExperience,omitempty"`
	RegisteredEvents   []RegisteredEvent  `bson:"registered_events" json:"registeredEvents"`
	CreatedAt          time.Time          `bson:"created_at" json:"createdAt"`
}
