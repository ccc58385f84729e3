package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization is the role-specific profile attached to a verified user with
// the organization role. One per user; organizationName is unique across the
// collection. Events holds the ids of events this organization owns.
type Organization struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	User             primitive.ObjectID   `bson:"user" json:"user"`
	OrganizationName string               `bson:"organization_name" json:"organizationName"`
	Phone            string               `bson:"phone" json:"phone"`
	Address          string               `bson:"address" json:"address"`
	Website          string               `bson:"website,omitempty" json:"website,omitempty"`
	Description      string               `bson:"description" json:"description"`
	Logo             string               `bson:"logo,omitempty" json:"logo,omitempty"`
	Events           []primitive.ObjectID `bson:"events" json:"events"`
	CreatedAt        time.Time            `bson:"created_at" json:"createdAt"`
}
