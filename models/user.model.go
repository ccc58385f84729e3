package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleVolunteer    = "volunteer"
	RoleOrganization = "organization"
	RoleAdmin        = "admin"
)

// User represents an account identity. Role-specific data lives in the
// Volunteer and Organization profile documents, keyed by the user id.
type User struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email                   string             `bson:"email" json:"email"`
	Password                string             `bson:"password,omitempty" json:"-"`
	Role                    string             `bson:"role" json:"role"`
	IsVerified              bool               `bson:"is_verified" json:"isVerified"`
	VerificationToken       string             `bson:"verification_token,omitempty" json:"-"`
	VerificationTokenExpire time.Time          `bson:"verification_token_expire,omitempty" json:"-"`
	ProfileImage            string             `bson:"profile_image,omitempty" json:"profileImage,omitempty"`
	CreatedAt               time.Time          `bson:"created_at" json:"createdAt"`
}

// ValidSignupRole reports whether role is one a user may register with.
// Admin accounts are seeded, never self-registered.
func ValidSignupRole(role string) bool {
	return role == RoleVolunteer || role == RoleOrganization
}
