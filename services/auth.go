package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"go-volunteer/models"
	"go-volunteer/store"
	"go-volunteer/utils"
)

// AuthService handles registration, login, and profile completion.
type AuthService struct {
	users         store.UserStore
	volunteers    store.VolunteerStore
	organizations store.OrganizationStore
	verification  *VerificationService
	logger        zerolog.Logger
	now           func() time.Time
}

func NewAuthService(
	users store.UserStore,
	volunteers store.VolunteerStore,
	organizations store.OrganizationStore,
	verification *VerificationService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:         users,
		volunteers:    volunteers,
		organizations: organizations,
		verification:  verification,
		logger:        logger,
		now:           time.Now,
	}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

type RegisterResult struct {
	Email   string `json:"email"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

// Register creates an unverified user and delivers a verification token.
// Signup is all-or-nothing: if delivery fails the just-created user is
// deleted and the email address stays free for another attempt.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	switch {
	case in.Email == "":
		return nil, NewValidationError("Please provide an email")
	case in.Password == "":
		return nil, NewValidationError("Please provide a password")
	case !models.ValidSignupRole(in.Role):
		return nil, NewValidationError("Role must be volunteer or organization")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	token, expiry, err := s.verification.NewToken()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:                   in.Email,
		Password:                string(hash),
		Role:                    in.Role,
		IsVerified:              false,
		VerificationToken:       token,
		VerificationTokenExpire: expiry,
		CreatedAt:               s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	if err := s.verification.Deliver(user.Email, token, in.Name); err != nil {
		if derr := s.users.Delete(ctx, user.ID); derr != nil {
			s.logger.Error().Err(derr).Str("email", user.Email).Msg("failed to roll back user after delivery failure")
		}
		return nil, err
	}

	return &RegisterResult{
		Email:   user.Email,
		Role:    user.Role,
		Message: "Verification email sent. Please check your inbox.",
	}, nil
}

type LoginResult struct {
	Token   string
	Role    string
	Profile interface{}
}

// Login authenticates by email and password. An unknown email and a wrong
// password fail identically so the response does not reveal which emails are
// registered. The stored role decides which profile comes back; no
// caller-supplied role is consulted.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, NewValidationError("Please provide an email and password")
	}

	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, ErrNotVerified
	}

	profile, err := s.profileByRole(ctx, user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Role: user.Role, Profile: profile}, nil
}

type CompleteProfileInput struct {
	// Volunteer fields
	Name               string   `json:"name"`
	Interests          []string `json:"interests"`
	Skills             []string `json:"skills"`
	PreviousExperience string   `json:"previousExperience"`
	ProfileImage       string   `json:"profileImage"`

	// Organization fields
	OrganizationName string `json:"organizationName"`
	Address          string `json:"address"`
	Website          string `json:"website"`
	Description      string `json:"description"`
	Logo             string `json:"logo"`

	// Shared
	Phone string `json:"phone"`
}

type CompleteProfileResult struct {
	Token   string
	Role    string
	Profile interface{}
}

// CompleteProfile attaches the role-specific profile to a verified user. The
// profile shape is chosen by the stored role, never by the request. A second
// call for the same user fails; the profile is 1:1 with the account.
func (s *AuthService) CompleteProfile(ctx context.Context, userID primitive.ObjectID, in CompleteProfileInput) (*CompleteProfileResult, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsVerified {
		return nil, ErrNotVerified
	}

	var profile interface{}
	switch user.Role {
	case models.RoleVolunteer:
		profile, err = s.createVolunteerProfile(ctx, user, in)
	case models.RoleOrganization:
		profile, err = s.createOrganizationProfile(ctx, user, in)
	default:
		return nil, NewValidationError("Profile completion is not available for this role")
	}
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, err
	}
	return &CompleteProfileResult{Token: token, Role: user.Role, Profile: profile}, nil
}

func (s *AuthService) createVolunteerProfile(ctx context.Context, user *models.User, in CompleteProfileInput) (*models.Volunteer, error) {
	if _, err := s.volunteers.ByUser(ctx, user.ID); err == nil {
		return nil, ErrProfileAlreadyExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if in.Name == "" {
		return nil, NewValidationError("Please add a name")
	}
	if in.Phone == "" {
		return nil, NewValidationError("Please add a phone number")
	}

	volunteer := &models.Volunteer{
		User:               user.ID,
		Name:               in.Name,
		Phone:              in.Phone,
		Interests:          in.Interests,
		Skills:             in.Skills,
		PreviousExperience: in.PreviousExperience,
		RegisteredEvents:   []models.RegisteredEvent{},
		CreatedAt:          s.now(),
	}
	if err := s.volunteers.Create(ctx, volunteer); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrProfileAlreadyExists
		}
		return nil, err
	}

	if in.ProfileImage != "" {
		if err := s.setProfileImage(ctx, user, in.ProfileImage); err != nil {
			return nil, err
		}
	}
	return volunteer, nil
}

func (s *AuthService) createOrganizationProfile(ctx context.Context, user *models.User, in CompleteProfileInput) (*models.Organization, error) {
	if _, err := s.organizations.ByUser(ctx, user.ID); err == nil {
		return nil, ErrProfileAlreadyExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	switch {
	case in.OrganizationName == "":
		return nil, NewValidationError("Please add an organization name")
	case in.Phone == "":
		return nil, NewValidationError("Please add a phone number")
	case in.Address == "":
		return nil, NewValidationError("Please add an address")
	case in.Description == "":
		return nil, NewValidationError("Please add a description")
	}

	organization := &models.Organization{
		User:             user.ID,
		OrganizationName: in.OrganizationName,
		Phone:            in.Phone,
		Address:          in.Address,
		Website:          in.Website,
		Description:      in.Description,
		Logo:             in.Logo,
		Events:           []primitive.ObjectID{},
		CreatedAt:        s.now(),
	}
	if err := s.organizations.Create(ctx, organization); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrOrganizationNameTaken
		}
		return nil, err
	}

	if in.Logo != "" {
		if err := s.setProfileImage(ctx, user, in.Logo); err != nil {
			return nil, err
		}
	}
	return organization, nil
}

func (s *AuthService) setProfileImage(ctx context.Context, user *models.User, image string) error {
	user.ProfileImage = image
	return s.users.Update(ctx, user)
}

// Me returns the profile for the authenticated user's stored role.
func (s *AuthService) Me(ctx context.Context, userID primitive.ObjectID, role string) (interface{}, error) {
	profile, err := s.profileByRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// profileByRole looks up the role-matching profile. A missing profile is not
// an error here; login succeeds before the profile-completion step.
func (s *AuthService) profileByRole(ctx context.Context, userID primitive.ObjectID, role string) (interface{}, error) {
	switch role {
	case models.RoleVolunteer:
		volunteer, err := s.volunteers.ByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return volunteer, nil
	case models.RoleOrganization:
		organization, err := s.organizations.ByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return organization, nil
	}
	return nil, nil
}
