package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"go-volunteer/services"
	"go-volunteer/utils"
)

// AuthController handles registration, verification and login requests.
type AuthController struct {
	auth         *services.AuthService
	verification *services.VerificationService
	logger       zerolog.Logger
}

func NewAuthController(auth *services.AuthService, verification *services.VerificationService, logger zerolog.Logger) *AuthController {
	return &AuthController{auth: auth, verification: verification, logger: logger}
}

// Register handles POST /api/auth/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := c.auth.Register(r.Context(), in)
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	utils.RespondData(w, http.StatusCreated, result)
}

// VerifyEmail handles GET /api/auth/verify-email/{token}.
func (c *AuthController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	user, err := c.verification.Redeem(r.Context(), token)
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"message": "Email verified successfully! You can now complete your profile.",
		"email":   user.Email,
	})
}

// ResendVerification handles POST /api/auth/resend-verification.
func (c *AuthController) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := c.verification.Resend(r.Context(), in.Email); err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"message": "Verification email resent successfully!",
	})
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := c.auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   result.Token,
		"role":    result.Role,
		"profile": result.Profile,
	})
}

// CompleteProfile handles POST /api/auth/complete-profile.
func (c *AuthController) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := callerID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	var in services.CompleteProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := c.auth.CompleteProfile(r.Context(), userID, in)
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"token":   result.Token,
		"role":    result.Role,
		"profile": result.Profile,
	})
}

// Me handles GET /api/auth/me.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, claims, ok := callerID(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	profile, err := c.auth.Me(r.Context(), userID, claims.Role)
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	utils.RespondData(w, http.StatusOK, profile)
}
