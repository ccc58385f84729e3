// Package controllers holds the HTTP boundary: decode the request, read the
// authenticated claims, call a service, write the response envelope.
package controllers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-volunteer/middleware"
	"go-volunteer/services"
	"go-volunteer/utils"
)

// writeServiceError converts a service failure into the JSON envelope.
// Unknown errors become a 500 and are logged; nothing is silently swallowed.
func writeServiceError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		utils.RespondError(w, apiErr.StatusCode, apiErr.Message)
		return
	}
	logger.Error().Err(err).Msg("unhandled error")
	utils.RespondError(w, http.StatusInternalServerError, "Server error")
}

// callerID extracts the authenticated user id from the request context. A
// false return means the middleware did not run or the subject is malformed;
// the caller should have already responded 401 in that case.
func callerID(r *http.Request) (primitive.ObjectID, *utils.Claims, bool) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		return primitive.NilObjectID, nil, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, nil, false
	}
	return id, claims, true
}
