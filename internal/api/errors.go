package api

import (
	"errors"
	"net/http"

	"github.com/langtools/langtools-api/internal/api/shared"
	"github.com/langtools/langtools-api/internal/domain"
	"github.com/langtools/langtools-api/internal/generation"
	"github.com/langtools/langtools-api/internal/service"
	"github.com/langtools/langtools-api/internal/service/auth"
	"github.com/langtools/langtools-api/internal/service/review"
	"github.com/langtools/langtools-api/internal/store"
)

// MapErrorToStatusCode maps service and store errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, review.ErrTrainingNotOwned):
		return http.StatusForbidden

	case store.IsNotFoundError(err):
		return http.StatusNotFound

	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, review.ErrReviewConflict),
		errors.Is(err, store.ErrVersionConflict):
		return http.StatusConflict

	case errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	case errors.Is(err, generation.ErrTransientFailure):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this entry"
	case errors.Is(err, review.ErrTrainingNotOwned):
		return "You do not own this training record"

	case errors.Is(err, store.ErrEntryNotFound):
		return "Entry not found"
	case errors.Is(err, store.ErrTrainingNotFound):
		return "Training record not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case store.IsNotFoundError(err):
		return "Not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, review.ErrReviewConflict), errors.Is(err, store.ErrVersionConflict):
		return "Training record was modified concurrently, please retry"

	case errors.Is(err, domain.ErrInvalidRating):
		return "Invalid rating: must be 1 (again), 2 (hard), 3 (good) or 4 (easy)"
	case errors.Is(err, domain.ErrInvalidState):
		return "Training record is in an invalid state"
	case errors.Is(err, domain.ErrValidation):
		// Domain validation messages describe the input, never internals.
		return "Invalid input: " + unwrapValidation(err)
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, generation.ErrContentBlocked):
		return "The headword was rejected by the dictionary generator"
	case errors.Is(err, generation.ErrTransientFailure):
		return "Dictionary generation is temporarily unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// unwrapValidation returns the message of the specific domain error wrapped
// next to domain.ErrValidation.
func unwrapValidation(err error) string {
	for e := err; e != nil; {
		if multi, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range multi.Unwrap() {
				if !errors.Is(inner, domain.ErrValidation) {
					return inner.Error()
				}
			}
			break
		}
		e = errors.Unwrap(e)
	}
	return domain.ErrValidation.Error()
}

// HandleAPIError writes the response for err. Server errors are logged.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}
