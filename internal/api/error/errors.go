// Package error encodes API error payloads.
package error

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/matt-dz/foodgram/internal/apperr"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Status  int       `json:"-"`
	Message string    `json:"message"`
	ErrorID string    `json:"error_id"`
}

func (e *Error) Error() string {
	return e.Message
}

// EncodeError writes the error payload with the status the code maps to.
func EncodeError(w http.ResponseWriter, code ErrorCode, message, requestID string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code.StatusCode())
	return json.NewEncoder(w).Encode(Error{
		Code:    code,
		Message: message,
		ErrorID: requestID,
	})
}

func EncodeInternalError(w http.ResponseWriter, requestID string) error {
	return EncodeError(w, InternalServerError, "internal server error", requestID)
}

// codeForNotFound maps a not-found entity name from the domain layer to
// its API error code.
func codeForNotFound(e *apperr.NotFoundError) ErrorCode {
	switch e.Entity {
	case "user":
		return UserNotFound
	case "recipe":
		return RecipeNotFound
	case "ingredient":
		return IngredientNotFound
	case "tag":
		return TagNotFound
	}
	return EntryNotFound
}

// EncodeDomainError translates the domain error taxonomy into an API error
// payload. It reports whether the error was recognized; unrecognized errors
// are left for the caller to handle as internal.
func EncodeDomainError(w http.ResponseWriter, err error, requestID string) bool {
	var nf *apperr.NotFoundError
	if errors.As(err, &nf) {
		_ = EncodeError(w, codeForNotFound(nf), nf.Error(), requestID)
		return true
	}

	var ae *apperr.AlreadyExistsError
	if errors.As(err, &ae) {
		_ = EncodeError(w, EntryConflict, ae.Error(), requestID)
		return true
	}

	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		_ = EncodeError(w, BadRequest, ve.Error(), requestID)
		return true
	}

	switch {
	case errors.Is(err, apperr.ErrSelfSubscription):
		_ = EncodeError(w, SelfSubscription, err.Error(), requestID)
		return true
	case errors.Is(err, apperr.ErrEmptyCart):
		_ = EncodeError(w, EmptyCart, err.Error(), requestID)
		return true
	}

	return false
}
