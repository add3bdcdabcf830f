package error

import "net/http"

type ErrorCode string

const (
	UnknownError        ErrorCode = "unknown_error"
	InternalServerError ErrorCode = "internal_server_error"
	BadRequest          ErrorCode = "bad_request"
	UnprocessibleEntity ErrorCode = "unprocessible_entity"
	InvalidCredentials  ErrorCode = "invalid_credentials"
	InvalidAccessToken  ErrorCode = "invalid_access_token"
	ExpiredAccessToken  ErrorCode = "expired_access_token"
	WeakPassword        ErrorCode = "weak_password"
	InvalidPassword     ErrorCode = "invalid_password"
	EmailConflict       ErrorCode = "email_conflict"
	UsernameConflict    ErrorCode = "username_conflict"
	UserNotFound        ErrorCode = "user_not_found"
	RecipeNotFound      ErrorCode = "recipe_not_found"
	RecipeNotOwned      ErrorCode = "recipe_not_owned"
	IngredientNotFound  ErrorCode = "ingredient_not_found"
	TagNotFound         ErrorCode = "tag_not_found"
	EntryNotFound       ErrorCode = "entry_not_found"
	EntryConflict       ErrorCode = "entry_conflict"
	SelfSubscription    ErrorCode = "self_subscription"
	EmptyCart           ErrorCode = "empty_cart"
)

var errorCodeToStatusCode = map[ErrorCode]int{
	UnknownError:        0, // No error code - unknown
	InternalServerError: http.StatusInternalServerError,
	BadRequest:          http.StatusBadRequest,
	UnprocessibleEntity: http.StatusUnprocessableEntity,
	InvalidCredentials:  http.StatusUnauthorized,
	InvalidAccessToken:  http.StatusUnauthorized,
	ExpiredAccessToken:  http.StatusUnauthorized,
	WeakPassword:        http.StatusUnprocessableEntity,
	InvalidPassword:     http.StatusUnprocessableEntity,
	EmailConflict:       http.StatusConflict,
	UsernameConflict:    http.StatusConflict,
	UserNotFound:        http.StatusNotFound,
	RecipeNotFound:      http.StatusNotFound,
	RecipeNotOwned:      http.StatusForbidden,
	IngredientNotFound:  http.StatusNotFound,
	TagNotFound:         http.StatusNotFound,
	EntryNotFound:       http.StatusNotFound,
	EntryConflict:       http.StatusConflict,
	SelfSubscription:    http.StatusBadRequest,
	EmptyCart:           http.StatusBadRequest,
}

func (ec ErrorCode) StatusCode() int {
	return errorCodeToStatusCode[ec]
}

func (ec ErrorCode) String() string {
	return string(ec)
}
