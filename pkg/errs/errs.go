package errs

import (
	"errors"
	"net/http"
)

var (
	ErrClient                  = errors.New("invalid request")
	ErrNotFound                = errors.New("record not found")
	ErrEmailAlreadyUsed        = errors.New("email is already used by another account")
	ErrInvalidCredentialsEmail = errors.New("invalid credentials")
	ErrConflict                = errors.New("record has been modified by another request")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("insufficient role")
	ErrConfig                  = errors.New("invalid service configuration")
	ErrInternalServer          = errors.New("internal server error")
)

func GetErrorStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrClient):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentialsEmail):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmailAlreadyUsed), errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
