package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrTicketCodeExhausted = errors.New("no unused ticket code found")
	ErrRegistrationBusy    = errors.New("registration in progress for this identity")
)
