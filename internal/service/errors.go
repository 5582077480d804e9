package service

import (
	"errors"
	"fmt"
)

// Flow errors the handlers translate into French client messages.
var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountNotVerified  = errors.New("account email not verified")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrAccountLocked       = errors.New("account is locked")
	ErrInvalidOTP          = errors.New("invalid verification code")
	ErrExpiredOTP          = errors.New("verification code expired")
	ErrAlreadyVerified     = errors.New("account already verified")
	ErrEmailDelivery       = errors.New("could not send email")
	ErrGoogleTokenInvalid  = errors.New("google token invalid")
	ErrPasswordAlreadySet  = errors.New("password already set")
	ErrInsufficientStock   = errors.New("insufficient stock quantity")
	ErrInvalidStatusChange = errors.New("invalid invoice status change")
	ErrPlanLimitReached    = errors.New("plan limit reached")
)

// ResendCooldownError reports how long the caller must wait before a
// new code can be issued. WaitMinutes is the remaining cooldown rounded
// up, never below one.
type ResendCooldownError struct {
	WaitMinutes int
}

func (e *ResendCooldownError) Error() string {
	return fmt.Sprintf("resend cooldown active, wait %d minute(s)", e.WaitMinutes)
}
