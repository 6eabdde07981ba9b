package authflow

import (
	"regexp"
	"unicode/utf8"

	"github.com/joestump/experiment40/internal/accounts"
)

// Form field names, as used in the HTML forms and FieldErrors.
const (
	FieldUsername             = "username"
	FieldEmail                = "email"
	FieldPassword             = "password"
	FieldPasswordConfirmation = "password_confirmation"
)

// Validation message keys. They are catalog keys, translated at render time.
const (
	MsgUsernameRequired     = "validation.username.required"
	MsgUsernameMin          = "validation.username.min"
	MsgUsernameMax          = "validation.username.max"
	MsgUsernamePattern      = "validation.username.pattern"
	MsgPasswordRequired     = "validation.password.required"
	MsgPasswordMin          = "validation.password.min"
	MsgPasswordMax          = "validation.password.max"
	MsgPasswordPattern      = "validation.password.pattern"
	MsgEmailRequired        = "validation.email.required"
	MsgEmailMax             = "validation.email.max"
	MsgEmailPattern         = "validation.email.pattern"
	MsgConfirmationRequired = "validation.password_confirmation.required"
	MsgConfirmationMismatch = "validation.password_confirmation.mismatch"
)

var (
	noWhitespaceRe = regexp.MustCompile(`^\S+$`)
	letterRe       = regexp.MustCompile(`[A-Za-z]`)
	digitRe        = regexp.MustCompile(`[0-9]`)
	emailRe        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// FieldErrors maps a field name to the message key of its first failed rule.
type FieldErrors map[string]string

func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// ValidateCredentials checks the login form. Every field is checked.
func ValidateCredentials(c accounts.Credentials) FieldErrors {
	fe := FieldErrors{}
	fe.check(FieldUsername, validateUsername(c.Username))
	fe.check(FieldPassword, validatePassword(c.Password))
	return fe
}

// ValidateRegistration checks the sign-up form. Every field is checked; the
// confirmation is compared to the password as typed.
func ValidateRegistration(r accounts.Registration) FieldErrors {
	fe := FieldErrors{}
	fe.check(FieldUsername, validateUsername(r.Username))
	fe.check(FieldEmail, validateEmail(r.Email))
	fe.check(FieldPassword, validatePassword(r.Password))
	fe.check(FieldPasswordConfirmation, validateConfirmation(r.PasswordConfirmation, r.Password))
	return fe
}

func (fe FieldErrors) check(field, msg string) {
	if msg != "" {
		fe[field] = msg
	}
}

func validateUsername(s string) string {
	n := utf8.RuneCountInString(s)
	switch {
	case s == "":
		return MsgUsernameRequired
	case n < 3:
		return MsgUsernameMin
	case n > 255:
		return MsgUsernameMax
	case !noWhitespaceRe.MatchString(s):
		return MsgUsernamePattern
	}
	return ""
}

func validatePassword(s string) string {
	n := utf8.RuneCountInString(s)
	switch {
	case s == "":
		return MsgPasswordRequired
	case n < 8:
		return MsgPasswordMin
	case n > 128:
		return MsgPasswordMax
	case !letterRe.MatchString(s) || !digitRe.MatchString(s):
		return MsgPasswordPattern
	}
	return ""
}

func validateEmail(s string) string {
	switch {
	case s == "":
		return MsgEmailRequired
	case utf8.RuneCountInString(s) > 254:
		return MsgEmailMax
	case !emailRe.MatchString(s):
		return MsgEmailPattern
	}
	return ""
}

func validateConfirmation(confirmation, password string) string {
	switch {
	case confirmation == "":
		return MsgConfirmationRequired
	case confirmation != password:
		return MsgConfirmationMismatch
	}
	return ""
}
