package accounts

import (
	"errors"
	"fmt"
)

// User is the payload of GET /api/accounts/me/.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Credentials is the login form.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the sign-up form.
type Registration struct {
	Username             string `json:"username"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Tokens is the body of a successful login. The API also sets them as
// HttpOnly cookies, which is what later requests rely on.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// ErrFetchUser is returned by CurrentUser for any non-2xx status other than 401.
var ErrFetchUser = errors.New("failed to fetch user")

// APIError is a non-2xx answer from the accounts API. Message is the most
// specific human-readable text found in the body, or empty.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("accounts API returned %d", e.Status)
	}
	return fmt.Sprintf("accounts API returned %d: %s", e.Status, e.Message)
}
