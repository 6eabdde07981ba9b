package authflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joestump/experiment40/internal/accounts"
)

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name  string
		creds accounts.Credentials
		want  FieldErrors
	}{
		{"valid", accounts.Credentials{Username: "alice", Password: "secret123"}, FieldErrors{}},
		{"empty", accounts.Credentials{}, FieldErrors{
			FieldUsername: MsgUsernameRequired,
			FieldPassword: MsgPasswordRequired,
		}},
		{"short username", accounts.Credentials{Username: "al", Password: "secret123"}, FieldErrors{FieldUsername: MsgUsernameMin}},
		{"username with space", accounts.Credentials{Username: "al ice", Password: "secret123"}, FieldErrors{FieldUsername: MsgUsernamePattern}},
		{"whitespace only username", accounts.Credentials{Username: "   ", Password: "secret123"}, FieldErrors{FieldUsername: MsgUsernamePattern}},
		{"long username", accounts.Credentials{Username: strings.Repeat("a", 256), Password: "secret123"}, FieldErrors{FieldUsername: MsgUsernameMax}},
		{"max username", accounts.Credentials{Username: strings.Repeat("a", 255), Password: "secret123"}, FieldErrors{}},
		{"short password", accounts.Credentials{Username: "alice", Password: "abc1"}, FieldErrors{FieldPassword: MsgPasswordMin}},
		{"long password", accounts.Credentials{Username: "alice", Password: strings.Repeat("a1", 65)}, FieldErrors{FieldPassword: MsgPasswordMax}},
		{"password without digit", accounts.Credentials{Username: "alice", Password: "abcdefgh"}, FieldErrors{FieldPassword: MsgPasswordPattern}},
		{"password without letter", accounts.Credentials{Username: "alice", Password: "12345678"}, FieldErrors{FieldPassword: MsgPasswordPattern}},
		{"cyrillic username counts runes", accounts.Credentials{Username: "Оля", Password: "secret123"}, FieldErrors{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateCredentials(tt.creds))
		})
	}
}

func TestValidateRegistration(t *testing.T) {
	valid := accounts.Registration{
		Username:             "bob",
		Email:                "bob@example.com",
		Password:             "hunter22x",
		PasswordConfirmation: "hunter22x",
	}
	assert.Empty(t, ValidateRegistration(valid))

	mismatch := valid
	mismatch.PasswordConfirmation = "hunter22y"
	assert.Equal(t, FieldErrors{FieldPasswordConfirmation: MsgConfirmationMismatch}, ValidateRegistration(mismatch))

	noConfirm := valid
	noConfirm.PasswordConfirmation = ""
	assert.Equal(t, FieldErrors{FieldPasswordConfirmation: MsgConfirmationRequired}, ValidateRegistration(noConfirm))

	badEmail := valid
	for _, email := range []string{"bob", "bob@example", "bob @example.com", "@example.com"} {
		badEmail.Email = email
		assert.Equal(t, FieldErrors{FieldEmail: MsgEmailPattern}, ValidateRegistration(badEmail), email)
	}

	longEmail := valid
	longEmail.Email = strings.Repeat("a", 250) + "@b.io"
	assert.Equal(t, FieldErrors{FieldEmail: MsgEmailMax}, ValidateRegistration(longEmail))

	empty := ValidateRegistration(accounts.Registration{})
	assert.Equal(t, FieldErrors{
		FieldUsername:             MsgUsernameRequired,
		FieldEmail:                MsgEmailRequired,
		FieldPassword:             MsgPasswordRequired,
		FieldPasswordConfirmation: MsgConfirmationRequired,
	}, empty)
	assert.True(t, empty.Has(FieldEmail))
	assert.False(t, FieldErrors{}.Has(FieldEmail))
}
