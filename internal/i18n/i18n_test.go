package i18n

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"en", "en", true},
		{"en-GB", "en", true},
		{"uk", "uk", true},
		{"uk-UA", "uk", true},
		{"fr", "", false},
		{"", "", false},
		{"!!", "", false},
	}
	for _, tt := range tests {
		got, ok := Match(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range messages["en"] {
		_, ok := messages["uk"][key]
		assert.True(t, ok, "uk is missing %q", key)
	}
	for key := range messages["uk"] {
		_, ok := messages["en"][key]
		assert.True(t, ok, "en is missing %q", key)
	}
}

func TestPrinter(t *testing.T) {
	b, err := NewBundle("uk")
	require.NoError(t, err)

	en := b.Printer("en")
	assert.Equal(t, "en", en.Lang())
	assert.Equal(t, "Username is required.", en.T("validation.username.required"))
	assert.Equal(t, "Welcome, alice!", en.T("dashboard.welcome", "alice"))
	assert.Equal(t, "no.such.key", en.T("no.such.key"))

	uk := b.Printer("uk")
	assert.Equal(t, "Паролі не збігаються.", uk.T("validation.password_confirmation.mismatch"))

	def := b.Printer("de")
	assert.Equal(t, "uk", def.Lang(), "unsupported choice falls back to the default")
}

func TestNewBundle_RejectsUnsupportedDefault(t *testing.T) {
	_, err := NewBundle("fr")
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, Default, FromContext(context.Background()).Lang())

	b, err := NewBundle("uk")
	require.NoError(t, err)
	ctx := NewContext(context.Background(), b.Printer("en"))
	assert.Equal(t, "en", FromContext(ctx).Lang())
}

func TestLocales(t *testing.T) {
	ls := Locales()
	require.Len(t, ls, 2)
	assert.Equal(t, "English", ls[0].Name)
	assert.Equal(t, "Українська", ls[1].Name)
}
