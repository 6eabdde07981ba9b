package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "single field", body: `{"username": ["already taken"]}`, want: "already taken"},
		{name: "field order kept", body: `{"zeta": ["z1"], "alpha": ["a1", "a2"]}`, want: "z1 a1 a2"},
		{name: "detail string", body: `{"detail": "Invalid credentials"}`, want: "Invalid credentials"},
		{name: "non field errors", body: `{"non_field_errors": ["Passwords do not match."]}`, want: "Passwords do not match."},
		{name: "nested object", body: `{"profile": {"bio": ["too long"]}, "x": ["y"]}`, want: "too long y"},
		{name: "top level list", body: `["one", "two"]`, want: "one two"},
		{name: "blank messages skipped", body: `{"a": ["", "  ", "ok"]}`, want: "ok"},
		{name: "non strings ignored", body: `{"code": 400, "ok": false, "msg": ["m"]}`, want: "m"},
		{name: "empty object", body: `{}`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FlattenErrors([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlattenErrors_Invalid(t *testing.T) {
	for _, body := range []string{`not json`, `{"a": [`, `{"a": 1} trailing`} {
		_, err := FlattenErrors([]byte(body))
		assert.Error(t, err, body)
	}
}
