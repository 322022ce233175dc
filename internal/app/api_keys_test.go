package app

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"busmap.org/internal/appconf"
)

func TestBlankKeyIsInvalid(t *testing.T) {
	app := &Application{
		Config: appconf.Config{
			ApiKeys: []string{"key"},
		},
	}
	assert.True(t, app.IsInvalidAPIKey(""))
}

func TestRequestHasInvalidAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		target  string
		invalid bool
	}{
		{name: "valid key", keys: []string{"test"}, target: "/api/groups?key=test", invalid: false},
		{name: "wrong key", keys: []string{"test"}, target: "/api/groups?key=nope", invalid: true},
		{name: "missing key", keys: []string{"test"}, target: "/api/groups", invalid: true},
		{name: "no keys configured", keys: nil, target: "/api/groups", invalid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &Application{Config: appconf.Config{ApiKeys: tt.keys}}
			r := httptest.NewRequest("GET", tt.target, nil)
			assert.Equal(t, tt.invalid, app.RequestHasInvalidAPIKey(r))
		})
	}
}
