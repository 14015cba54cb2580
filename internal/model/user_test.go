package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"", false},
		{"short", false},
		{"1234567", false},
		{"12345678", true},
		{"čćžšđčćž", true},
		{"a much longer passphrase", true},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err == nil) != tt.ok {
			t.Errorf("ValidatePassword(%q) = %v, want ok=%v", tt.password, err, tt.ok)
		}
	}
}

func TestUserJSONOmitsPasswordHash(t *testing.T) {
	u := User{ID: 1, Name: "Ana", Email: "ana@example.com", PasswordHash: "secret-hash"}

	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "secret-hash") {
		t.Errorf("password hash leaked into JSON: %s", data)
	}
}
