package main

import (
	"testing"

	"kmcpos/backend/internal/config"
)

func TestValidateSecurityConfig(t *testing.T) {
	strong := config.Config{
		AuthSecret: "0123456789abcdef0123456789abcdef",
		ManagerPIN: "739154",
	}
	if err := validateSecurityConfig(strong); err != nil {
		t.Fatalf("expected strong config to pass: %v", err)
	}

	cases := []struct {
		name   string
		secret string
		pin    string
	}{
		{"missing secret", "", "739154"},
		{"short secret", "too-short", "739154"},
		{"missing pin", "0123456789abcdef0123456789abcdef", ""},
		{"short pin", "0123456789abcdef0123456789abcdef", "12345"},
		{"common pin", "0123456789abcdef0123456789abcdef", "123456"},
		{"same-digit pin", "0123456789abcdef0123456789abcdef", "777777"},
		{"ascending pin", "0123456789abcdef0123456789abcdef", "234567"},
		{"descending pin", "0123456789abcdef0123456789abcdef", "876543"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Config{AuthSecret: tc.secret, ManagerPIN: tc.pin}
			if err := validateSecurityConfig(cfg); err == nil {
				t.Fatalf("expected rejection for %s", tc.name)
			}
		})
	}
}

func TestValidatePINStrengthAcceptsMixedDigits(t *testing.T) {
	for _, pin := range []string{"739154", "205871", "914062"} {
		if err := validatePINStrength(pin); err != nil {
			t.Fatalf("pin %s should be accepted: %v", pin, err)
		}
	}
}
