package auth

import (
	"errors"
	"testing"
)

func TestLoginCurrentLogoutCycle(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	if _, err := Current(); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn before login, got %v", err)
	}

	if err := Login(Profile{Name: "  Ada Lovelace ", Email: " ada@example.com "}); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	p, err := Current()
	if err != nil {
		t.Fatalf("current failed after login: %v", err)
	}
	if p.Name != "Ada Lovelace" {
		t.Errorf("name=%q, want trimmed %q", p.Name, "Ada Lovelace")
	}
	if p.Email != "ada@example.com" {
		t.Errorf("email=%q, want trimmed %q", p.Email, "ada@example.com")
	}

	if err := Logout(); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := Current(); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn after logout, got %v", err)
	}
}

func TestLoginRequiresName(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	if err := Login(Profile{Name: "   "}); err == nil {
		t.Error("expected an error for a blank name")
	}
}

func TestLogoutWithoutProfile(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	if err := Logout(); err != nil {
		t.Errorf("logout without a profile must succeed, got %v", err)
	}
}
