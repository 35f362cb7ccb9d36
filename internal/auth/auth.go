// Package auth stores the local user profile. There is no server-side
// identity; the profile simply gates the chat surface and labels exports.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/voyagerhq/voyager/internal/config"
)

// Profile identifies the local user.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ErrNotLoggedIn is returned by Current when no profile exists.
var ErrNotLoggedIn = errors.New("not logged in")

func profilePath() (string, error) {
	dir, err := config.GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profile.json"), nil
}

// Current returns the stored profile, or ErrNotLoggedIn.
func Current() (Profile, error) {
	path, err := profilePath()
	if err != nil {
		return Profile{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Profile{}, ErrNotLoggedIn
	}
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile: %w", err)
	}
	if strings.TrimSpace(p.Name) == "" {
		return Profile{}, ErrNotLoggedIn
	}
	return p, nil
}

// Login stores the profile, replacing any existing one.
func Login(p Profile) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	if p.Name == "" {
		return errors.New("name is required")
	}

	path, err := profilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// Logout removes the stored profile. Removing a missing profile is not an
// error.
func Logout() error {
	path, err := profilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove profile: %w", err)
	}
	return nil
}
