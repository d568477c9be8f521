package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Session is the client's persisted auth state: the bearer token and the
// public user projection returned by login. It is written by login, restored
// on startup and removed by logout; logout is purely client-side, the token
// itself stays valid until it expires.
type Session struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// UserProfile is the public-safe user projection.
type UserProfile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoadSession reads a saved session from path. A missing file returns
// (nil, nil): the user is simply not logged in.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	if s.Token == "" {
		return nil, nil
	}
	return &s, nil
}

// Save writes the session to path, creating parent directories as needed.
func (s *Session) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// ClearSession removes the saved session. A missing file is not an error.
func ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
