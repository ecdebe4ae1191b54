package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Settings is what `enrichctl login` saves between runs
type Settings struct {
	APIURL string `json:"api_url,omitempty"`
	Token  string `json:"token,omitempty"`
}

const settingsFile = "config.json"

// SettingsPath returns the settings file path under home
func SettingsPath(home string) string {
	return filepath.Join(home, settingsFile)
}

// LoadSettings reads the settings file, returning empty settings if it
// does not exist
func LoadSettings(home string) (*Settings, error) {
	data, err := os.ReadFile(SettingsPath(home))
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	return &s, nil
}

// SaveSettings writes the settings file with owner-only permissions
func SaveSettings(home string, s *Settings) error {
	if s.Token == "" {
		return fmt.Errorf("token is required")
	}

	if err := os.MkdirAll(home, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(SettingsPath(home), data, 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
