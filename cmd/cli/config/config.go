package config

import (
	"os"
	"path/filepath"
)

const (
	defaultAPIURL = "http://localhost:8080"
	tokenFileName = ".milstock_token"
)

// APIURL returns the base URL for the milstock API.
// It can be overridden with the MILSTOCK_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("MILSTOCK_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// ==========================
// Token Storage Helpers
// ==========================

// SaveToken writes the JWT token to the user's home directory.
func SaveToken(token string) error {
	return os.WriteFile(tokenPath(), []byte(token), 0600)
}

// ReadToken loads the stored JWT token, if any.
func ReadToken() (string, error) {
	data, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// RemoveToken deletes the stored token. Missing file is not an error.
func RemoveToken() error {
	err := os.Remove(tokenPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func tokenPath() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, tokenFileName)
}
