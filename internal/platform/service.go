// Package platform wraps the OS services the timer needs: where settings
// live, keeping a single running instance, and opening folders.
package platform

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Service defines OS-specific helpers needed by the application.
type Service interface {
	GetConfigDir() (string, error)
	AppConfigDir(appName string) (string, error)
}

type platformService struct {
	goos string
}

// NewService returns the implementation for the running OS.
func NewService() Service {
	return &platformService{goos: runtime.GOOS}
}

// GetConfigDir returns the OS-standard configuration directory.
func (service *platformService) GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(service.goos, homeDir), nil
}

// AppConfigDir returns the per-application directory inside the config dir.
func (service *platformService) AppConfigDir(appName string) (string, error) {
	if appName == "" {
		return "", fmt.Errorf("app config dir: app name is empty")
	}
	configDir, err := service.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

// FolderURL converts a directory path into the file URL handed to the OS
// file browser.
func FolderURL(path string) (*url.URL, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve folder path: %w", err)
	}
	slashed := filepath.ToSlash(absPath)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	return &url.URL{Scheme: "file", Path: slashed}, nil
}

func fallbackConfigDir(goos, homeDir string) string {
	switch goos {
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support")
	case "windows":
		return filepath.Join(homeDir, "AppData", "Roaming")
	default:
		return filepath.Join(homeDir, ".config")
	}
}
