package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDirEnv overrides the application config directory when set.
const ConfigDirEnv = "FOCUSFORGE_CONFIG_DIR"

// Service defines OS-specific helpers needed by the application.
type Service interface {
	GetConfigDir() (string, error)
	EnableAutostart(appName, execPath string) error
	DisableAutostart(appName string) error
}

type platformService struct{}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{}
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

	return fallbackConfigDir(homeDir), nil
}

// AppConfigDir returns the directory holding appName's files, honouring
// FOCUSFORGE_CONFIG_DIR.
func AppConfigDir(service Service, appName string) (string, error) {
	if override := strings.TrimSpace(os.Getenv(ConfigDirEnv)); override != "" {
		return override, nil
	}
	configDir, err := service.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

// SetAutostart enables or disables launching the current executable at login.
func SetAutostart(service Service, appName string, enabled bool) error {
	if !enabled {
		return service.DisableAutostart(appName)
	}
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("enable autostart: resolve executable: %w", err)
	}
	return service.EnableAutostart(appName, execPath)
}

func slugName(appName string) string {
	name := strings.TrimSpace(appName)
	if name == "" {
		name = "focusforge"
	}
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "-")
}
