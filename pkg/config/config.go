// Package config provides startup settings and named profile storage
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appName = "termapp"
	// DefaultProfileFile is the storage file used when none is named
	DefaultProfileFile = "profiles.json"
	storageVersion     = "1.0"
)

// ConfigManager interface defines the contract for profile operations
type ConfigManager interface {
	SaveProfile(name string, settings Settings) error
	LoadProfile(name string) (Settings, error)
	ListProfiles() ([]ProfileInfo, error)
	DeleteProfile(name string) error
	GetDefaultSettings() Settings
	ProfileExists(name string) bool
}

// ProfileInfo contains a saved profile and its metadata
type ProfileInfo struct {
	Name        string    `json:"name" yaml:"name"`
	Settings    Settings  `json:"settings" yaml:"settings"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	LastUsedAt  time.Time `json:"last_used_at" yaml:"last_used_at"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
}

// Validate checks if the profile info is valid
func (p ProfileInfo) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if err := p.Settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if p.CreatedAt.IsZero() {
		return fmt.Errorf("created_at timestamp cannot be zero")
	}
	return nil
}

// ProfileStorage is the on-disk layout of the profile file
type ProfileStorage struct {
	Profiles map[string]ProfileInfo `json:"profiles" yaml:"profiles"`
	Version  string                 `json:"version" yaml:"version"`
}

func emptyStorage() ProfileStorage {
	return ProfileStorage{
		Profiles: make(map[string]ProfileInfo),
		Version:  storageVersion,
	}
}

// FileConfigManager implements ConfigManager using one storage file. The
// file is YAML when its name ends in .yaml or .yml and JSON otherwise.
type FileConfigManager struct {
	configDir   string
	profileFile string
	now         func() time.Time
}

// NewFileConfigManager creates a manager storing profiles.json in configDir.
// An empty configDir means GetConfigDir.
func NewFileConfigManager(configDir string) *FileConfigManager {
	return NewFileConfigManagerWithFile(configDir, DefaultProfileFile)
}

// NewFileConfigManagerWithFile creates a manager storing profiles in the
// named file inside configDir
func NewFileConfigManagerWithFile(configDir, profileFile string) *FileConfigManager {
	if configDir == "" {
		if dir, err := GetConfigDir(); err == nil {
			configDir = dir
		}
	}
	if profileFile == "" {
		profileFile = DefaultProfileFile
	}
	return &FileConfigManager{
		configDir:   configDir,
		profileFile: profileFile,
		now:         time.Now,
	}
}

// Initialize creates the configuration directory and an empty storage file
func (fcm *FileConfigManager) Initialize() error {
	if err := os.MkdirAll(fcm.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(fcm.GetProfilePath()); os.IsNotExist(err) {
		if err := fcm.saveStorage(emptyStorage()); err != nil {
			return fmt.Errorf("failed to initialize profile file: %w", err)
		}
	}
	return nil
}

// SaveProfile stores settings under name, keeping the creation time and
// description of an existing profile
func (fcm *FileConfigManager) SaveProfile(name string, settings Settings) error {
	if name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := fcm.Initialize(); err != nil {
		return err
	}

	storage, err := fcm.loadStorage()
	if err != nil {
		return fmt.Errorf("failed to load existing profiles: %w", err)
	}

	now := fcm.now()
	info := ProfileInfo{
		Name:       name,
		Settings:   settings,
		CreatedAt:  now,
		LastUsedAt: now,
	}
	if existing, ok := storage.Profiles[name]; ok {
		info.CreatedAt = existing.CreatedAt
		info.Description = existing.Description
	}
	storage.Profiles[name] = info

	if err := fcm.saveStorage(storage); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// LoadProfile returns the settings saved under name and marks it used
func (fcm *FileConfigManager) LoadProfile(name string) (Settings, error) {
	if name == "" {
		return Settings{}, fmt.Errorf("profile name cannot be empty")
	}

	storage, err := fcm.loadStorage()
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load profiles: %w", err)
	}

	info, ok := storage.Profiles[name]
	if !ok {
		return Settings{}, fmt.Errorf("profile '%s' not found", name)
	}

	info.LastUsedAt = fcm.now()
	storage.Profiles[name] = info
	// last-used time is informational
	_ = fcm.saveStorage(storage)

	return info.Settings, nil
}

// ListProfiles returns all saved profiles sorted by name
func (fcm *FileConfigManager) ListProfiles() ([]ProfileInfo, error) {
	storage, err := fcm.loadStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}

	profiles := make([]ProfileInfo, 0, len(storage.Profiles))
	for _, info := range storage.Profiles {
		profiles = append(profiles, info)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})
	return profiles, nil
}

// GetProfile returns a saved profile with its metadata
func (fcm *FileConfigManager) GetProfile(name string) (ProfileInfo, error) {
	storage, err := fcm.loadStorage()
	if err != nil {
		return ProfileInfo{}, fmt.Errorf("failed to load profiles: %w", err)
	}
	info, ok := storage.Profiles[name]
	if !ok {
		return ProfileInfo{}, fmt.Errorf("profile '%s' not found", name)
	}
	return info, nil
}

// DeleteProfile deletes a profile by name
func (fcm *FileConfigManager) DeleteProfile(name string) error {
	if name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}

	storage, err := fcm.loadStorage()
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}
	if _, ok := storage.Profiles[name]; !ok {
		return fmt.Errorf("profile '%s' not found", name)
	}

	delete(storage.Profiles, name)
	if err := fcm.saveStorage(storage); err != nil {
		return fmt.Errorf("failed to save profiles after deletion: %w", err)
	}
	return nil
}

// GetDefaultSettings returns the default settings
func (fcm *FileConfigManager) GetDefaultSettings() Settings {
	return DefaultSettings()
}

// ProfileExists checks if a profile with the given name exists
func (fcm *FileConfigManager) ProfileExists(name string) bool {
	if name == "" {
		return false
	}
	storage, err := fcm.loadStorage()
	if err != nil {
		return false
	}
	_, ok := storage.Profiles[name]
	return ok
}

// SetProfileDescription sets the description for a profile
func (fcm *FileConfigManager) SetProfileDescription(name, description string) error {
	storage, err := fcm.loadStorage()
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}

	info, ok := storage.Profiles[name]
	if !ok {
		return fmt.Errorf("profile '%s' not found", name)
	}
	info.Description = description
	storage.Profiles[name] = info

	if err := fcm.saveStorage(storage); err != nil {
		return fmt.Errorf("failed to save profile description: %w", err)
	}
	return nil
}

// GetProfilePath returns the full path to the profile file
func (fcm *FileConfigManager) GetProfilePath() string {
	return filepath.Join(fcm.configDir, fcm.profileFile)
}

func (fcm *FileConfigManager) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(fcm.profileFile))
	return ext == ".yaml" || ext == ".yml"
}

func (fcm *FileConfigManager) loadStorage() (ProfileStorage, error) {
	data, err := os.ReadFile(fcm.GetProfilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return emptyStorage(), nil
		}
		return ProfileStorage{}, fmt.Errorf("failed to read profile file: %w", err)
	}

	var storage ProfileStorage
	if fcm.isYAML() {
		err = yaml.Unmarshal(data, &storage)
	} else {
		err = json.Unmarshal(data, &storage)
	}
	if err != nil {
		return ProfileStorage{}, fmt.Errorf("failed to parse profile file: %w", err)
	}

	if storage.Profiles == nil {
		storage.Profiles = make(map[string]ProfileInfo)
	}
	return storage, nil
}

// saveStorage writes a temporary file and renames it over the profile file
func (fcm *FileConfigManager) saveStorage(storage ProfileStorage) error {
	var data []byte
	var err error
	if fcm.isYAML() {
		data, err = yaml.Marshal(storage)
	} else {
		data, err = json.MarshalIndent(storage, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal profile data: %w", err)
	}

	path := fcm.GetProfilePath()
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary profile file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temporary profile file: %w", err)
	}
	return nil
}

// GetConfigDir returns the OS-appropriate configuration directory:
// $XDG_CONFIG_HOME/termapp or ~/.config/termapp, and %LOCALAPPDATA%\termapp
// on Windows
func GetConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, appName), nil
		}
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
		}
		return filepath.Join(userProfile, "AppData", "Local", appName), nil

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil

	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil
	}
}
