package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/confirmation"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/reporter"
	"gopkg.in/yaml.v3"
)

const defaultProfileName = ".shiftctl.yaml"

// Profile is the on-disk CLI configuration.
type Profile struct {
	BaseURL        string `yaml:"base_url"`
	Token          string `yaml:"token"`
	Language       string `yaml:"language"`
	ReportInterval string `yaml:"report_interval"`
}

func defaultProfile() Profile {
	return Profile{
		BaseURL:        "http://localhost:8080",
		Language:       string(confirmation.LanguageEnglish),
		ReportInterval: reporter.DefaultInterval.String(),
	}
}

func defaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultProfileName
	}
	return filepath.Join(home, defaultProfileName)
}

// loadProfile reads path over the defaults. A missing file yields the defaults.
func loadProfile(path string) (Profile, error) {
	p := defaultProfile()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("failed to read profile: %w", err)
	}

	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return p, p.validate()
}

func saveProfile(path string, p Profile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

func (p Profile) validate() error {
	if p.BaseURL == "" {
		return errors.New("profile: base_url is required")
	}
	switch confirmation.Language(p.Language) {
	case confirmation.LanguageEnglish, confirmation.LanguageKorean:
	default:
		return fmt.Errorf("profile: language must be one of: en, ko")
	}
	if _, err := p.interval(); err != nil {
		return err
	}
	return nil
}

func (p Profile) interval() (time.Duration, error) {
	if p.ReportInterval == "" {
		return reporter.DefaultInterval, nil
	}
	d, err := time.ParseDuration(p.ReportInterval)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("profile: invalid report_interval %q", p.ReportInterval)
	}
	return d, nil
}
