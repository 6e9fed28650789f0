package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/muurk/foscam/internal/camera"
)

// Registry is the whole configuration file: named camera profiles and
// application preferences.
type Registry struct {
	Version     int                 `yaml:"version" json:"version"`
	Default     string              `yaml:"default,omitempty" json:"default,omitempty"` // Profile used when none is named
	Profiles    map[string]*Profile `yaml:"profiles,omitempty" json:"profiles,omitempty"`
	Preferences *Preferences        `yaml:"preferences,omitempty" json:"preferences,omitempty"`
}

// Profile describes how to reach one camera.
// Passwords are never stored; see the package documentation.
type Profile struct {
	URL      string                `yaml:"url" json:"url"`                                // e.g. http://192.168.0.100:88
	Username string                `yaml:"username,omitempty" json:"username,omitempty"`   // Defaults to the preference
	Timeout  time.Duration         `yaml:"timeout,omitempty" json:"timeout,omitempty"`     // Per-request timeout
	Record   *camera.RecordOptions `yaml:"record,omitempty" json:"record,omitempty"`       // Sent with schedule writes
	IRMode   *camera.IRMode        `yaml:"ir_mode,omitempty" json:"ir_mode,omitempty"`     // Restored by 'ir off'
	LastUsed time.Time             `yaml:"last_used,omitempty" json:"last_used,omitempty"`
}

// Preferences are application-wide settings.
type Preferences struct {
	DefaultUsername string        `yaml:"default_username" json:"default_username"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout"`
	VerifyWrites    bool          `yaml:"verify_writes" json:"verify_writes"` // Read schedules back after writing
}

func defaultPreferences() *Preferences {
	return &Preferences{
		DefaultUsername: "admin",
		Timeout:         10 * time.Second,
		VerifyWrites:    true,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Profiles:    make(map[string]*Profile),
		Preferences: defaultPreferences(),
	}
}

// GetProfile returns the named profile, or nil.
func (r *Registry) GetProfile(name string) *Profile {
	return r.Profiles[name]
}

// SetProfile validates p and stores it under name. The first profile
// saved becomes the default.
func (r *Registry) SetProfile(name string, p *Profile) error {
	if err := ValidateProfileName(name); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if r.Profiles == nil {
		r.Profiles = make(map[string]*Profile)
	}
	r.Profiles[name] = p
	if r.Default == "" {
		r.Default = name
	}
	return nil
}

// RemoveProfile deletes a profile and reports whether it existed. Removing
// the default clears it.
func (r *Registry) RemoveProfile(name string) bool {
	if _, ok := r.Profiles[name]; !ok {
		return false
	}
	delete(r.Profiles, name)
	if r.Default == name {
		r.Default = ""
	}
	return true
}

// ProfileNames returns the profile names, sorted.
func (r *Registry) ProfileNames() []string {
	names := make([]string, 0, len(r.Profiles))
	for name := range r.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the named profile, or the default when name is empty.
func (r *Registry) Resolve(name string) (string, *Profile, error) {
	if name == "" {
		name = r.Default
	}
	if name == "" {
		return "", nil, fmt.Errorf("no profile named and no default profile set")
	}
	p := r.Profiles[name]
	if p == nil {
		return "", nil, fmt.Errorf("profile %q not found", name)
	}
	return name, p, nil
}

// MarkUsed records that a profile was just used.
func (r *Registry) MarkUsed(name string) {
	if p := r.Profiles[name]; p != nil {
		p.LastUsed = time.Now()
	}
}

// EffectiveUsername returns the profile's username, falling back to the
// preference and then to "admin".
func (r *Registry) EffectiveUsername(p *Profile) string {
	if p != nil && p.Username != "" {
		return p.Username
	}
	if r.Preferences != nil && r.Preferences.DefaultUsername != "" {
		return r.Preferences.DefaultUsername
	}
	return "admin"
}

// Validate checks that the profile has a usable camera URL.
func (p *Profile) Validate() error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}
	return ValidateCameraURL(p.URL)
}

// ValidateCameraURL accepts http or https URLs with a host and no path.
func ValidateCameraURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid camera URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("camera URL %q must start with http:// or https://", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("camera URL %q has no host", raw)
	}
	if strings.Trim(u.Path, "/") != "" {
		return fmt.Errorf("camera URL %q must not include a path", raw)
	}
	return nil
}

// ValidateProfileName accepts letters, digits, '-' and '_'.
func ValidateProfileName(name string) error {
	if name == "" {
		return fmt.Errorf("profile name is empty")
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("profile name %q may only contain letters, digits, '-' and '_'", name)
		}
	}
	return nil
}
