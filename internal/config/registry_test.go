package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/muurk/foscam/internal/camera"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "foscam") {
		t.Errorf("GetConfigDir() = %v, should contain 'foscam'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "linux":
		if os.Getenv("XDG_CONFIG_HOME") == "" && !strings.Contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}

	t.Setenv(ConfigPathEnvVar, "/tmp/elsewhere.yaml")
	if got, _ := GetConfigPath(); got != "/tmp/elsewhere.yaml" {
		t.Errorf("GetConfigPath() = %v, want the %s override", got, ConfigPathEnvVar)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("Version = %v, want 1", reg.Version)
	}
	if reg.Profiles == nil {
		t.Error("Profiles should not be nil")
	}
	if reg.Preferences == nil || reg.Preferences.DefaultUsername != "admin" {
		t.Errorf("Preferences = %+v", reg.Preferences)
	}
	if !reg.Preferences.VerifyWrites {
		t.Error("VerifyWrites should default to true")
	}
}

func TestRegistrySetProfile(t *testing.T) {
	reg := NewRegistry()

	if err := reg.SetProfile("porch", &Profile{URL: "http://192.168.0.100:88"}); err != nil {
		t.Fatalf("SetProfile() error = %v", err)
	}
	if err := reg.SetProfile("garage", &Profile{URL: "https://garage.local"}); err != nil {
		t.Fatalf("SetProfile() error = %v", err)
	}

	if reg.Default != "porch" {
		t.Errorf("Default = %q, want the first profile", reg.Default)
	}
	if got := strings.Join(reg.ProfileNames(), ","); got != "garage,porch" {
		t.Errorf("ProfileNames() = %s", got)
	}
	if reg.GetProfile("porch").URL != "http://192.168.0.100:88" {
		t.Errorf("GetProfile(porch) = %+v", reg.GetProfile("porch"))
	}
}

func TestRegistrySetProfileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		profile string
		url     string
	}{
		{"no scheme", "cam", "192.168.0.100:88"},
		{"ftp", "cam", "ftp://192.168.0.100"},
		{"no host", "cam", "http://"},
		{"path", "cam", "http://cam.local/cgi-bin"},
		{"bad name", "my cam", "http://cam.local"},
		{"empty name", "", "http://cam.local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			if err := reg.SetProfile(tt.profile, &Profile{URL: tt.url}); err == nil {
				t.Errorf("SetProfile(%q, %q) should fail", tt.profile, tt.url)
			}
			if len(reg.Profiles) != 0 {
				t.Error("invalid profile was stored")
			}
		})
	}
}

func TestRegistryResolve(t *testing.T) {
	reg := NewRegistry()
	if _, _, err := reg.Resolve(""); err == nil {
		t.Error("Resolve(\"\") with no default should fail")
	}

	_ = reg.SetProfile("porch", &Profile{URL: "http://porch.local"})
	_ = reg.SetProfile("garage", &Profile{URL: "http://garage.local"})

	name, p, err := reg.Resolve("")
	if err != nil || name != "porch" || p.URL != "http://porch.local" {
		t.Errorf("Resolve(\"\") = %q, %+v, %v", name, p, err)
	}
	if name, _, _ := reg.Resolve("garage"); name != "garage" {
		t.Errorf("Resolve(garage) = %q", name)
	}
	if _, _, err := reg.Resolve("attic"); err == nil {
		t.Error("Resolve(attic) should fail")
	}
}

func TestRegistryRemoveProfile(t *testing.T) {
	reg := NewRegistry()
	_ = reg.SetProfile("porch", &Profile{URL: "http://porch.local"})

	if !reg.RemoveProfile("porch") {
		t.Error("RemoveProfile(porch) = false")
	}
	if reg.RemoveProfile("porch") {
		t.Error("second RemoveProfile(porch) = true")
	}
	if reg.Default != "" {
		t.Errorf("Default = %q after removing it", reg.Default)
	}
}

func TestRegistryEffectiveUsername(t *testing.T) {
	reg := NewRegistry()
	reg.Preferences.DefaultUsername = "operator"

	if got := reg.EffectiveUsername(&Profile{Username: "viewer"}); got != "viewer" {
		t.Errorf("profile username: got %q", got)
	}
	if got := reg.EffectiveUsername(&Profile{}); got != "operator" {
		t.Errorf("preference username: got %q", got)
	}
	reg.Preferences = nil
	if got := reg.EffectiveUsername(nil); got != "admin" {
		t.Errorf("fallback username: got %q", got)
	}
}

func TestRegistryMarkUsed(t *testing.T) {
	reg := NewRegistry()
	_ = reg.SetProfile("porch", &Profile{URL: "http://porch.local"})

	before := time.Now()
	reg.MarkUsed("porch")
	reg.MarkUsed("missing")

	if reg.GetProfile("porch").LastUsed.Before(before) {
		t.Error("LastUsed was not updated")
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg := NewRegistry()
	schedMode := camera.IRSchedule
	err := reg.SetProfile("porch", &Profile{
		URL:      "http://192.168.0.100:88",
		Username: "viewer",
		Timeout:  3 * time.Second,
		Record:   &camera.RecordOptions{ScheduleEnabled: true, RecordLevel: 2, EnableAudio: false},
		IRMode:   &schedMode,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := reg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}

	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "# Foscam camera profiles") {
		t.Errorf("config file lacks header:\n%s", data)
	}
	if strings.Contains(strings.ToLower(string(data)), "password:") {
		t.Errorf("config file mentions a password field:\n%s", data)
	}

	loaded, err := LoadRegistryFrom(path)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	p := loaded.GetProfile("porch")
	if p == nil {
		t.Fatal("profile missing after reload")
	}
	if p.Username != "viewer" || p.Timeout != 3*time.Second {
		t.Errorf("loaded profile = %+v", p)
	}
	if p.Record == nil || p.Record.RecordLevel != 2 || p.Record.EnableAudio {
		t.Errorf("loaded record options = %+v", p.Record)
	}
	if p.IRMode == nil || *p.IRMode != camera.IRSchedule {
		t.Errorf("loaded IR mode = %v", p.IRMode)
	}
	if !strings.Contains(string(data), "ir_mode: schedule") {
		t.Errorf("IR mode not stored by name:\n%s", data)
	}
	if loaded.Default != "porch" {
		t.Errorf("loaded default = %q", loaded.Default)
	}
}

func TestLoadRegistryFrom(t *testing.T) {
	dir := t.TempDir()

	reg, err := LoadRegistryFrom(filepath.Join(dir, "missing.yaml"))
	if err != nil || reg == nil || reg.Version != 1 {
		t.Errorf("missing file: %+v, %v", reg, err)
	}

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"minimal", "version: 1\n", false},
		{"with profile", "version: 1\nprofiles:\n  porch:\n    url: http://porch.local\n    timeout: 5s\n", false},
		{"wrong version", "version: 2\n", true},
		{"bad yaml", "version: [\n", true},
		{"bad profile url", "version: 1\nprofiles:\n  porch:\n    url: porch.local\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			reg, err := LoadRegistryFrom(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadRegistryFrom() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && (reg.Profiles == nil || reg.Preferences == nil) {
				t.Error("loaded registry has nil maps")
			}
		})
	}
}

func BenchmarkGetConfigDir(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = GetConfigDir()
	}
}
