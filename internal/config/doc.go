// Package config stores named camera profiles in a YAML file.
//
// A profile holds what is needed to reach a camera (URL, username,
// request timeout) and the recording options sent with schedule writes.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/foscam/config.yaml or $HOME/.config/foscam/config.yaml
//   - macOS: $HOME/.config/foscam/config.yaml
//   - Windows: %LOCALAPPDATA%\foscam\config.yaml
//
// FOSCAM_CONFIG overrides the location.
//
// # Security
//
// Passwords are NEVER stored. Commands take them from a flag, the
// FOSCAM_PASSWORD environment variable or an interactive prompt.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = registry.SetProfile("porch", &config.Profile{URL: "http://192.168.0.100:88"})
//	...
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
package config
