// Package logging provides structured logging for the camera client and CLI.
//
// This package wraps a global zap logger with convenience functions. Logging
// is silent unless FOSCAM_LOG_LEVEL is set (or Initialize is called with an
// explicit level), so library users and CLI output are not polluted.
//
// # Log Levels
//
//   - Debug: every CGI request and response (passwords redacted), raw bodies
//   - Info: state changes such as IR mode updates
//   - Warn: recoverable problems, e.g. a deferred stop cancelled by shutdown
//   - Error: failures with no caller to report to, e.g. a deferred stop that failed
//
// # Redaction
//
// The pwd query parameter is always replaced before a URL reaches the log:
//
//	logging.LogCGIRequest("getInfraLedConfig", u)
//	// url=http://cam:88/cgi-bin/CGIProxy.fcgi?cmd=getInfraLedConfig&pwd=%2A%2A%2A&usr=admin
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
