package cgi

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (connection refused, timeout, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeAuth indicates the camera rejected the credentials
	ErrTypeAuth
	// ErrTypeHTTP indicates an HTTP-level error (non-200 status code)
	ErrTypeHTTP
	// ErrTypeParse indicates the response was not a usable CGI_Result document
	ErrTypeParse
	// ErrTypeDeviceRejected indicates a non-zero <result> code
	ErrTypeDeviceRejected
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the camera refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
)

// NetworkErrorSubtype provides more specific network error classification
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
)

// Sentinels matched by errors.Is against an *Error of the same category.
var (
	ErrNetwork        = errors.New("network error")
	ErrAuth           = errors.New("authentication failed")
	ErrHTTP           = errors.New("unexpected HTTP status")
	ErrParse          = errors.New("malformed response")
	ErrDeviceRejected = errors.New("command rejected by camera")
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeDeviceRejected:
		return "Device Rejected"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error represents a failed CGI command
type Error struct {
	Type           ErrorType           // Category of error
	Message        string              // Human-readable error message
	Command        string              // CGI command that failed
	StatusCode     int                 // HTTP status code (if applicable)
	ResultCode     ResultCode          // Device <result> code (if applicable)
	Err            error               // Underlying error (if any)
	NetworkSubtype NetworkErrorSubtype // More specific network error type
	Host           string              // Camera host (for hints)
}

// Error implements the error interface
func (e *Error) Error() string {
	prefix := e.Type.String()
	if e.Command != "" {
		prefix = fmt.Sprintf("%s [%s]", prefix, e.Command)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the package sentinels by category.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.isNetwork()
	case ErrAuth:
		return e.isAuth()
	case ErrHTTP:
		return e.Type == ErrTypeHTTP
	case ErrParse:
		return e.Type == ErrTypeParse
	case ErrDeviceRejected:
		return e.Type == ErrTypeDeviceRejected
	}
	return false
}

func (e *Error) isNetwork() bool {
	return e.Type == ErrTypeNetwork ||
		e.Type == ErrTypeTimeout ||
		e.Type == ErrTypeConnectionRefused ||
		e.Type == ErrTypeDNS
}

// A -2 result is the device's way of reporting bad credentials.
func (e *Error) isAuth() bool {
	return e.Type == ErrTypeAuth ||
		(e.Type == ErrTypeDeviceRejected && e.ResultCode == ResultBadCredentials)
}

// ClassifyNetworkError analyzes a transport error and returns a more specific error type
func ClassifyNetworkError(err error, host string) *Error {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &Error{
			Type:           ErrTypeTimeout,
			Message:        "Request timed out",
			Err:            err,
			NetworkSubtype: NetworkErrorTimeout,
			Host:           host,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{
			Type:           ErrTypeDNS,
			Message:        fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:            err,
			NetworkSubtype: NetworkErrorDNS,
			Host:           host,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return &Error{
				Type:           ErrTypeConnectionRefused,
				Message:        "Camera refused connection",
				Err:            err,
				NetworkSubtype: NetworkErrorConnectionRefused,
				Host:           host,
			}
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
			return &Error{
				Type:           ErrTypeNetwork,
				Message:        "Host unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorHostUnreachable,
				Host:           host,
			}
		}
		if errors.Is(opErr.Err, syscall.ENETUNREACH) {
			return &Error{
				Type:           ErrTypeNetwork,
				Message:        "Network unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorNetworkUnreachable,
				Host:           host,
			}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		classified := ClassifyNetworkError(urlErr.Err, host)
		// keep the outer error so callers still see the request URL
		classified.Err = err
		return classified
	}

	return &Error{
		Type:           ErrTypeNetwork,
		Message:        "Network error occurred",
		Err:            err,
		NetworkSubtype: NetworkErrorGeneral,
		Host:           host,
	}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(command, message string, err error) *Error {
	classified := ClassifyNetworkError(err, "")
	if classified == nil {
		classified = &Error{Type: ErrTypeNetwork}
	}
	classified.Command = command
	classified.Message = message
	return classified
}

// NewAuthError creates an authentication error
func NewAuthError(command, message string) *Error {
	return &Error{
		Type:       ErrTypeAuth,
		Message:    message,
		Command:    command,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(command string, statusCode int, message string) *Error {
	return &Error{
		Type:       ErrTypeHTTP,
		Message:    message,
		Command:    command,
		StatusCode: statusCode,
	}
}

// NewParseError creates a parsing error
func NewParseError(command, message string, err error) *Error {
	return &Error{
		Type:    ErrTypeParse,
		Message: message,
		Command: command,
		Err:     err,
	}
}

// NewRejectedError creates an error for a non-zero device result code
func NewRejectedError(command string, code ResultCode) *Error {
	return &Error{
		Type:       ErrTypeDeviceRejected,
		Message:    fmt.Sprintf("%s (result %d)", code, int(code)),
		Command:    command,
		StatusCode: http.StatusOK,
		ResultCode: code,
	}
}

// AsError extracts the *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var cgiErr *Error
	if errors.As(err, &cgiErr) {
		return cgiErr, true
	}
	return nil, false
}

// IsNetworkError checks if an error is a network error (including timeout, connection refused, DNS, etc.)
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuth)
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	return errors.Is(err, ErrHTTP)
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsDeviceRejected checks if the camera answered with a non-zero result code
func IsDeviceRejected(err error) bool {
	return errors.Is(err, ErrDeviceRejected)
}

// IsTimeout checks if the request timed out
func IsTimeout(err error) bool {
	cgiErr, ok := AsError(err)
	return ok && cgiErr.Type == ErrTypeTimeout
}

// TroubleshootingHint returns user-friendly troubleshooting advice for an error
func TroubleshootingHint(err error) string {
	cgiErr, ok := AsError(err)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}

	switch cgiErr.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The camera did not respond in time.",
			"Troubleshooting:",
			"  • Check that the camera is powered on",
			"  • Verify the URL and port (e.g. http://192.168.1.20:88)",
			"  • Try increasing --timeout",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"The camera refused the connection.",
			"Troubleshooting:",
			"  • Check the HTTP port in the camera's network settings (often 88)",
			"  • The camera's web service may be restarting - wait and retry",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the camera hostname.",
			"Troubleshooting:",
			"  • Use the IP address instead of hostname",
			"  • Check your network DNS settings",
		}, "\n")

	case ErrTypeAuth:
		return authHint()

	case ErrTypeNetwork:
		hint := []string{"Network communication failed."}

		switch cgiErr.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			hint = append(hint, "The camera is not reachable on the network.",
				"Troubleshooting:",
				"  • Verify the camera address is correct",
				"  • Check that you're on the same network as the camera")
			if cgiErr.Host != "" {
				hint = append(hint, "  • Try pinging the camera: ping "+cgiErr.Host)
			}

		case NetworkErrorNetworkUnreachable:
			hint = append(hint, "Your computer cannot reach the camera's network.",
				"Troubleshooting:",
				"  • Check your network adapter settings",
				"  • Verify any VPN or routing configuration")

		default:
			hint = append(hint, "Troubleshooting:",
				"  • Check your network connection",
				"  • Verify the camera is powered on")
		}

		return strings.Join(hint, "\n")

	case ErrTypeHTTP:
		if cgiErr.StatusCode == http.StatusNotFound {
			return "The camera has no CGIProxy.fcgi endpoint. Check that the URL points at the camera's HTTP port and has no path."
		}
		return fmt.Sprintf("The camera returned HTTP error %d.", cgiErr.StatusCode)

	case ErrTypeParse:
		return strings.Join([]string{
			"Failed to parse the camera's response.",
			"The URL may point at something other than the camera.",
			"Run with FOSCAM_LOG_LEVEL=debug to see the raw response.",
		}, "\n")

	case ErrTypeDeviceRejected:
		switch cgiErr.ResultCode {
		case ResultBadCredentials:
			return authHint()
		case ResultAccessDenied:
			return "The account lacks permission for this command. Use an administrator account."
		case ResultBadRequest:
			return "The camera did not understand the request. Its firmware may not support this command."
		default:
			return "The camera could not execute the command. Try again, or reboot the camera."
		}

	default:
		return "An error occurred. Please check the error message for details."
	}
}

func authHint() string {
	return strings.Join([]string{
		"Authentication failed.",
		"Troubleshooting:",
		"  • Check --user and --password (or FOSCAM_PASSWORD)",
		"  • The camera locks out after repeated failures; wait a few minutes",
	}, "\n")
}

// ShortMessage returns a concise, user-friendly error message
func ShortMessage(err error) string {
	cgiErr, ok := AsError(err)
	if !ok {
		return err.Error()
	}

	switch cgiErr.Type {
	case ErrTypeTimeout:
		return "Camera not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Camera refused connection - check the port"
	case ErrTypeDNS:
		return "Cannot resolve camera hostname"
	case ErrTypeAuth:
		return "Authentication failed - check credentials"
	case ErrTypeNetwork:
		switch cgiErr.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			return "Camera unreachable - check network connection"
		case NetworkErrorNetworkUnreachable:
			return "Network unreachable"
		default:
			return "Network error - check connection"
		}
	case ErrTypeHTTP:
		return fmt.Sprintf("Camera error (HTTP %d)", cgiErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse camera response"
	case ErrTypeDeviceRejected:
		if cgiErr.ResultCode == ResultBadCredentials {
			return "Authentication failed - check credentials"
		}
		return fmt.Sprintf("Camera rejected %s: %s", cgiErr.Command, cgiErr.ResultCode)
	default:
		return cgiErr.Message
	}
}
