// Package cgi is the transport for the camera's HTTP control protocol.
//
// Every command is an HTTP GET to /cgi-bin/CGIProxy.fcgi with the command
// name in cmd and the credentials in usr and pwd:
//
//	GET /cgi-bin/CGIProxy.fcgi?cmd=getInfraLedConfig&usr=admin&pwd=secret
//
// The camera answers 200 OK with a flat XML document:
//
//	<CGI_Result>
//	    <result>0</result>
//	    <mode>1</mode>
//	</CGI_Result>
//
// A non-zero <result> means the device refused the command; Do reports
// that as an *Error of type ErrTypeDeviceRejected.
//
// # Parameters
//
// Params is an immutable builder. Each With call returns a new value, so a
// shared base set can be extended per request without aliasing:
//
//	base := cgi.NewParams().WithBool("isEnable", true)
//	res, err := client.Do(ctx, "setScheduleRecordConfig", base.WithInt("recordLevel", 4))
//
// # Errors
//
// All failures are *Error values. Use the predicates (IsNetworkError,
// IsAuthError, IsParseError, IsDeviceRejected) or errors.Is with the
// package sentinels, and ShortMessage / TroubleshootingHint for CLI output.
// Requests are never retried.
package cgi
