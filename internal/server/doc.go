// Package server runs an emulated Foscam camera over HTTP or HTTPS.
//
// The emulator answers CGIProxy.fcgi requests the way a camera does,
// keeping IR, pan/tilt/zoom and recording schedule state in memory. It
// is meant for trying foscam-ctl without hardware and for integration
// tests.
//
// # Usage Example
//
//	config := server.DefaultConfig()
//	config.Password = "secret"
//
//	srv, err := server.New(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Start blocks until SIGINT or SIGTERM
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// Serve does the same but stops when its context is cancelled.
//
// # TLS
//
// With Config.TLS set the emulator serves HTTPS, either from CertPath
// and KeyPath or, with GenerateCert, from an in-memory self-signed
// certificate. Clients must skip certificate verification for the
// latter, as they must for most cameras.
//
// # Logging
//
// Each request is logged at info level with the command name and status.
// The query string is logged at debug level with passwords redacted.
package server
