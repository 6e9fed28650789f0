package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/foscam/internal/fakecam"
	"github.com/muurk/foscam/internal/logging"
	"github.com/muurk/foscam/internal/schedule"
)

// ShutdownTimeout bounds how long Shutdown waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

// Config holds the emulator configuration
type Config struct {
	Host        string
	Port        int
	LogLevel    string
	Username    string
	Password    string
	IRMode      int           // Initial IR mode (0 auto, 1 manual, 2 schedule)
	Week        schedule.Week // Initial recording schedule
	MaxRequests int           // Request log bound (0 = unlimited)

	TLS          bool   // Serve HTTPS
	CertPath     string // Certificate file (optional when GenerateCert is set)
	KeyPath      string // Private key file (optional when GenerateCert is set)
	GenerateCert bool   // Use an in-memory self-signed certificate
}

// DefaultConfig returns the emulator defaults: port 88 as on the
// camera, admin with an empty password.
func DefaultConfig() *Config {
	return &Config{
		Port:        88,
		Username:    "admin",
		MaxRequests: 1000,
	}
}

// Server serves an emulated camera over HTTP.
type Server struct {
	config     *Config
	camera     *fakecam.Camera
	tlsConfig  *tls.Config
	httpServer *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// New creates a Server. Logging is initialized from config.LogLevel.
func New(config *Config) (*Server, error) {
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := schedule.ValidateWeek(config.Week); err != nil {
		return nil, fmt.Errorf("invalid initial schedule: %w", err)
	}
	if config.IRMode < 0 || config.IRMode > 2 {
		return nil, fmt.Errorf("invalid initial IR mode %d", config.IRMode)
	}

	var tlsConfig *tls.Config
	if config.TLS {
		var err error
		if config.GenerateCert {
			tlsConfig, err = NewSelfSignedTLSConfig(config.Host)
		} else {
			tlsConfig, err = NewTLSConfig(config.CertPath, config.KeyPath)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	cam := fakecam.NewCamera(
		fakecam.WithCredentials(config.Username, config.Password),
		fakecam.WithIRMode(config.IRMode),
		fakecam.WithWeek(config.Week),
		fakecam.WithMaxRequests(config.MaxRequests),
	)

	s := &Server{
		config:    config,
		camera:    cam,
		tlsConfig: tlsConfig,
	}
	s.httpServer = &http.Server{
		Handler:           LogRequests(cam),
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Camera returns the emulated camera, for inspecting state.
func (s *Server) Camera() *fakecam.Camera {
	return s.camera
}

// Addr returns the listening address, or "" before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// URL returns the camera base URL clients should use.
func (s *Server) URL() string {
	addr := s.Addr()
	if addr == "" {
		return ""
	}
	if s.tlsConfig != nil {
		return "https://" + addr
	}
	return "http://" + addr
}

// Listen binds the configured address.
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if s.tlsConfig != nil {
		ln = tls.NewListener(ln, s.tlsConfig)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	return nil
}

// Serve serves requests until ctx is cancelled, then shuts down.
// Listen is called first if it has not been.
func (s *Server) Serve(ctx context.Context) error {
	if s.Addr() == "" {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	logging.Info("Camera emulator listening",
		zap.String("url", s.URL()),
		zap.String("username", s.config.Username),
		zap.Bool("tls", s.tlsConfig != nil),
		zap.String("schedule", schedule.Summary(s.config.Week)),
	)

	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Start serves until SIGINT or SIGTERM.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Serve(ctx)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down camera emulator...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		logging.Warn("Shutdown timeout, forcing close", zap.Error(err))
		_ = s.httpServer.Close()
	}

	counts := s.camera.CommandCounts()
	logging.Info("Camera emulator stopped", zap.Any("commands", counts))
	logging.Sync()

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
