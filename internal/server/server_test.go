package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/muurk/foscam/internal/camera"
	"github.com/muurk/foscam/internal/logging"
	"github.com/muurk/foscam/internal/schedule"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.Password = "secret"
	return cfg
}

// serve starts srv and returns a func that stops it and waits.
func serve(t *testing.T, srv *Server) func() {
	t.Helper()
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	return func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Serve() error = %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("Serve() did not return after cancel")
		}
	}
}

func TestServer_ServesCamera(t *testing.T) {
	cfg := testConfig()
	cfg.IRMode = 2
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	stop := serve(t, srv)
	defer stop()

	if !strings.HasPrefix(srv.URL(), "http://127.0.0.1:") {
		t.Fatalf("URL() = %q", srv.URL())
	}

	ctx := context.Background()
	client, err := camera.NewClient(ctx, srv.URL(), "admin", "secret")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	if client.DefaultIRMode() != camera.IRSchedule {
		t.Errorf("DefaultIRMode() = %v, want schedule", client.DefaultIRMode())
	}
	if err := client.TurnInfraredOn(ctx); err != nil {
		t.Fatalf("TurnInfraredOn() error = %v", err)
	}
	if !srv.Camera().IRLEDOn() {
		t.Error("emulated IR LED is off")
	}
}

func TestServer_BadCredentials(t *testing.T) {
	srv, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	stop := serve(t, srv)
	defer stop()

	_, err = camera.NewClient(context.Background(), srv.URL(), "admin", "wrong")
	if err == nil {
		t.Fatal("NewClient() with a wrong password should fail")
	}
}

func TestServer_TLS(t *testing.T) {
	cfg := testConfig()
	cfg.TLS = true
	cfg.GenerateCert = true
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	stop := serve(t, srv)
	defer stop()

	if !strings.HasPrefix(srv.URL(), "https://") {
		t.Fatalf("URL() = %q", srv.URL())
	}

	httpClient := &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := camera.NewClientWithConfig(context.Background(), camera.Config{
		BaseURL:    srv.URL(),
		Password:   "secret",
		HTTPClient: httpClient,
	})
	if err != nil {
		t.Fatalf("NewClientWithConfig() error = %v", err)
	}
	defer client.Close()
	httpClient.CloseIdleConnections()
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"ir mode", func(c *Config) { c.IRMode = 5 }},
		{"schedule bits", func(c *Config) { c.Week[schedule.Monday] = 1 << 50 }},
		{"missing cert", func(c *Config) {
			c.TLS = true
			c.CertPath = "/nonexistent/cert.pem"
			c.KeyPath = "/nonexistent/key.pem"
		}},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(cfg)
			if _, err := New(cfg); err == nil {
				t.Error("New() should fail")
			}
		})
	}
}

func TestServer_ShutdownBeforeServe(t *testing.T) {
	srv, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if srv.Addr() != "" || srv.URL() != "" {
		t.Errorf("Addr() = %q before Listen", srv.Addr())
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestLogRequests(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logging.SetLogger(zap.New(core))
	defer logging.SetLogger(zap.NewNop())

	handler := LogRequests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cmd") == "" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("<CGI_Result><result>0</result></CGI_Result>"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/cgi-bin/CGIProxy.fcgi?cmd=ptzMoveUp&usr=admin&pwd=hunter2", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/other", nil))

	info := logs.FilterMessage("Emulator request").All()
	if len(info) != 1 {
		t.Fatalf("got %d info entries, want 1", len(info))
	}
	fields := info[0].ContextMap()
	if fields["cmd"] != "ptzMoveUp" || fields["status"] != int64(http.StatusOK) {
		t.Errorf("info fields = %v", fields)
	}

	if n := logs.FilterMessage("Emulator request rejected").Len(); n != 1 {
		t.Errorf("got %d rejected entries, want 1", n)
	}

	for _, entry := range logs.All() {
		for _, v := range entry.ContextMap() {
			if s, ok := v.(string); ok && strings.Contains(s, "hunter2") {
				t.Errorf("password logged in %q: %v", entry.Message, entry.ContextMap())
			}
		}
	}
}

func TestGenerateSelfSigned(t *testing.T) {
	now := time.Now()
	certPEM, keyPEM, err := GenerateSelfSigned("cam.local", now)
	if err != nil {
		t.Fatalf("GenerateSelfSigned() error = %v", err)
	}
	if _, err := NewTLSConfigFromMemory(certPEM, keyPEM); err != nil {
		t.Fatalf("generated pair does not load: %v", err)
	}

	block, _ := pem.Decode(certPEM)
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		t.Fatal(err)
	}
	if err := cert.VerifyHostname("cam.local"); err != nil {
		t.Errorf("VerifyHostname(cam.local) = %v", err)
	}
	if err := cert.VerifyHostname("127.0.0.1"); err != nil {
		t.Errorf("VerifyHostname(127.0.0.1) = %v", err)
	}
	if !cert.NotAfter.After(now.Add(300 * 24 * time.Hour)) {
		t.Errorf("NotAfter = %v", cert.NotAfter)
	}

	if info := GetTLSInfo(nil); info["enabled"] != false {
		t.Errorf("GetTLSInfo(nil) = %v", info)
	}
}
