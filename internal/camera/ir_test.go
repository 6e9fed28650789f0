package camera

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/muurk/foscam/internal/cgi"
	"github.com/muurk/foscam/internal/fakecam"
)

func TestParseIRMode(t *testing.T) {
	tests := []struct {
		in      string
		want    IRMode
		wantErr bool
	}{
		{"auto", IRAuto, false},
		{"Manual", IRManual, false},
		{" SCHEDULE ", IRSchedule, false},
		{"night", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseIRMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseIRMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseIRMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIRModeText(t *testing.T) {
	b, err := json.Marshal(map[string]IRMode{"mode": IRManual})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"mode":"manual"}` {
		t.Errorf("json = %s", b)
	}

	var m IRMode
	if err := m.UnmarshalText([]byte("schedule")); err != nil || m != IRSchedule {
		t.Errorf("UnmarshalText = %v, %v", m, err)
	}
	if IRMode(9).String() != "IRMode(9)" {
		t.Errorf("String() = %s", IRMode(9))
	}
}

func TestTurnInfraredOn_KeepsDefault(t *testing.T) {
	c, cam := newTestClient(t, fakecam.WithIRMode(2))
	ctx := context.Background()

	if err := c.TurnInfraredOn(ctx); err != nil {
		t.Fatalf("TurnInfraredOn() error = %v", err)
	}

	if got := joined(cam.Commands()); got != "setInfraLedConfig,openInfraLed" {
		t.Errorf("commands = %s", got)
	}
	if cam.IRMode() != int(IRManual) || !cam.IRLEDOn() {
		t.Errorf("camera mode=%d led=%v, want manual and lit", cam.IRMode(), cam.IRLEDOn())
	}
	if c.DefaultIRMode() != IRSchedule {
		t.Errorf("DefaultIRMode() = %v, want schedule", c.DefaultIRMode())
	}
}

func TestTurnInfraredOff_RestoresDefault(t *testing.T) {
	c, cam := newTestClient(t, fakecam.WithIRMode(2))
	ctx := context.Background()

	if err := c.TurnInfraredOn(ctx); err != nil {
		t.Fatal(err)
	}
	cam.ResetRequests()

	if err := c.TurnInfraredOff(ctx); err != nil {
		t.Fatalf("TurnInfraredOff() error = %v", err)
	}

	reqs := cam.Requests()
	if len(reqs) != 2 || reqs[0].Command != "closeInfraLed" || reqs[1].Command != "setInfraLedConfig" {
		t.Fatalf("commands = %v", cam.Commands())
	}
	if got := reqs[1].Params.Get("mode"); got != "2" {
		t.Errorf("restored mode param = %q, want 2", got)
	}
	if cam.IRLEDOn() || cam.IRMode() != 2 {
		t.Errorf("camera mode=%d led=%v", cam.IRMode(), cam.IRLEDOn())
	}
}

func TestSetDefaultIRMode(t *testing.T) {
	c, cam := newTestClient(t, fakecam.WithIRMode(1))
	ctx := context.Background()

	if err := c.SetDefaultIRMode(IRMode(7)); err == nil {
		t.Error("SetDefaultIRMode(7) should fail")
	}
	if err := c.SetDefaultIRMode(IRSchedule); err != nil {
		t.Fatal(err)
	}
	if n := len(cam.Requests()); n != 0 {
		t.Errorf("SetDefaultIRMode sent %d request(s)", n)
	}

	if err := c.TurnInfraredOff(ctx); err != nil {
		t.Fatal(err)
	}
	if cam.IRMode() != 2 {
		t.Errorf("mode = %d after TurnInfraredOff, want 2", cam.IRMode())
	}
}

func TestSetIRMode_RedefinesDefault(t *testing.T) {
	c, cam := newTestClient(t)
	ctx := context.Background()

	if err := c.SetIRMode(ctx, IRSchedule); err != nil {
		t.Fatalf("SetIRMode() error = %v", err)
	}
	if c.DefaultIRMode() != IRSchedule {
		t.Errorf("DefaultIRMode() = %v after SetIRMode", c.DefaultIRMode())
	}

	if err := c.TurnInfraredOn(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.TurnInfraredOff(ctx); err != nil {
		t.Fatal(err)
	}
	if cam.IRMode() != int(IRSchedule) {
		t.Errorf("camera mode = %d, want the mode set explicitly", cam.IRMode())
	}

	got, err := c.GetIRMode(ctx)
	if err != nil || got != IRSchedule {
		t.Errorf("GetIRMode() = %v, %v", got, err)
	}
}

func TestSetIRMode_Rejected(t *testing.T) {
	c, cam := newTestClient(t)
	cam.FailCommand("setInfraLedConfig", -3)

	err := c.SetIRMode(context.Background(), IRManual)
	if !cgi.IsDeviceRejected(err) {
		t.Fatalf("error = %v, want device rejection", err)
	}
	if c.DefaultIRMode() != IRAuto {
		t.Errorf("rejected SetIRMode changed the default to %v", c.DefaultIRMode())
	}
}

func TestSetIRMode_Invalid(t *testing.T) {
	c, cam := newTestClient(t)

	if err := c.SetIRMode(context.Background(), IRMode(5)); err == nil {
		t.Error("SetIRMode(5) should fail")
	}
	if n := len(cam.Commands()); n != 0 {
		t.Errorf("invalid mode sent %d requests", n)
	}
}

func TestNewClient_UnknownIRMode(t *testing.T) {
	cam := fakecam.New(fakecam.WithIRMode(7))
	defer cam.Close()

	_, err := NewClient(context.Background(), cam.URL(), "admin", "")
	if !cgi.IsParseError(err) {
		t.Errorf("error = %v, want parse error", err)
	}
}
