package camera

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/muurk/foscam/internal/fakecam"
	"github.com/muurk/foscam/internal/schedule"
)

func TestRollbackManager_SaveSnapshot(t *testing.T) {
	var week schedule.Week
	week[schedule.Tuesday] = schedule.SpanMask(16, 36)
	c, _ := newTestClient(t, fakecam.WithWeek(week))

	rm := NewRollbackManager(c)
	snap, err := rm.SaveSnapshot(context.Background(), "before test")
	if err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	if rm.Latest() != snap {
		t.Error("Latest() is not the saved snapshot")
	}
	if snap.Description != "before test" || snap.Week != week {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Timestamp.IsZero() {
		t.Error("snapshot has no timestamp")
	}
}

func TestRollbackManager_SnapshotLimit(t *testing.T) {
	c, _ := newTestClient(t)
	rm := NewRollbackManager(c)

	for i := 0; i < 15; i++ {
		if _, err := rm.SaveSnapshot(context.Background(), fmt.Sprintf("snapshot %d", i)); err != nil {
			t.Fatalf("SaveSnapshot %d: %v", i, err)
		}
	}

	snaps := rm.Snapshots()
	if len(snaps) != DefaultMaxSnapshots {
		t.Fatalf("kept %d snapshots, want %d", len(snaps), DefaultMaxSnapshots)
	}
	if snaps[0].Description != "snapshot 5" || snaps[9].Description != "snapshot 14" {
		t.Errorf("kept %q .. %q, want the newest ten", snaps[0].Description, snaps[9].Description)
	}

	rm.Clear()
	if rm.Latest() != nil || len(rm.Snapshots()) != 0 {
		t.Error("Clear() left snapshots")
	}
}

func TestRollbackManager_RestoreLatest(t *testing.T) {
	var week schedule.Week
	week[schedule.Sunday] = schedule.FullDay
	c, cam := newTestClient(t, fakecam.WithWeek(week))
	rm := NewRollbackManager(c)
	ctx := context.Background()

	if _, err := rm.SaveSnapshot(ctx, "before clear"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.SetSchedule(ctx, nil, true); err != nil {
		t.Fatal(err)
	}
	if !cam.Week().IsZero() {
		t.Fatal("schedule was not cleared")
	}

	result := rm.RestoreLatest(ctx, fastVerify())
	if !result.Success {
		t.Fatalf("RestoreLatest() failed: %v", result.Error)
	}
	if cam.Week() != week {
		t.Errorf("camera week = %v, want %v", cam.Week(), week)
	}
}

func TestRollbackManager_NothingToRestore(t *testing.T) {
	c, _ := newTestClient(t)
	rm := NewRollbackManager(c)

	if result := rm.RestoreLatest(context.Background(), nil); !errors.Is(result.Error, ErrNoSnapshot) {
		t.Errorf("Error = %v, want ErrNoSnapshot", result.Error)
	}
	if result := rm.Restore(context.Background(), nil, nil); result.Error == nil {
		t.Error("Restore(nil) should fail")
	}
}

func TestSafeSetSchedule_Success(t *testing.T) {
	c, cam := newTestClient(t)
	rm := NewRollbackManager(c)

	result := rm.SafeSetSchedule(context.Background(),
		mustSegments(t, "friday", "18:00", "23:30"), true, fastVerify(), "evenings")

	if !result.Success || result.RollbackAttempted {
		t.Fatalf("result = %+v", result)
	}
	if cam.Week()[schedule.Friday] != schedule.SpanMask(36, 47) {
		t.Errorf("friday = %v", cam.Week()[schedule.Friday])
	}
	if len(rm.Snapshots()) != 1 {
		t.Errorf("%d snapshots, want 1", len(rm.Snapshots()))
	}
	if !strings.HasPrefix(result.String(), "Update succeeded: evenings") {
		t.Errorf("String() = %q", result.String())
	}
}

func TestSafeSetSchedule_RollsBack(t *testing.T) {
	var week schedule.Week
	week[schedule.Monday] = schedule.SpanMask(0, 4)
	c, cam := newTestClient(t, fakecam.WithWeek(week))
	cam.IgnoreScheduleWrites(true)
	rm := NewRollbackManager(c)

	result := rm.SafeSetSchedule(context.Background(),
		mustSegments(t, "monday", "9:30", "14:00"), true, fastVerify(), "office hours")

	if result.Success {
		t.Fatal("update should fail when the camera ignores writes")
	}
	if !result.RollbackAttempted || !result.RollbackSucceeded {
		t.Errorf("rollback attempted=%v succeeded=%v", result.RollbackAttempted, result.RollbackSucceeded)
	}
	if result.Error == nil || !strings.Contains(result.Error.Error(), "previous schedule restored") {
		t.Errorf("Error = %v", result.Error)
	}
	if cam.Week() != week {
		t.Errorf("camera week = %v, want the original", cam.Week())
	}
}

func TestSafeSetSchedule_InvalidSegment(t *testing.T) {
	c, cam := newTestClient(t)
	rm := NewRollbackManager(c)

	result := rm.SafeSetSchedule(context.Background(),
		[]schedule.Segment{{Day: schedule.Weekday(9), Start: 0, End: 2}}, true, fastVerify(), "bad")

	if !schedule.IsInvalidSegment(result.Error) {
		t.Errorf("Error = %v", result.Error)
	}
	if len(rm.Snapshots()) != 0 || len(cam.Commands()) != 0 {
		t.Error("invalid input should not touch the camera")
	}
}
