package camera

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/foscam/internal/logging"
	"github.com/muurk/foscam/internal/schedule"
)

// DefaultMaxSnapshots is how many snapshots a RollbackManager keeps.
const DefaultMaxSnapshots = 10

// ErrNoSnapshot is returned when there is nothing to roll back to.
var ErrNoSnapshot = errors.New("no snapshots available for rollback")

// Snapshot is a schedule saved before a change.
type Snapshot struct {
	Week        schedule.Week
	Timestamp   time.Time
	Description string
}

// RollbackManager saves the camera's schedule before writes so that a
// bad write can be undone.
type RollbackManager struct {
	client *Client

	mu           sync.RWMutex
	snapshots    []*Snapshot
	maxSnapshots int
}

// NewRollbackManager returns a manager keeping DefaultMaxSnapshots.
func NewRollbackManager(client *Client) *RollbackManager {
	return &RollbackManager{
		client:       client,
		snapshots:    make([]*Snapshot, 0, DefaultMaxSnapshots),
		maxSnapshots: DefaultMaxSnapshots,
	}
}

// SaveSnapshot reads the current schedule and stores it.
func (rm *RollbackManager) SaveSnapshot(ctx context.Context, description string) (*Snapshot, error) {
	week, err := rm.client.GetWeek(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule for snapshot: %w", err)
	}

	snap := &Snapshot{Week: week, Timestamp: time.Now(), Description: description}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.snapshots = append(rm.snapshots, snap)
	if len(rm.snapshots) > rm.maxSnapshots {
		rm.snapshots = rm.snapshots[len(rm.snapshots)-rm.maxSnapshots:]
	}
	return snap, nil
}

// Latest returns the newest snapshot, or nil.
func (rm *RollbackManager) Latest() *Snapshot {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	if len(rm.snapshots) == 0 {
		return nil
	}
	return rm.snapshots[len(rm.snapshots)-1]
}

// Snapshots returns all snapshots, oldest first.
func (rm *RollbackManager) Snapshots() []*Snapshot {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	out := make([]*Snapshot, len(rm.snapshots))
	copy(out, rm.snapshots)
	return out
}

// Clear forgets every snapshot.
func (rm *RollbackManager) Clear() {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.snapshots = make([]*Snapshot, 0, rm.maxSnapshots)
}

// Restore writes snap back to the camera and verifies it.
func (rm *RollbackManager) Restore(ctx context.Context, snap *Snapshot, opts *VerificationOptions) *VerificationResult {
	if snap == nil {
		return &VerificationResult{Error: errors.New("snapshot is nil")}
	}
	return rm.client.SetWeekAndVerify(ctx, snap.Week, opts)
}

// RestoreLatest restores the newest snapshot.
func (rm *RollbackManager) RestoreLatest(ctx context.Context, opts *VerificationOptions) *VerificationResult {
	snap := rm.Latest()
	if snap == nil {
		return &VerificationResult{Error: ErrNoSnapshot}
	}
	return rm.Restore(ctx, snap, opts)
}

// SafeUpdateResult describes a SafeSetSchedule call.
type SafeUpdateResult struct {
	Success     bool
	Description string

	Update *VerificationResult

	RollbackAttempted bool
	RollbackSucceeded bool
	Rollback          *VerificationResult

	Error error
}

// SafeSetSchedule snapshots the schedule, writes segs with verification,
// and restores the snapshot if verification fails.
func (rm *RollbackManager) SafeSetSchedule(ctx context.Context, segs []schedule.Segment, clearMissing bool, opts *VerificationOptions, description string) *SafeUpdateResult {
	result := &SafeUpdateResult{Description: description}

	if errs := schedule.ValidateSegments(segs); len(errs) > 0 {
		result.Error = errs[0]
		return result
	}

	snap, err := rm.SaveSnapshot(ctx, description)
	if err != nil {
		result.Error = fmt.Errorf("failed to save pre-update snapshot: %w", err)
		return result
	}

	result.Update = rm.client.SetScheduleAndVerify(ctx, segs, clearMissing, opts)
	if result.Update.Success {
		result.Success = true
		return result
	}

	logging.Warn("Schedule update failed, rolling back",
		zap.String("description", description),
		zap.Error(result.Update.Error),
	)

	result.RollbackAttempted = true
	result.Rollback = rm.Restore(ctx, snap, opts)
	if result.Rollback.Success {
		result.RollbackSucceeded = true
		result.Error = fmt.Errorf("update failed (%w), previous schedule restored", result.Update.Error)
	} else {
		result.Error = fmt.Errorf("update failed (%w) and rollback failed: %w", result.Update.Error, result.Rollback.Error)
	}
	return result
}

func (r *SafeUpdateResult) String() string {
	if r.Success {
		return fmt.Sprintf("Update succeeded: %s (verified in %d attempt(s))", r.Description, r.Update.Attempts)
	}
	if r.RollbackAttempted {
		if r.RollbackSucceeded {
			return fmt.Sprintf("Update failed but was rolled back: %s\nUpdate error: %v", r.Description, r.Update.Error)
		}
		return fmt.Sprintf("Update failed and rollback failed: %s\nUpdate error: %v\nRollback error: %v",
			r.Description, r.Update.Error, r.Rollback.Error)
	}
	return fmt.Sprintf("Update failed: %s\nError: %v", r.Description, r.Error)
}
