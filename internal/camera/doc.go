// Package camera is the control surface for a single camera: infrared
// mode, pan/tilt/zoom and the weekly recording schedule.
//
// # Basic Usage
//
//	cam, err := camera.NewClient(ctx, "http://192.168.0.100:88", "admin", password)
//	if err != nil {
//	    return err
//	}
//	defer cam.Close()
//
//	// Pan left for two seconds. The stop is sent by a shared scheduler;
//	// the handle can cancel it or wait for it.
//	h, err := cam.Pan(ctx, "left", 2*time.Second)
//	<-h.Done()
//
//	segs, _ := schedule.ParseSegments([]string{"monday", "9:30", "14:00"})
//	_, err = cam.SetSchedule(ctx, segs, true)
//
// # Infrared
//
// The client remembers a default IR mode, read from the camera when the
// client is built. TurnInfraredOn switches to manual without touching the
// default; TurnInfraredOff restores it. SetIRMode changes the default.
//
// # Schedule
//
// SetSchedule with clearMissing replaces the whole week. Without it the
// current week is fetched and the new segments are added, so days and
// times not mentioned keep recording. Every write carries the client's
// RecordOptions.
//
// SetScheduleAndVerify and RollbackManager read the schedule back after a
// write, for firmware that reports success without applying the change.
//
// # Errors
//
// Transport and device failures are *cgi.Error values (see the cgi
// package predicates). Bad directions wrap ErrInvalidDirection and bad
// segments wrap schedule.ErrInvalidSegment; neither sends a request.
package camera
