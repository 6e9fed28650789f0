// Package timer runs deferred one-shot tasks on a single shared goroutine.
//
// The camera client uses it for timed pan and zoom: the move command is
// sent immediately and the matching stop is scheduled here. Every
// scheduled task gets a *Handle that can cancel it or wait for it:
//
//	h := sched.After(2*time.Second, func(ctx context.Context) {
//	    _ = stop(ctx)
//	})
//	...
//	if h.Cancel() {
//	    // the stop will not be sent
//	}
//	<-h.Done()
//
// Close cancels everything still pending and cancels the context passed
// to a task that is running at the time. Tasks scheduled with Flush are
// the exception: Close runs them at once, and Handle.Err reports how they
// went.
package timer
