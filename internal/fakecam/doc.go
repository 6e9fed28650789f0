// Package fakecam is an in-memory camera that speaks the CGI control
// protocol. Tests start one with New and point a client at URL():
//
//	cam := fakecam.New(fakecam.WithIRMode(2))
//	defer cam.Close()
//
//	client, err := camera.NewClient(ctx, cam.URL(), "admin", "")
//	...
//	if got := cam.Commands(); ...
//
// The camera records every request in order, keeps IR, motion and
// schedule state, and can be told to fail or delay individual commands.
// The emulator command serves the same handler on a real port.
package fakecam
