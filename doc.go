// Package cadmus is the view-composition and paint-invalidation engine of
// an e-ink reading device.
//
// The engine keeps a retained tree of views, routes input and device events
// through it, and converts the paint requests the views emit into the
// smallest set of framebuffer flushes the panel has to perform. On e-ink
// every flush is visible and a full-panel flash costs hundreds of
// milliseconds, so invalidation rather than drawing is the engine's center
// of gravity.
//
// # Cycle
//
// [App] owns the loop. Each cycle takes exactly one event from the queue,
// dispatches it through the tree, appends any follow-up events the views
// emitted to the back of the queue, and runs one paint pass:
//
//	fb := cadmus.NewImageFramebuffer(758, 1024)
//	app := cadmus.NewApp(fb, ctx)
//	app.Hub().Send(cadmus.Open{Path: "book/"})
//	app.Run(context.Background())
//
// Pointer events ([Tap], [Hold], [Swipe]) are delivered to the deepest view
// whose bounds contain the position and bubble up the descent path until a
// view consumes them. Everything else ([Suspend], [BatteryLevel], commands)
// is broadcast to every view in preorder.
//
// # Views
//
// Every node implements [View]; embed the base behavior and override what
// the view needs. Containers own their children exclusively; later children
// draw on top of earlier ones, and overlays (dialogs, notifications) are
// simply trailing children of the root [Frame].
//
// Views never draw outside a paint pass. They queue a [RenderData] on the
// [RenderQueue] naming their rectangle and a [RefreshMode]; the paint pass
// merges overlapping regions, draws the affected subtrees clipped to the
// damage, and issues one [Framebuffer.Flush] per refresh mode.
//
// # Frontends
//
// [ImageFramebuffer] renders into memory and records flushes, which is what
// the tests and the desktop emulator (package emulator) use.
// [DeviceFramebuffer] drives a real panel through /dev/fb0 on Linux.
package cadmus

// Version is the settings schema version written by this build.
const Version = "0.4.0"
