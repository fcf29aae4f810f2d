// Package host runs components against a canvas.
//
// A Runtime owns a reconcile.Engine and a Scheduler. Mount renders a root
// component under a canvas handle; Update returns a closure that re-renders
// a mounted node in place. Each pass hands its deferred work (OnMount,
// OnUnmount, listener application) to the Scheduler, which runs it after the
// triggering call returns.
//
// Loop is the default Scheduler: a FIFO, run-once task host owned by one
// goroutine. Mount, Update and event handlers must all run on that goroutine;
// other goroutines hand work to it with Defer.
//
//	loop := host.NewLoop()
//	rt := host.New(doc, loop, host.Options{})
//	root, err := rt.Mount(ctx, app, nil, doc.Root())
//	...
//	go loop.Run(ctx)
package host
