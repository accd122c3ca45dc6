package widget

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrStopped is returned by Driver methods once Run has returned.
var ErrStopped = errors.New("widget: driver stopped")

type op func(ctx context.Context)

// Driver owns a Widget on a single loop goroutine. Requests run on worker
// goroutines and their results are fed back into the loop. Finish runs on
// the tick after Resolve, so listeners have rendered the reply before the
// container is scrolled and the input unlocked.
type Driver struct {
	widget  *Widget
	backend Backend

	ops     chan op
	stopped chan struct{}
	once    sync.Once
	workers sync.WaitGroup

	// next holds work deferred to the following tick. Loop goroutine only.
	next []func()
}

// NewDriver returns a driver for w. Call Run to start the loop.
func NewDriver(w *Widget, backend Backend) *Driver {
	return &Driver{
		widget:  w,
		backend: backend,
		ops:     make(chan op),
		stopped: make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled. In-flight requests are
// cancelled with ctx and waited for before Run returns.
func (d *Driver) Run(ctx context.Context) error {
	defer func() {
		d.once.Do(func() { close(d.stopped) })
		d.workers.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-d.ops:
			fn(ctx)
			d.tick()
		}
	}
}

// Start issues the greeting request.
func (d *Driver) Start(ctx context.Context) error {
	return d.Do(ctx, func(loopCtx context.Context, w *Widget) {
		if req, ok := w.Start(); ok {
			d.dispatch(loopCtx, req)
		}
	})
}

// Send types text into the input and submits it.
func (d *Driver) Send(ctx context.Context, text string) error {
	return d.Do(ctx, func(loopCtx context.Context, w *Widget) {
		w.SetInput(text)
		if req, ok := w.SendMessage(); ok {
			d.dispatch(loopCtx, req)
		}
	})
}

// Do runs fn on the loop goroutine and waits until it has been accepted.
func (d *Driver) Do(ctx context.Context, fn func(ctx context.Context, w *Widget)) error {
	select {
	case d.ops <- func(loopCtx context.Context) { fn(loopCtx, d.widget) }:
		return nil
	case <-d.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Driver) dispatch(ctx context.Context, req Request) {
	d.workers.Add(1)
	go func() {
		defer d.workers.Done()

		res := req.Do(ctx, d.backend)
		d.widget.logger.Debug("request finished",
			zap.Stringer("kind", req.Kind),
			zap.Bool("failed", res.Err != nil),
		)
		resolve := func(context.Context) {
			d.widget.Resolve(res)
			d.next = append(d.next, d.widget.Finish)
		}

		select {
		case d.ops <- resolve:
		case <-ctx.Done():
		}
	}()
}

func (d *Driver) tick() {
	for len(d.next) > 0 {
		pending := d.next
		d.next = nil
		for _, fn := range pending {
			fn()
		}
	}
}
