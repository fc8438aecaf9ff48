package cli

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"github.com/breakwatch/breakwatch/pkg/logger"
)

// safeGroup wraps errgroup.Group with panic recovery so a panicking
// subscriber callback cannot take the watch loop down.
type safeGroup struct {
	group  *errgroup.Group
	logger logger.Logger
}

func newSafeGroup(ctx context.Context, log logger.Logger) (*safeGroup, context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	return &safeGroup{
		group:  g,
		logger: log,
	}, ctx
}

// Go runs fn in a new goroutine, converting any panic into an error
func (sg *safeGroup) Go(fn func() error) {
	sg.group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				if sg.logger != nil {
					sg.logger.Error("Goroutine panic recovered",
						logger.WithField("panic", r),
						logger.WithField("stack_trace", string(debug.Stack())))
				}
				err = fmt.Errorf("goroutine panic: %v", r)
			}
		}()

		return fn()
	})
}

// Wait blocks until all goroutines have completed or any returns an error
func (sg *safeGroup) Wait() error {
	return sg.group.Wait()
}
