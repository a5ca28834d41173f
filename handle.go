package labelset

// SaveHandle joins an asynchronous save.
//
// Field write failures surface only here: a handle that is never waited on
// drops them (they are still logged at Error level).
type SaveHandle struct {
	done chan struct{}
	err  error
}

func newSaveHandle() *SaveHandle {
	return &SaveHandle{done: make(chan struct{})}
}

func (h *SaveHandle) finish(err error) {
	h.err = err
	close(h.done)
}

// Wait blocks until all field writes of the save have finished and returns
// the first error encountered, if any. Wait may be called multiple times and
// from multiple goroutines.
func (h *SaveHandle) Wait() error {
	<-h.done
	return h.err
}

// Done returns a channel closed when the save has finished. Use it to select
// across several in-flight saves; call Wait for the result.
func (h *SaveHandle) Done() <-chan struct{} {
	return h.done
}
