package app

import "context"

// request tracks the newest list request of one kind. Starting a new one
// cancels the previous call, and replies with an older sequence number are
// stale.
type request struct {
	seq    uint64
	cancel context.CancelFunc
}

// next cancels any call in flight and returns the context and sequence
// number for its replacement.
func (r *request) next(parent context.Context) (context.Context, uint64) {
	r.stop()
	r.seq++
	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel
	return ctx, r.seq
}

// finish reports whether seq is the newest request and, if so, releases it.
func (r *request) finish(seq uint64) bool {
	if seq != r.seq {
		return false
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	return true
}

func (r *request) stop() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}
