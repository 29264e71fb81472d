package coro

// Run drives a coroutine to completion. The first value yielded is obtained by
// resuming the coroutine with start; then each yielded value is passed to f,
// and the value f returns is sent back to the coroutine. Run returns the final
// result of the body.
//
// If f panics, the coroutine is stopped before the panic propagates so that it
// does not stay suspended.
func Run[P, R any](c *Coroutine[P, R], start P, f func(R) P) (R, error) {
	defer func() {
		if c.Status() == StatusYielded {
			_ = c.Stop()
		}
	}()

	r, err := c.Resume(start)
	for err == nil && c.Active() {
		r, err = c.Resume(f(r))
	}
	return r, err
}
