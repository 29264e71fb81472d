package coro

// Option configures a generator, coroutine, or symmetric peer at creation.
type Option func(*options)

type options struct {
	name string
}

func resolveOptions(opts ...Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithName tags the coroutine with a name that appears in the errors it
// reports.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}
