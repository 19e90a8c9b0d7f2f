package glob

// Options holds the evaluated traversal options. Backends that wrap the
// engine use NewOptions to share one option surface with it.
type Options struct {
	// Recursive makes a whole `**` segment match any number of directory
	// levels. When false, `**` degrades to a single `*` level.
	Recursive bool
	// MissingOK is a forwarded signal: the engine itself never treats zero
	// matches as an error, but backends translate MissingOK=false plus an
	// empty result into their not-found error.
	MissingOK bool
}

// Option configures a traversal.
type Option func(*Options)

// NewOptions evaluates opts over the defaults (recursive, missing-ok).
func NewOptions(opts ...Option) Options {
	o := Options{Recursive: true, MissingOK: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithRecursive controls whether `**` crosses directory levels.
func WithRecursive(recursive bool) Option {
	return func(o *Options) { o.Recursive = recursive }
}

// WithMissingOK controls whether downstream callers should treat an empty
// result as an error.
func WithMissingOK(missingOK bool) Option {
	return func(o *Options) { o.MissingOK = missingOK }
}
