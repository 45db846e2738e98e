package formapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-blueprint/pkg/projection"
	"github.com/goliatone/go-blueprint/pkg/rules"
)

// GuardFunc can reject a request before it reaches the handler. Returning an
// error that implements HTTPError controls the response status.
type GuardFunc func(r *http.Request) error

type Options struct {
	Projection *projection.Projection
	Evaluator  *rules.Evaluator
	Guard      GuardFunc
	Logger     *zap.Logger

	DefaultLimit int
	MaxLimit     int
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		Logger:       zap.NewNop(),
		DefaultLimit: 50,
		MaxLimit:     200,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 50
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 200
	}
	return opts
}

func WithProjection(p *projection.Projection) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Projection = p
	}
}

func WithEvaluator(e *rules.Evaluator) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Evaluator = e
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil || logger == nil {
			return
		}
		o.Logger = logger
	}
}

func WithLimits(defaultLimit, maxLimit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultLimit = defaultLimit
		o.MaxLimit = maxLimit
	}
}

func clampLimit(limit int, opts Options) int {
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
