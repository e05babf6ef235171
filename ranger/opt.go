package ranger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/xy-planning-network/wayfarer/logger"
	"github.com/xy-planning-network/wayfarer/travel"
)

// A RangerOption configures a *Ranger either (1) directly, immediately upon being called
// or (2) in the OptFollowup it returns.
// Some RangerOptions require data in others and thus an OptFollowup can be returned
// in order to be called at a later time when that data is available.
//
// WithStore is an example of the first.
// An unexported field on the passed in *Ranger is updated with the enclosed value.
//
// WithServer is an example of the second.
// The *http.Server only receives the Ranger's router
// once the closure it returns is called.
type RangerOption func(rng *Ranger) (OptFollowup, error)
type OptFollowup func() error

// WithContext sets the context.Context every request handled by the Ranger descends from.
// Canceling ctx stops [*Ranger.Guide].
func WithContext(ctx context.Context) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if ctx == nil {
			return nil, fmt.Errorf("%w: nil context", ErrBadConfig)
		}

		rng.ctx, rng.cancel = context.WithCancel(ctx)
		return nil, nil
	}
}

// WithLogger replaces the default app logger.
func WithLogger(l logger.Logger) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if l == nil {
			return nil, fmt.Errorf("%w: nil logger", ErrBadConfig)
		}

		rng.l = l
		l.Debug(fmt.Sprintf("using logger %T", l), nil)

		return nil, nil
	}
}

// WithServer replaces the default *http.Server.
// Its Handler is overwritten by the Ranger's router.
func WithServer(srv *http.Server) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if srv == nil {
			return nil, fmt.Errorf("%w: nil server", ErrBadConfig)
		}

		return func() error {
			srv.Handler = rng.handler
			rng.srv = srv
			if rng.l != nil {
				rng.l.Debug(fmt.Sprintf("using server listening at %q", srv.Addr), nil)
			}

			return nil
		}, nil
	}
}

// WithStore persists through store rather than connecting to Postgres.
func WithStore(store travel.Store) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if store == nil {
			return nil, fmt.Errorf("%w: nil store", ErrBadConfig)
		}

		rng.store = store
		return nil, nil
	}
}
