package platform

import (
	"context"

	"github.com/aretw0/notestaker/pkg/state"
	"github.com/aretw0/notestaker/pkg/storage"
)

// New opens the configured store and returns a loaded notes container.
//
//	c, err := notestaker.New(ctx, "./notes", notestaker.WithAdapter("sqlite"))
//
// The caller owns the container; its Close also releases the store.
func New(ctx context.Context, uri string, opts ...Option) (*state.Container, error) {
	o := apply(opts)
	store, err := open(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	c := state.New(storage.New(store, o.logger), o.stateOpts...)
	if err := c.Load(ctx); err != nil {
		_ = CloseStore(store)
		return nil, err
	}
	return c, nil
}

// CloseStore releases stores that hold open handles, such as those returned
// by Open.
func CloseStore(store any) error {
	if closer, ok := store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
