package hatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultResolveTimeout bounds how long a resolve waits for the upstream
// before failing the caller.
const DefaultResolveTimeout = 10 * time.Second

// ResolveFunc fetches the bytes behind an asset key. A nil, nil return
// means the key is unknown.
type ResolveFunc func(ctx context.Context, key string) ([]byte, error)

// AssetResolver deduplicates concurrent lookups of the same asset key
// behind a single in-flight call. While one fetch is running, later callers
// for the same key share its result; the entry is dropped as soon as the
// call settles, so a later request fetches fresh.
type AssetResolver struct {
	fetch   ResolveFunc
	group   singleflight.Group
	timeout time.Duration
	log     *slog.Logger
}

// ResolverOption configures an AssetResolver.
type ResolverOption func(*AssetResolver)

// WithResolveTimeout overrides the per-resolve timeout.
func WithResolveTimeout(d time.Duration) ResolverOption {
	return func(r *AssetResolver) { r.timeout = d }
}

// WithResolverLogger sets the resolver's logger.
func WithResolverLogger(log *slog.Logger) ResolverOption {
	return func(r *AssetResolver) { r.log = log }
}

// NewAssetResolver builds a resolver around a fetch function.
func NewAssetResolver(fetch ResolveFunc, opts ...ResolverOption) *AssetResolver {
	r := &AssetResolver{
		fetch:   fetch,
		timeout: DefaultResolveTimeout,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the bytes for key, joining an in-flight fetch when one
// exists. Unknown keys resolve to nil with a logged warning; only transport
// failures and timeouts are errors.
func (r *AssetResolver) Resolve(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// singleflight drops the key once the shared call settles, so there is
	// no stale caching beyond the flight itself.
	ch := r.group.DoChan(key, func() (interface{}, error) {
		data, err := r.fetch(ctx, key)
		if err != nil {
			return nil, err
		}
		if data == nil {
			// keep the interface nil so the unknown-key path below fires
			return nil, nil
		}
		return data, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("resolve %q: %w", key, res.Err)
		}
		if res.Val == nil {
			r.log.Warn("asset key resolved to nothing", "key", key)
			return nil, nil
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("resolve %q: %w", key, ctx.Err())
	}
}
