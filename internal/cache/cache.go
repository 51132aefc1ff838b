package cache

import (
	"context"
	"errors"
)

var ErrCacheMiss = errors.New("cache miss")

// CatalogCache stores rendered storefront payloads. Values are JSON encoded;
// dst in Get must be a pointer.
type CatalogCache interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, value any) error
	// Invalidate drops every catalog entry after an admin write.
	Invalidate(ctx context.Context) error
}

// Nop never stores anything; every Get is a miss.
type Nop struct{}

func (Nop) Get(context.Context, string, any) error { return ErrCacheMiss }
func (Nop) Set(context.Context, string, any) error { return nil }
func (Nop) Invalidate(context.Context) error       { return nil }
