// Package geo defines the IP geolocation collaborator used by the
// tracking write path. The resolver is strictly best-effort: it may
// return an empty country, and it never causes a record write to fail.
package geo

import "context"

// Resolver maps a client IP address to a country name.
// An empty country with a nil error means "unknown"; implementations
// should prefer that over returning errors for routine lookup failures.
type Resolver interface {
	Resolve(ctx context.Context, ip string) (country string, err error)
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(ctx context.Context, ip string) (string, error)

func (f ResolverFunc) Resolve(ctx context.Context, ip string) (string, error) {
	return f(ctx, ip)
}
