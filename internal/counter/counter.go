// Package counter mints sequential ids. Next must be atomic: two concurrent
// callers never receive the same value for the same name.
package counter

import "context"

const UserIDs = "user_id"

type Counter interface {
	Next(ctx context.Context, name string) (int64, error)
}
