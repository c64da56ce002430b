// Package metadata stores small string values of the CLI, such as the
// current session tokens, in the local database.
package metadata

import (
	"context"
)

// Repository is a key/value table. Get reports common.ErrorNotFound for
// absent keys.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string]string, error)
}
