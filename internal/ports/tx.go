package ports

import "context"

// Transactor runs fn inside a single transaction bound to the context it
// passes on. An error from fn rolls everything back before it is returned.
// Calls nest: an inner InTx runs in a savepoint of the outer transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
