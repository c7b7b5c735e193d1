package repo

import "context"

type ConnHandler func(context.Context, Conn) error

// Pool represents a database connection pool. Connections are acquired
// by the Conn method and released when its handler returns. Close
// releases all idle connections and must be called once the pool is
// not needed anymore.
type Pool interface {
	Conn(ctx context.Context, handler ConnHandler) error
	Close() error
}
