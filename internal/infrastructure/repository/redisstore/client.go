package redisstore

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

type Options struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// Connect opens a client and verifies it answers PING within timeout.
func Connect(ctx context.Context, opts Options, timeout time.Duration) (*redis.Client, error) {
	if opts.PoolSize <= 0 {
		opts.PoolSize = 100
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: opts.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, crerr.Wrapf(err, "ping redis at %s", opts.Addr)
	}
	return client, nil
}

// keyspace builds record keys. Every key of one record shares a hash tag so
// the conditional scripts stay on a single cluster slot.
type keyspace struct {
	prefix string
}

func newKeyspace(prefix string) keyspace {
	return keyspace{prefix: prefix}
}

func (k keyspace) record(kind, id string) string {
	return k.prefix + kind + ":{" + id + "}"
}

func (k keyspace) field(kind, id, name string) string {
	return k.record(kind, id) + ":" + name
}

func (k keyspace) index(kind string) string {
	return k.prefix + kind + "s"
}
