package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/staffbook/internal/server/repositories/pgerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/sethvargo/go-retry"
)

// Connection retry policy used by OpenPostgres.
var (
	ConnectAttempts uint64 = 5
	ConnectBackoff         = 2 * time.Second
)

// OpenPostgres parses dsn, applies the store timeouts and waits until the
// database answers a ping. connectTimeout bounds each dial; socketTimeout
// becomes the server-side statement_timeout. Unreachable stores are retried
// ConnectAttempts times, ConnectBackoff apart.
func OpenPostgres(ctx context.Context, dsn string, connectTimeout, socketTimeout time.Duration) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if connectTimeout > 0 {
		cfg.ConnectTimeout = connectTimeout
	}
	if socketTimeout > 0 {
		cfg.RuntimeParams["statement_timeout"] = strconv.FormatInt(socketTimeout.Milliseconds(), 10)
	}

	db := stdlib.OpenDB(*cfg)

	backoff := retry.WithMaxRetries(ConnectAttempts-1, retry.NewConstant(ConnectBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			if pgerr.IsUnavailable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, pgerr.Map(err, "", nil)
	}

	return db, nil
}
